// Package monitor drives the match discovery, deduplication, assembly, and
// notification pipeline on a fixed interval.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chicken-dinner-club/pubg-tracker/internal/metrics"
	"github.com/chicken-dinner-club/pubg-tracker/internal/notify"
	"github.com/chicken-dinner-club/pubg-tracker/internal/pubgapi"
	"github.com/chicken-dinner-club/pubg-tracker/internal/storage"
)

// upstreamAPI is the slice of the PUBG client the monitor consumes.
type upstreamAPI interface {
	GetPlayersByNames(ctx context.Context, names []string) ([]pubgapi.PlayerInfo, error)
	GetMatch(ctx context.Context, matchID string) (*pubgapi.MatchRecord, error)
	GetTelemetry(ctx context.Context, telemetryURL string) ([]json.RawMessage, error)
}

// Config bounds one monitoring cycle.
type Config struct {
	CheckInterval      time.Duration
	MaxMatchesPerCycle int
}

// Monitor is the monitoring loop. Matches within a cycle are processed
// strictly sequentially; a match is marked processed only after its
// notification was delivered.
type Monitor struct {
	cfg      Config
	api      upstreamAPI
	players  storage.PlayerStore
	ledger   storage.MatchLedger
	notifier notify.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a monitor.
func New(cfg Config, api upstreamAPI, players storage.PlayerStore, ledger storage.MatchLedger, notifier notify.Notifier, logger *slog.Logger, m *metrics.Metrics) *Monitor {
	return &Monitor{
		cfg:      cfg,
		api:      api,
		players:  players,
		ledger:   ledger,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// Run executes monitoring cycles until ctx is cancelled. A cycle's error is
// logged and followed by the normal sleep; no error terminates the loop.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("match monitoring started",
		slog.Duration("check_interval", m.cfg.CheckInterval),
		slog.Int("max_matches_per_cycle", m.cfg.MaxMatchesPerCycle))

	for {
		m.metrics.CyclesRun.Inc()
		if err := m.checkForNewMatches(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			m.metrics.CycleErrors.Inc()
			m.logger.Error("monitoring cycle failed", slog.Any("error", err))
		}

		timer := time.NewTimer(m.cfg.CheckInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("match monitoring stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}

	m.logger.Info("match monitoring stopped")
	return ctx.Err()
}

// checkForNewMatches runs one full cycle: roster fetch, discovery, dedup,
// cap, then sequential per-match processing.
func (m *Monitor) checkForNewMatches(ctx context.Context) error {
	players, err := m.players.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tracked players: %w", err)
	}
	if len(players) == 0 {
		m.logger.Debug("no tracked players, skipping cycle")
		return nil
	}

	groups, err := discover(ctx, m.api, players, m.cfg.MaxMatchesPerCycle)
	if err != nil {
		return err
	}

	fresh, err := filterUnprocessed(ctx, m.ledger, groups)
	if err != nil {
		return err
	}
	if len(fresh) == 0 {
		m.logger.Debug("no new matches this cycle",
			slog.Int("discovered", len(groups)))
		return nil
	}

	if len(fresh) > m.cfg.MaxMatchesPerCycle {
		fresh = fresh[:m.cfg.MaxMatchesPerCycle]
	}

	m.logger.Info("processing new matches",
		slog.Int("discovered", len(groups)),
		slog.Int("new", len(fresh)))

	accountIDs := accountIndex(players)
	for _, group := range fresh {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := m.processMatch(ctx, group, accountIDs); err != nil {
			// The match stays unmarked and is reconsidered next cycle.
			m.logger.Error("failed to process match, will retry next cycle",
				slog.String("match_id", group.MatchID),
				slog.Any("error", err))
		}
	}
	return nil
}

// processMatch assembles one match, correlates its telemetry, delivers the
// notification, and only then writes the processed record.
func (m *Monitor) processMatch(ctx context.Context, group MatchGroup, accountIDs map[string]string) error {
	match, err := m.api.GetMatch(ctx, group.MatchID)
	if err != nil {
		if errors.Is(err, pubgapi.ErrNotFound) {
			m.metrics.MatchesSkipped.WithLabelValues("not_found").Inc()
		} else {
			m.metrics.MatchesSkipped.WithLabelValues("fetch_failed").Inc()
		}
		return fmt.Errorf("match fetch failed: %w", err)
	}

	ids := make([]string, 0, len(group.Players))
	for _, name := range group.Players {
		if id, ok := accountIDs[name]; ok && id != "" {
			ids = append(ids, id)
		}
	}

	squad := match.SquadMembers(ids)
	if len(squad) == 0 {
		m.metrics.MatchesSkipped.WithLabelValues("no_squad").Inc()
		m.logger.Warn("no roster contains a tracked player, skipping match",
			slog.String("match_id", group.MatchID),
			slog.Any("players", group.Players))
		return nil
	}

	events := m.correlateTelemetry(ctx, match, group.Players)

	summary := notify.SummaryFromMatch(match)
	if err := m.notifier.Deliver(ctx, summary, squad, events); err != nil {
		m.metrics.MatchesSkipped.WithLabelValues("delivery_failed").Inc()
		return fmt.Errorf("notification delivery failed: %w", err)
	}

	if _, err := m.ledger.MarkProcessed(ctx, group.MatchID); err != nil {
		return fmt.Errorf("failed to mark match processed: %w", err)
	}

	m.metrics.MatchesProcessed.Inc()
	m.logger.Info("match processed",
		slog.String("match_id", group.MatchID),
		slog.String("map", match.MapName),
		slog.Int("squad_size", len(squad)),
		slog.Int("event_count", len(events)))
	return nil
}

// correlateTelemetry fetches and correlates a match's telemetry. Telemetry is
// best effort: any failure yields an empty event list, never a match failure.
func (m *Monitor) correlateTelemetry(ctx context.Context, match *pubgapi.MatchRecord, trackedPlayers []string) []pubgapi.TelemetryEvent {
	if match.TelemetryURL == "" {
		m.logger.Debug("no telemetry asset for match", slog.String("match_id", match.MatchID))
		return nil
	}

	raw, err := m.api.GetTelemetry(ctx, match.TelemetryURL)
	if err != nil {
		m.logger.Warn("telemetry unavailable for match",
			slog.String("match_id", match.MatchID),
			slog.Any("error", err))
		return nil
	}

	tracked := make(map[string]struct{}, len(trackedPlayers))
	for _, name := range trackedPlayers {
		tracked[name] = struct{}{}
	}

	events := pubgapi.Correlate(raw, tracked, match.CreatedAt, m.logger)
	m.metrics.TelemetryEvents.Add(float64(len(events)))
	return events
}

// accountIndex maps tracked player names to their upstream account ids.
func accountIndex(players []storage.TrackedPlayer) map[string]string {
	index := make(map[string]string, len(players))
	for _, p := range players {
		index[p.Name] = p.AccountID
	}
	return index
}
