package monitor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/chicken-dinner-club/pubg-tracker/internal/notify"
	"github.com/chicken-dinner-club/pubg-tracker/internal/pubgapi"
	"github.com/chicken-dinner-club/pubg-tracker/internal/storage"
)

// fakeAPI provides a programmable stub for the upstream client.
type fakeAPI struct {
	GetPlayersByNamesFn func(ctx context.Context, names []string) ([]pubgapi.PlayerInfo, error)
	GetMatchFn          func(ctx context.Context, matchID string) (*pubgapi.MatchRecord, error)
	GetTelemetryFn      func(ctx context.Context, telemetryURL string) ([]json.RawMessage, error)
}

func (f *fakeAPI) GetPlayersByNames(ctx context.Context, names []string) ([]pubgapi.PlayerInfo, error) {
	if f.GetPlayersByNamesFn == nil {
		return nil, nil
	}
	return f.GetPlayersByNamesFn(ctx, names)
}

func (f *fakeAPI) GetMatch(ctx context.Context, matchID string) (*pubgapi.MatchRecord, error) {
	if f.GetMatchFn == nil {
		return nil, errors.New("unexpected GetMatch call")
	}
	return f.GetMatchFn(ctx, matchID)
}

func (f *fakeAPI) GetTelemetry(ctx context.Context, telemetryURL string) ([]json.RawMessage, error) {
	if f.GetTelemetryFn == nil {
		return nil, nil
	}
	return f.GetTelemetryFn(ctx, telemetryURL)
}

// fakePlayerStore serves a fixed roster.
type fakePlayerStore struct {
	players []storage.TrackedPlayer
	listErr error
}

func (f *fakePlayerStore) UpsertPlayer(context.Context, *storage.TrackedPlayer) error {
	return nil
}

func (f *fakePlayerStore) RemovePlayer(context.Context, string) (bool, error) {
	return false, nil
}

func (f *fakePlayerStore) GetPlayer(context.Context, string) (*storage.TrackedPlayer, error) {
	return nil, storage.ErrPlayerNotFound
}

func (f *fakePlayerStore) ListPlayers(context.Context) ([]storage.TrackedPlayer, error) {
	return f.players, f.listErr
}

// fakeLedger is an in-memory processed-match ledger.
type fakeLedger struct {
	processed map[string]bool
	markErr   error
	checkErr  error
}

func newFakeLedger(processed ...string) *fakeLedger {
	l := &fakeLedger{processed: make(map[string]bool)}
	for _, id := range processed {
		l.processed[id] = true
	}
	return l
}

func (f *fakeLedger) IsProcessed(_ context.Context, matchID string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.processed[matchID], nil
}

func (f *fakeLedger) MarkProcessed(_ context.Context, matchID string) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.processed[matchID] {
		return false, nil
	}
	f.processed[matchID] = true
	return true, nil
}

func (f *fakeLedger) ListProcessed(context.Context, int) ([]storage.ProcessedMatch, error) {
	return nil, nil
}

// deliveredMatch captures one sink call.
type deliveredMatch struct {
	Summary notify.MatchSummary
	Squad   []pubgapi.ParticipantRecord
	Events  []pubgapi.TelemetryEvent
}

// fakeNotifier records deliveries and can be told to fail.
type fakeNotifier struct {
	delivered  []deliveredMatch
	deliverErr error
}

func (f *fakeNotifier) Deliver(_ context.Context, summary notify.MatchSummary, squad []pubgapi.ParticipantRecord, events []pubgapi.TelemetryEvent) error {
	if f.deliverErr != nil {
		return f.deliverErr
	}
	f.delivered = append(f.delivered, deliveredMatch{Summary: summary, Squad: squad, Events: events})
	return nil
}
