package pubgapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Raw telemetry shapes. The telemetry log is a flat JSON array of typed
// events; only kill and knock events are handled, everything else is ignored.
const (
	telemetryKillEvent  = "LogPlayerKillV2"
	telemetryKnockEvent = "LogPlayerMakeGroggy"
)

type telemetryEnvelope struct {
	Type      string `json:"_T"`
	Timestamp string `json:"_D"`
}

type telemetryCharacter struct {
	Name      string `json:"name"`
	TeamID    int    `json:"teamId"`
	AccountID string `json:"accountId"`
}

type telemetryDamageInfo struct {
	DamageCauserName string  `json:"damageCauserName"`
	DamageReason     string  `json:"damageReason"`
	Distance         float64 `json:"distance"`
}

type killEvent struct {
	telemetryEnvelope
	Killer           *telemetryCharacter  `json:"killer"`
	Finisher         *telemetryCharacter  `json:"finisher"`
	Victim           telemetryCharacter   `json:"victim"`
	KillerDamageInfo *telemetryDamageInfo `json:"killerDamageInfo"`
	FinishDamageInfo *telemetryDamageInfo `json:"finishDamageInfo"`
}

type knockEvent struct {
	telemetryEnvelope
	Attacker         telemetryCharacter `json:"attacker"`
	Victim           telemetryCharacter `json:"victim"`
	DamageCauserName string             `json:"damageCauserName"`
	Distance         float64            `json:"distance"`
}

// Correlate extracts the kill and knock events involving tracked players from
// a raw telemetry log and returns them ordered by timestamp ascending.
//
// Individual events that fail to decode are logged and dropped; the batch
// never aborts.
func Correlate(raw []json.RawMessage, trackedNames map[string]struct{}, matchStart time.Time, logger *slog.Logger) []TelemetryEvent {
	events := make([]TelemetryEvent, 0)

	for _, data := range raw {
		var env telemetryEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Debug("skipping undecodable telemetry entry", slog.Any("error", err))
			continue
		}

		var (
			event *TelemetryEvent
			err   error
		)
		switch env.Type {
		case telemetryKillEvent:
			event, err = correlateKill(data, trackedNames, matchStart)
		case telemetryKnockEvent:
			event, err = correlateKnock(data, trackedNames, matchStart)
		default:
			continue
		}
		if err != nil {
			logger.Debug("skipping malformed telemetry event",
				slog.String("event_type", env.Type),
				slog.Any("error", err))
			continue
		}
		if event != nil {
			events = append(events, *event)
		}
	}

	// Stable so equal timestamps keep encounter order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}

func correlateKill(data json.RawMessage, trackedNames map[string]struct{}, matchStart time.Time) (*TelemetryEvent, error) {
	var ev killEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode kill event: %w", err)
	}

	var killerName, finisherName string
	if ev.Killer != nil {
		killerName = ev.Killer.Name
	}
	if ev.Finisher != nil {
		finisherName = ev.Finisher.Name
	}

	// Finisher takes precedence over killer for both the actor and the
	// weapon used.
	actor := finisherName
	if actor == "" {
		actor = killerName
	}

	if !anyTracked(trackedNames, actor, ev.Victim.Name, finisherName) {
		return nil, nil
	}

	damage := ev.FinishDamageInfo
	if damage == nil {
		damage = ev.KillerDamageInfo
	}
	var weapon string
	var distance float64
	if damage != nil {
		weapon = WeaponDisplayName(damage.DamageCauserName)
		distance = damage.Distance / 100 // upstream distance is centimeters
	}

	ts, matchTime := matchRelativeTime(ev.Timestamp, matchStart)
	return &TelemetryEvent{
		Timestamp:      ts,
		MatchTime:      matchTime,
		Type:           EventKill,
		Actor:          actor,
		Target:         ev.Victim.Name,
		Weapon:         weapon,
		DistanceMeters: distance,
		ActorTracked:   isTracked(trackedNames, actor),
	}, nil
}

func correlateKnock(data json.RawMessage, trackedNames map[string]struct{}, matchStart time.Time) (*TelemetryEvent, error) {
	var ev knockEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode knock event: %w", err)
	}

	if !anyTracked(trackedNames, ev.Attacker.Name, ev.Victim.Name) {
		return nil, nil
	}

	ts, matchTime := matchRelativeTime(ev.Timestamp, matchStart)
	return &TelemetryEvent{
		Timestamp:      ts,
		MatchTime:      matchTime,
		Type:           EventKnock,
		Actor:          ev.Attacker.Name,
		Target:         ev.Victim.Name,
		Weapon:         WeaponDisplayName(ev.DamageCauserName),
		DistanceMeters: ev.Distance / 100,
		ActorTracked:   isTracked(trackedNames, ev.Attacker.Name),
	}, nil
}

// matchRelativeTime parses a raw telemetry timestamp and formats its offset
// from the match start as MM:SS (minutes unbounded, seconds zero-padded).
// An unparsable timestamp yields a zero time and "00:00" rather than an error.
func matchRelativeTime(raw string, matchStart time.Time) (time.Time, string) {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, "00:00"
	}
	seconds := int(ts.Sub(matchStart).Seconds())
	return ts, fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func isTracked(trackedNames map[string]struct{}, name string) bool {
	if name == "" {
		return false
	}
	_, ok := trackedNames[name]
	return ok
}

func anyTracked(trackedNames map[string]struct{}, names ...string) bool {
	for _, name := range names {
		if isTracked(trackedNames, name) {
			return true
		}
	}
	return false
}
