package pubgapi

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var telemetryMatchStart = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func tracked(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func rawEvents(events ...string) []json.RawMessage {
	raw := make([]json.RawMessage, 0, len(events))
	for _, e := range events {
		raw = append(raw, json.RawMessage(e))
	}
	return raw
}

func killJSON(offsetSeconds int, killer, victim, causer string, distanceCm float64) string {
	ts := telemetryMatchStart.Add(time.Duration(offsetSeconds) * time.Second).Format(time.RFC3339)
	return fmt.Sprintf(`{
		"_T": "LogPlayerKillV2",
		"_D": "%s",
		"killer": {"name": "%s"},
		"victim": {"name": "%s"},
		"killerDamageInfo": {"damageCauserName": "%s", "distance": %f}
	}`, ts, killer, victim, causer, distanceCm)
}

func knockJSON(offsetSeconds int, attacker, victim, causer string, distanceCm float64) string {
	ts := telemetryMatchStart.Add(time.Duration(offsetSeconds) * time.Second).Format(time.RFC3339)
	return fmt.Sprintf(`{
		"_T": "LogPlayerMakeGroggy",
		"_D": "%s",
		"attacker": {"name": "%s"},
		"victim": {"name": "%s"},
		"damageCauserName": "%s",
		"distance": %f
	}`, ts, attacker, victim, causer, distanceCm)
}

func TestCorrelateDistanceConversion(t *testing.T) {
	events := Correlate(
		rawEvents(killJSON(10, "alice", "victim1", "WeapSKS_C", 1550)),
		tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 1)
	assert.Equal(t, 15.5, events[0].DistanceMeters)
	assert.Equal(t, "SKS", events[0].Weapon)
}

func TestCorrelateMatchTimeFormatting(t *testing.T) {
	events := Correlate(
		rawEvents(killJSON(125, "alice", "victim1", "WeapAK47_C", 100)),
		tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 1)
	assert.Equal(t, "02:05", events[0].MatchTime)
}

func TestCorrelateFiltersUntrackedEvents(t *testing.T) {
	events := Correlate(
		rawEvents(
			killJSON(10, "stranger1", "stranger2", "WeapAK47_C", 100),
			killJSON(20, "stranger3", "alice", "WeapM24_C", 200),
			knockJSON(30, "stranger4", "stranger5", "WeapUMP_C", 300),
		),
		tracked("alice"), telemetryMatchStart, testLogger())

	// Only the kill where the victim is tracked survives, even though the
	// killer is not.
	require.Len(t, events, 1)
	assert.Equal(t, "stranger3", events[0].Actor)
	assert.Equal(t, "alice", events[0].Target)
	assert.False(t, events[0].ActorTracked)
}

func TestCorrelateFinisherPrecedence(t *testing.T) {
	event := fmt.Sprintf(`{
		"_T": "LogPlayerKillV2",
		"_D": "%s",
		"killer": {"name": "helper"},
		"finisher": {"name": "alice"},
		"victim": {"name": "victim1"},
		"killerDamageInfo": {"damageCauserName": "WeapUMP_C", "distance": 800},
		"finishDamageInfo": {"damageCauserName": "WeapHK416_C", "distance": 1200}
	}`, telemetryMatchStart.Add(5*time.Second).Format(time.RFC3339))

	events := Correlate(rawEvents(event), tracked("alice"), telemetryMatchStart, testLogger())
	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].Actor)
	assert.Equal(t, "M416", events[0].Weapon)
	assert.Equal(t, 12.0, events[0].DistanceMeters)
	assert.True(t, events[0].ActorTracked)
}

func TestCorrelateKillFallsBackToKiller(t *testing.T) {
	events := Correlate(
		rawEvents(killJSON(10, "alice", "victim1", "WeapKar98k_C", 9000)),
		tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].Actor)
	assert.Equal(t, "Kar98k", events[0].Weapon)
	assert.Equal(t, EventKill, events[0].Type)
}

func TestCorrelateKnockEvent(t *testing.T) {
	events := Correlate(
		rawEvents(knockJSON(60, "alice", "victim1", "WeapSCAR-L_C", 2500)),
		tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 1)
	assert.Equal(t, EventKnock, events[0].Type)
	assert.Equal(t, "alice", events[0].Actor)
	assert.Equal(t, "SCAR-L", events[0].Weapon)
	assert.Equal(t, 25.0, events[0].DistanceMeters)
	assert.Equal(t, "01:00", events[0].MatchTime)
}

func TestCorrelateUnknownWeaponPassesThrough(t *testing.T) {
	events := Correlate(
		rawEvents(knockJSON(5, "alice", "victim1", "WeapFuture_C", 100)),
		tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 1)
	assert.Equal(t, "WeapFuture_C", events[0].Weapon)
}

func TestCorrelateUnparsableTimestampDefaults(t *testing.T) {
	event := `{
		"_T": "LogPlayerMakeGroggy",
		"_D": "yesterday-ish",
		"attacker": {"name": "alice"},
		"victim": {"name": "victim1"},
		"damageCauserName": "WeapAK47_C",
		"distance": 500
	}`
	events := Correlate(rawEvents(event), tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 1)
	assert.Equal(t, "00:00", events[0].MatchTime)
	assert.True(t, events[0].Timestamp.IsZero())
}

func TestCorrelateIgnoresOtherEventTypes(t *testing.T) {
	events := Correlate(
		rawEvents(
			`{"_T": "LogParachuteLanding", "character": {"name": "alice"}}`,
			`{"_T": "LogItemPickup", "character": {"name": "alice"}}`,
		),
		tracked("alice"), telemetryMatchStart, testLogger())

	assert.Empty(t, events)
}

func TestCorrelateDropsMalformedEventsOnly(t *testing.T) {
	events := Correlate(
		rawEvents(
			`{"_T": "LogPlayerKillV2", "victim": "not-an-object"}`,
			killJSON(10, "alice", "victim1", "WeapAK47_C", 100),
		),
		tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].Actor)
}

func TestCorrelateSortsByTimestamp(t *testing.T) {
	events := Correlate(
		rawEvents(
			killJSON(300, "alice", "late", "WeapAK47_C", 100),
			knockJSON(30, "alice", "early", "WeapAK47_C", 100),
			killJSON(120, "alice", "middle", "WeapAK47_C", 100),
		),
		tracked("alice"), telemetryMatchStart, testLogger())

	require.Len(t, events, 3)
	assert.Equal(t, "early", events[0].Target)
	assert.Equal(t, "middle", events[1].Target)
	assert.Equal(t, "late", events[2].Target)
}
