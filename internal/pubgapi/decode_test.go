package pubgapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matchDocument = `{
	"data": {
		"type": "match",
		"id": "match-1",
		"attributes": {
			"mapName": "Baltic_Main",
			"gameMode": "squad-fpp",
			"createdAt": "2024-05-01T12:00:00Z",
			"duration": 1800,
			"isCustomMatch": false,
			"shardId": "steam"
		},
		"relationships": {
			"rosters": {"data": [
				{"type": "roster", "id": "roster-b"},
				{"type": "roster", "id": "roster-a"},
				{"type": "roster", "id": "roster-missing"}
			]},
			"assets": {"data": [{"type": "asset", "id": "asset-1"}]}
		}
	},
	"included": [
		{
			"type": "participant",
			"id": "part-1",
			"attributes": {"stats": {"name": "alice", "playerId": "account.alice", "kills": 4, "damageDealt": 321.5, "winPlace": 2}}
		},
		{
			"type": "participant",
			"id": "part-2",
			"attributes": {"stats": {"name": "bob", "playerId": "account.bob", "winPlace": 2}}
		},
		{
			"type": "participant",
			"id": "part-3",
			"attributes": {"stats": {"name": "carol", "playerId": "account.carol", "kills": 1, "winPlace": 7}}
		},
		{
			"type": "roster",
			"id": "roster-a",
			"attributes": {"stats": {"rank": 7, "teamId": 14}},
			"relationships": {"participants": {"data": [{"type": "participant", "id": "part-3"}]}}
		},
		{
			"type": "roster",
			"id": "roster-b",
			"attributes": {"stats": {"rank": 2, "teamId": 3}},
			"relationships": {"participants": {"data": [
				{"type": "participant", "id": "part-1"},
				{"type": "participant", "id": "part-2"},
				{"type": "participant", "id": "part-ghost"}
			]}}
		},
		{
			"type": "asset",
			"id": "asset-0",
			"attributes": {"name": "telemetry", "URL": "https://telemetry.example/first.json"}
		},
		{
			"type": "asset",
			"id": "asset-1",
			"attributes": {"name": "telemetry", "URL": "https://telemetry.example/last.json"}
		}
	]
}`

func decodeTestDocument(t *testing.T, payload string) *document {
	t.Helper()
	var doc document
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))
	return &doc
}

func TestBuildMatch(t *testing.T) {
	match, err := buildMatch(decodeTestDocument(t, matchDocument), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "match-1", match.MatchID)
	assert.Equal(t, "Baltic_Main", match.MapName)
	assert.Equal(t, "squad-fpp", match.GameMode)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), match.CreatedAt)
	assert.Equal(t, 1800, match.Duration)
	assert.False(t, match.CustomMatch)

	// Roster order follows the match relationship list, not included order,
	// and the unresolvable roster id is dropped.
	require.Len(t, match.Rosters, 2)
	assert.Equal(t, "roster-b", match.Rosters[0].ID)
	assert.Equal(t, "roster-a", match.Rosters[1].ID)
	assert.Equal(t, 2, match.Rosters[0].Rank)
	assert.Equal(t, 3, match.Rosters[0].TeamID)

	// The ghost participant reference is silently omitted.
	wantRosterB := []ParticipantRecord{
		{
			ID:       "part-1",
			Name:     "alice",
			PlayerID: "account.alice",
			Stats:    ParticipantStats{Kills: 4, DamageDealt: 321.5, WinPlace: 2},
		},
		{
			ID:       "part-2",
			Name:     "bob",
			PlayerID: "account.bob",
			Stats:    ParticipantStats{WinPlace: 2},
		},
	}
	if diff := cmp.Diff(wantRosterB, match.Rosters[0].Participants); diff != "" {
		t.Errorf("roster participants mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, match.Participants, 3)
}

func TestBuildMatchTelemetryLastAssetWins(t *testing.T) {
	match, err := buildMatch(decodeTestDocument(t, matchDocument), testLogger())
	require.NoError(t, err)
	assert.Equal(t, "https://telemetry.example/last.json", match.TelemetryURL)
}

func TestBuildMatchLenientStats(t *testing.T) {
	// bob's stats block carries only winPlace; every other metric defaults
	// to zero instead of failing the decode.
	match, err := buildMatch(decodeTestDocument(t, matchDocument), testLogger())
	require.NoError(t, err)

	bob := match.Rosters[0].Participants[1]
	assert.Equal(t, "bob", bob.Name)
	assert.Equal(t, 0, bob.Stats.Kills)
	assert.Equal(t, 0.0, bob.Stats.DamageDealt)
	assert.Equal(t, 2, bob.Stats.WinPlace)
}

func TestBuildMatchMalformedCreatedAtFallsBack(t *testing.T) {
	payload := `{
		"data": {
			"type": "match",
			"id": "match-2",
			"attributes": {"mapName": "Desert_Main", "createdAt": "not-a-timestamp"}
		}
	}`
	before := time.Now().UTC()
	match, err := buildMatch(decodeTestDocument(t, payload), testLogger())
	require.NoError(t, err)
	assert.False(t, match.CreatedAt.Before(before))
}

func TestBuildMatchRejectsWrongPrimaryType(t *testing.T) {
	payload := `{"data": {"type": "player", "id": "account.1"}}`
	_, err := buildMatch(decodeTestDocument(t, payload), testLogger())
	assert.Error(t, err)
}

func TestSquadMembers(t *testing.T) {
	match, err := buildMatch(decodeTestDocument(t, matchDocument), testLogger())
	require.NoError(t, err)

	// alice's roster, not carol's.
	squad := match.SquadMembers([]string{"account.alice"})
	require.Len(t, squad, 2)
	assert.Equal(t, "alice", squad[0].Name)
	assert.Equal(t, "bob", squad[1].Name)

	assert.Nil(t, match.SquadMembers([]string{"account.nobody"}))
	assert.Nil(t, match.SquadMembers(nil))
}

func TestDecodePlayersSkipsMalformedResources(t *testing.T) {
	payload := `{
		"data": [
			{"type": "player", "id": "account.1", "attributes": {"name": "alice"}},
			{"type": "player", "id": "account.2", "attributes": "garbage"},
			{"type": "player", "id": "account.3", "attributes": {"name": "carol"}}
		]
	}`
	players, err := decodePlayers(decodeTestDocument(t, payload), testLogger())
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "alice", players[0].Name)
	assert.Equal(t, "carol", players[1].Name)
}
