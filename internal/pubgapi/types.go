package pubgapi

import (
	"encoding/json"
	"time"
)

// PlayerInfo is a tracked player's upstream account record together with the
// identifiers of its most recent matches, most recent first.
type PlayerInfo struct {
	AccountID    string
	Name         string
	ShardID      string
	PatchVersion string
	TitleID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MatchIDs     []string
}

// MatchRecord is a fully assembled match. It is constructed once from the
// upstream resource graph and never mutated afterwards.
type MatchRecord struct {
	MatchID      string
	MapName      string
	GameMode     string
	CreatedAt    time.Time
	Duration     int
	CustomMatch  bool
	ShardID      string
	Rosters      []RosterRecord
	Participants []ParticipantRecord
	TelemetryURL string
}

// RosterRecord is one team within a match.
type RosterRecord struct {
	ID           string
	Rank         int
	TeamID       int
	Participants []ParticipantRecord
}

// ParticipantRecord is one player's per-match performance.
type ParticipantRecord struct {
	ID       string
	Name     string
	PlayerID string
	Stats    ParticipantStats
}

// ParticipantStats holds the combat/survival metrics the summary consumes.
// Missing upstream fields decode to zero values.
type ParticipantStats struct {
	Assists       int     `json:"assists"`
	Boosts        int     `json:"boosts"`
	DamageDealt   float64 `json:"damageDealt"`
	DBNOs         int     `json:"DBNOs"`
	HeadshotKills int     `json:"headshotKills"`
	Heals         int     `json:"heals"`
	KillPlace     int     `json:"killPlace"`
	Kills         int     `json:"kills"`
	LongestKill   float64 `json:"longestKill"`
	Revives       int     `json:"revives"`
	RideDistance  float64 `json:"rideDistance"`
	SwimDistance  float64 `json:"swimDistance"`
	TimeSurvived  float64 `json:"timeSurvived"`
	WalkDistance  float64 `json:"walkDistance"`
	WinPlace      int     `json:"winPlace"`
}

// EventType distinguishes the telemetry event variants the correlator emits.
type EventType string

const (
	EventKill  EventType = "kill"
	EventKnock EventType = "knock"
)

// TelemetryEvent is one correlated kill or knock involving a tracked player.
type TelemetryEvent struct {
	Timestamp      time.Time
	MatchTime      string
	Type           EventType
	Actor          string
	Target         string
	Weapon         string
	DistanceMeters float64
	ActorTracked   bool
}

// RosterFor returns the roster containing any of the given account ids,
// or nil when no roster does.
func (m *MatchRecord) RosterFor(accountIDs []string) *RosterRecord {
	for i := range m.Rosters {
		for _, p := range m.Rosters[i].Participants {
			for _, id := range accountIDs {
				if p.PlayerID == id {
					return &m.Rosters[i]
				}
			}
		}
	}
	return nil
}

// SquadMembers returns every participant sharing a roster with any of the
// given account ids. An empty slice means no roster contained a tracked player.
func (m *MatchRecord) SquadMembers(accountIDs []string) []ParticipantRecord {
	roster := m.RosterFor(accountIDs)
	if roster == nil {
		return nil
	}
	return roster.Participants
}

// document is the JSON:API-style envelope the upstream returns: a primary
// resource (or list of resources) plus a flat included list.
type document struct {
	Data     json.RawMessage `json:"data"`
	Included []resource      `json:"included"`
}

// resource is one typed, identified entry in a resource graph.
type resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type relationship struct {
	Data []resourceRef `json:"data"`
}

type resourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// refIDs extracts the ordered id list of the named relationship. Absent
// relationships yield nil rather than an error.
func (r *resource) refIDs(name string) []string {
	rel, ok := r.Relationships[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(rel.Data))
	for _, ref := range rel.Data {
		ids = append(ids, ref.ID)
	}
	return ids
}

type playerAttributes struct {
	Name         string `json:"name"`
	ShardID      string `json:"shardId"`
	PatchVersion string `json:"patchVersion"`
	TitleID      string `json:"titleId"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

type matchAttributes struct {
	MapName       string `json:"mapName"`
	GameMode      string `json:"gameMode"`
	CreatedAt     string `json:"createdAt"`
	Duration      int    `json:"duration"`
	IsCustomMatch bool   `json:"isCustomMatch"`
	ShardID       string `json:"shardId"`
}

type participantAttributes struct {
	Stats participantStats `json:"stats"`
}

// participantStats is the raw stats block; it carries the display name and
// account id alongside the numeric metrics.
type participantStats struct {
	Name     string `json:"name"`
	PlayerID string `json:"playerId"`
	ParticipantStats
}

type rosterAttributes struct {
	Stats rosterStats `json:"stats"`
}

type rosterStats struct {
	Rank   int `json:"rank"`
	TeamID int `json:"teamId"`
}

type assetAttributes struct {
	Name string `json:"name"`
	URL  string `json:"URL"`
}
