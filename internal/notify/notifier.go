// Package notify carries finished match summaries to the downstream
// renderer. The renderer itself is external; this package only defines the
// payload contract and the transport.
package notify

import (
	"context"
	"time"

	"github.com/chicken-dinner-club/pubg-tracker/internal/pubgapi"
)

// MatchSummary is the renderer-facing digest of one match.
type MatchSummary struct {
	MatchID      string    `json:"match_id"`
	MapName      string    `json:"map_name"`
	GameMode     string    `json:"game_mode"`
	CreatedAt    time.Time `json:"created_at"`
	Duration     int       `json:"duration"`
	CustomMatch  bool      `json:"custom_match"`
	ShardID      string    `json:"shard_id"`
	TelemetryURL string    `json:"telemetry_url,omitempty"`
}

// SummaryFromMatch builds the renderer digest from an assembled match.
func SummaryFromMatch(m *pubgapi.MatchRecord) MatchSummary {
	return MatchSummary{
		MatchID:      m.MatchID,
		MapName:      m.MapName,
		GameMode:     m.GameMode,
		CreatedAt:    m.CreatedAt,
		Duration:     m.Duration,
		CustomMatch:  m.CustomMatch,
		ShardID:      m.ShardID,
		TelemetryURL: m.TelemetryURL,
	}
}

// MatchNotification is the full payload delivered per processed match.
type MatchNotification struct {
	Summary MatchSummary                `json:"summary"`
	Squad   []pubgapi.ParticipantRecord `json:"squad"`
	Events  []pubgapi.TelemetryEvent    `json:"events"`
}

// Notifier delivers one notification per processed match. A non-nil error
// means the match must not be marked processed.
type Notifier interface {
	Deliver(ctx context.Context, summary MatchSummary, squad []pubgapi.ParticipantRecord, events []pubgapi.TelemetryEvent) error
}
