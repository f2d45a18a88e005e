package storage

import "context"

// PlayerStore manages the tracked-player roster.
type PlayerStore interface {
	UpsertPlayer(ctx context.Context, player *TrackedPlayer) error
	RemovePlayer(ctx context.Context, name string) (bool, error)
	GetPlayer(ctx context.Context, name string) (*TrackedPlayer, error)
	ListPlayers(ctx context.Context) ([]TrackedPlayer, error)
}

// MatchLedger is the durable record preventing re-notification of a match.
type MatchLedger interface {
	IsProcessed(ctx context.Context, matchID string) (bool, error)
	// MarkProcessed inserts the processed record if absent and reports
	// whether this call created it.
	MarkProcessed(ctx context.Context, matchID string) (bool, error)
	ListProcessed(ctx context.Context, limit int) ([]ProcessedMatch, error)
}
