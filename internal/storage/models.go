package storage

import (
	"time"

	"github.com/uptrace/bun"
)

// TrackedPlayer is a player registered for match monitoring. Created by an
// explicit add request, deleted only by an explicit remove.
type TrackedPlayer struct {
	bun.BaseModel `bun:"table:tracked_players,alias:tp"`

	ID           int64     `bun:"id,pk,autoincrement"`
	AccountID    string    `bun:"account_id,notnull,unique"`
	Name         string    `bun:"name,notnull,unique"`
	ShardID      string    `bun:"shard_id,notnull,default:'steam'"`
	PatchVersion string    `bun:"patch_version"`
	TitleID      string    `bun:"title_id"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ProcessedMatch records that a match summary was delivered. At most one row
// per match id; the unique constraint is the idempotency guarantee.
type ProcessedMatch struct {
	bun.BaseModel `bun:"table:processed_matches,alias:pm"`

	ID          string    `bun:"id,pk"`
	MatchID     string    `bun:"match_id,notnull,unique"`
	ProcessedAt time.Time `bun:"processed_at,nullzero,notnull,default:current_timestamp"`
}
