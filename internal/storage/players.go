package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var ErrPlayerNotFound = errors.New("tracked player not found")

// PlayerRepo is the bun-backed tracked-player roster.
type PlayerRepo struct {
	db *bun.DB
}

// UpsertPlayer inserts the player or, when the name is already tracked,
// refreshes its upstream metadata.
func (r *PlayerRepo) UpsertPlayer(ctx context.Context, player *TrackedPlayer) error {
	player.UpdatedAt = time.Now().UTC()
	if player.CreatedAt.IsZero() {
		player.CreatedAt = player.UpdatedAt
	}

	_, err := r.db.NewInsert().
		Model(player).
		On("CONFLICT (name) DO UPDATE").
		Set("account_id = EXCLUDED.account_id").
		Set("shard_id = EXCLUDED.shard_id").
		Set("patch_version = EXCLUDED.patch_version").
		Set("title_id = EXCLUDED.title_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert player %q: %w", player.Name, err)
	}
	return nil
}

// RemovePlayer deletes a player from the roster and reports whether a row
// existed.
func (r *PlayerRepo) RemovePlayer(ctx context.Context, name string) (bool, error) {
	result, err := r.db.NewDelete().
		Model((*TrackedPlayer)(nil)).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to remove player %q: %w", name, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// GetPlayer retrieves a tracked player by name.
func (r *PlayerRepo) GetPlayer(ctx context.Context, name string) (*TrackedPlayer, error) {
	player := &TrackedPlayer{}
	err := r.db.NewSelect().Model(player).Where("name = ?", name).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

// ListPlayers returns every tracked player, ordered by name.
func (r *PlayerRepo) ListPlayers(ctx context.Context) ([]TrackedPlayer, error) {
	var players []TrackedPlayer
	err := r.db.NewSelect().Model(&players).Order("name ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}
