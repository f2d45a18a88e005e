package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LedgerRepo is the bun-backed processed-match ledger.
type LedgerRepo struct {
	db *bun.DB
}

// IsProcessed reports whether a match already has a processed record. This is
// a point-in-time existence check, not a reservation.
func (r *LedgerRepo) IsProcessed(ctx context.Context, matchID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*ProcessedMatch)(nil)).
		Where("match_id = ?", matchID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check processed state for %q: %w", matchID, err)
	}
	return exists, nil
}

// MarkProcessed records a match as processed. Safe to call more than once;
// the unique constraint keeps exactly one record per match id, and the return
// value reports whether this call inserted it.
func (r *LedgerRepo) MarkProcessed(ctx context.Context, matchID string) (bool, error) {
	record := &ProcessedMatch{
		ID:          uuid.NewString(),
		MatchID:     matchID,
		ProcessedAt: time.Now().UTC(),
	}
	result, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (match_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to mark match %q processed: %w", matchID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListProcessed returns the most recently processed matches, newest first.
func (r *LedgerRepo) ListProcessed(ctx context.Context, limit int) ([]ProcessedMatch, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []ProcessedMatch
	err := r.db.NewSelect().
		Model(&records).
		Order("processed_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed matches: %w", err)
	}
	return records, nil
}

// DeleteProcessed removes one match's processed record, reporting whether it
// existed. Operator tooling only; the monitoring loop never deletes records.
func (r *LedgerRepo) DeleteProcessed(ctx context.Context, matchID string) (bool, error) {
	result, err := r.db.NewDelete().
		Model((*ProcessedMatch)(nil)).
		Where("match_id = ?", matchID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete processed record for %q: %w", matchID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ClearProcessed removes every processed record and returns how many were
// deleted. Operator tooling only.
func (r *LedgerRepo) ClearProcessed(ctx context.Context) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*ProcessedMatch)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear processed matches: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
