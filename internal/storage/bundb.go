// Package storage implements the tracked-player roster and the
// processed-match ledger on Postgres via bun.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService bundles the repositories over one bun connection.
type DBService struct {
	Players *PlayerRepo
	Ledger  *LedgerRepo
	db      *bun.DB
}

// NewDBService connects to Postgres and prepares the repositories.
func NewDBService(ctx context.Context, dsn string) (*DBService, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	svc := newDBService(db)
	if err := svc.createTables(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func newDBService(db *bun.DB) *DBService {
	return &DBService{
		Players: &PlayerRepo{db: db},
		Ledger:  &LedgerRepo{db: db},
		db:      db,
	}
}

// GetDB returns the underlying database handle.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the database connection.
func (s *DBService) Close() error {
	return s.db.Close()
}

func (s *DBService) createTables(ctx context.Context) error {
	models := []interface{}{
		(*TrackedPlayer)(nil),
		(*ProcessedMatch)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}
