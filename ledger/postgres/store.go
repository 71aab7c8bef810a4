// Package postgres provides a ledger store backed by PostgreSQL via Grove
// ORM. It suits server-side deployments that reconcile entitlements for
// many users against one database.
package postgres

import (
	"context"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
)

// compile-time interface check
var _ ledger.Store = (*Store)(nil)

// Store implements ledger.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("storefront/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("storefront/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) ([]*ledger.Record, error) {
	var models []recordModel
	err := s.pg.NewSelect(&models).
		OrderExpr("recorded_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront/postgres: load ledger: %w", err)
	}

	result := make([]*ledger.Record, len(models))
	for i := range models {
		rec, err := fromRecordModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = rec
	}
	return result, nil
}

func (s *Store) RecordProcessed(ctx context.Context, rec *ledger.Record) error {
	m := toRecordModel(rec)
	res, err := s.pg.NewInsert(m).
		OnConflict("(txn_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storefront/postgres: record transaction: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storefront.ErrAlreadyRecorded
	}
	return nil
}
