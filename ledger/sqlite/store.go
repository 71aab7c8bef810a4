// Package sqlite provides a ledger store backed by SQLite via Grove ORM.
package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/ledger"
)

// compile-time interface check
var _ ledger.Store = (*Store)(nil)

// recordModel maps ledger records onto the processed-transactions table.
// Transaction ids are stored as text: they are unsigned 64-bit values and
// SQLite integers are signed.
type recordModel struct {
	grove.BaseModel `grove:"table:storefront_processed_transactions"`

	ID         string    `grove:"id,pk"`
	TxnID      string    `grove:"txn_id"`
	ProductID  string    `grove:"product_id"`
	GrantKind  string    `grove:"grant_kind"`
	Quantity   int64     `grove:"quantity"`
	RecordedAt time.Time `grove:"recorded_at"`
}

func toRecordModel(rec *ledger.Record) *recordModel {
	return &recordModel{
		ID:         rec.ID.String(),
		TxnID:      strconv.FormatUint(rec.TxnID, 10),
		ProductID:  rec.ProductID,
		GrantKind:  rec.GrantKind,
		Quantity:   rec.Quantity,
		RecordedAt: rec.RecordedAt,
	}
}

func fromRecordModel(m *recordModel) (*ledger.Record, error) {
	recID, err := id.ParseRecordID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("storefront/sqlite: parse record id %q: %w", m.ID, err)
	}
	txnID, err := strconv.ParseUint(m.TxnID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("storefront/sqlite: parse txn id %q: %w", m.TxnID, err)
	}
	return &ledger.Record{
		ID:         recID,
		TxnID:      txnID,
		ProductID:  m.ProductID,
		GrantKind:  m.GrantKind,
		Quantity:   m.Quantity,
		RecordedAt: m.RecordedAt,
	}, nil
}

// Store implements ledger.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("storefront/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("storefront/sqlite: migration failed: %w", err)
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
	err := s.sdb.NewSelect(&models).
		OrderExpr("recorded_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront/sqlite: load ledger: %w", err)
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
	res, err := s.sdb.NewInsert(m).
		OnConflict("(txn_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storefront/sqlite: record transaction: %w", err)
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
