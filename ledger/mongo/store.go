// Package mongo provides a ledger store backed by MongoDB via Grove ORM.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
)

// colProcessed is the processed-transactions collection.
const colProcessed = "storefront_processed_transactions"

// compile-time interface check
var _ ledger.Store = (*Store)(nil)

// Store implements ledger.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the ledger collection. The unique txn_id
// index is what makes RecordProcessed idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "txn_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "product_id", Value: 1}}},
		{Keys: bson.D{{Key: "recorded_at", Value: 1}}},
	}
	_, err := s.mdb.Collection(colProcessed).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("storefront/mongo: migrate %s indexes: %w", colProcessed, err)
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
	err := s.mdb.NewFind(&models).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "recorded_at", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: load ledger: %w", err)
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storefront.ErrAlreadyRecorded
		}
		return fmt.Errorf("storefront/mongo: record transaction: %w", err)
	}
	return nil
}
