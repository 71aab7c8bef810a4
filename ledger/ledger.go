// Package ledger defines durable storage for the processed-transaction
// ledger: the set of consumable transaction identifiers whose grants have
// already been applied to the app economy.
//
// The ledger is the at-most-once half of consumable delivery. The platform
// redelivers transactions until they are finished, so grants can be
// attempted more than once; a transaction recorded here is never granted
// again.
package ledger

import (
	"context"
	"time"

	"github.com/xraph/storefront/id"
)

// Record is one processed consumable transaction. TxnID is string-encoded
// in JSON: the full unsigned 64-bit range does not survive tooling that
// reads large numbers as floats.
type Record struct {
	ID        id.RecordID `json:"id"`
	TxnID     uint64      `json:"txn_id,string"`
	ProductID string      `json:"product_id"`

	// GrantKind and Quantity capture what was applied, for audit.
	GrantKind string `json:"grant_kind"`
	Quantity  int64  `json:"quantity"`

	RecordedAt time.Time `json:"recorded_at"`
}

// NewRecord builds a Record with a fresh identifier and timestamp.
func NewRecord(txnID uint64, productID, grantKind string, quantity int64) *Record {
	return &Record{
		ID:         id.NewRecordID(),
		TxnID:      txnID,
		ProductID:  productID,
		GrantKind:  grantKind,
		Quantity:   quantity,
		RecordedAt: time.Now().UTC(),
	}
}

// Store persists processed-transaction records.
//
// RecordProcessed must be idempotent on TxnID: recording an already-present
// transaction returns storefront.ErrAlreadyRecorded, which callers may
// treat as success. Writes must be durable before RecordProcessed returns;
// the engine only finishes a transaction after the record lands.
type Store interface {
	// Load returns every recorded transaction.
	Load(ctx context.Context) ([]*Record, error)

	// RecordProcessed durably appends a record, keyed by TxnID.
	RecordProcessed(ctx context.Context, rec *Record) error

	// Migrate prepares backing tables or indexes.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
