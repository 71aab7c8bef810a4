package postgres

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/ledger"
)

// recordModel maps ledger records onto the processed-transactions table.
// Transaction ids are stored as text: they are unsigned 64-bit values and
// BIGINT is signed.
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
		return nil, fmt.Errorf("storefront/postgres: parse record id %q: %w", m.ID, err)
	}
	txnID, err := strconv.ParseUint(m.TxnID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("storefront/postgres: parse txn id %q: %w", m.TxnID, err)
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
