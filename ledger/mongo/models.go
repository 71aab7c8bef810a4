package mongo

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/ledger"
)

// recordModel maps ledger records onto the processed-transactions
// collection. Transaction ids are stored as strings because BSON integers
// are signed 64-bit.
type recordModel struct {
	grove.BaseModel `grove:"table:storefront_processed_transactions"`

	ID         string    `grove:"id,pk"       bson:"_id"`
	TxnID      string    `grove:"txn_id"      bson:"txn_id"`
	ProductID  string    `grove:"product_id"  bson:"product_id"`
	GrantKind  string    `grove:"grant_kind"  bson:"grant_kind"`
	Quantity   int64     `grove:"quantity"    bson:"quantity"`
	RecordedAt time.Time `grove:"recorded_at" bson:"recorded_at"`
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
		return nil, fmt.Errorf("storefront/mongo: parse record id %q: %w", m.ID, err)
	}
	txnID, err := strconv.ParseUint(m.TxnID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("storefront/mongo: parse txn id %q: %w", m.TxnID, err)
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
