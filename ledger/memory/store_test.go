package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
	"github.com/xraph/storefront/ledger/memory"
)

func TestRecordAndLoad(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.RecordProcessed(ctx, ledger.NewRecord(42, "coins50", "coins", 50)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordProcessed(ctx, ledger.NewRecord(43, "coins100", "coins", 100)); err != nil {
		t.Fatalf("record: %v", err)
	}

	recs, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].TxnID != 42 || recs[1].TxnID != 43 {
		t.Errorf("load order: got %d, %d", recs[0].TxnID, recs[1].TxnID)
	}
}

func TestDuplicateRecord(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.RecordProcessed(ctx, ledger.NewRecord(42, "coins50", "coins", 50)); err != nil {
		t.Fatalf("record: %v", err)
	}

	err := s.RecordProcessed(ctx, ledger.NewRecord(42, "coins50", "coins", 50))
	if !errors.Is(err, storefront.ErrAlreadyRecorded) {
		t.Fatalf("expected ErrAlreadyRecorded, got %v", err)
	}

	recs, _ := s.Load(ctx)
	if len(recs) != 1 {
		t.Errorf("duplicate must not add a record, got %d", len(recs))
	}
}

func TestLoadCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.RecordProcessed(ctx, ledger.NewRecord(7, "item7", "hints", 7)); err != nil {
		t.Fatalf("record: %v", err)
	}

	recs, _ := s.Load(ctx)
	recs[0].Quantity = 999

	again, _ := s.Load(ctx)
	if again[0].Quantity != 7 {
		t.Error("Load must return copies, not internal records")
	}
}
