package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
	"github.com/xraph/storefront/ledger/file"
)

func TestMissingFileLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	s := file.New(filepath.Join(t.TempDir(), "ledger.json"))

	recs, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(recs))
	}
}

func TestRecordSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")

	s := file.New(path)
	if err := s.RecordProcessed(ctx, ledger.NewRecord(42, "coins50", "coins", 50)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := file.New(path)
	recs, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(recs))
	}
	if recs[0].TxnID != 42 || recs[0].ProductID != "coins50" || recs[0].Quantity != 50 {
		t.Errorf("record round-trip: got %+v", recs[0])
	}
}

func TestDuplicateAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")

	s := file.New(path)
	if err := s.RecordProcessed(ctx, ledger.NewRecord(42, "coins50", "coins", 50)); err != nil {
		t.Fatalf("record: %v", err)
	}

	reopened := file.New(path)
	err := reopened.RecordProcessed(ctx, ledger.NewRecord(42, "coins50", "coins", 50))
	if !errors.Is(err, storefront.ErrAlreadyRecorded) {
		t.Fatalf("expected ErrAlreadyRecorded, got %v", err)
	}
}

func TestTransactionIDStringEncodedOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")

	// The top of the unsigned 64-bit range turns to a float when a JSON
	// reader sees it as a number.
	maxTxn := ^uint64(0)

	s := file.New(path)
	if err := s.RecordProcessed(ctx, ledger.NewRecord(maxTxn, "coins50", "coins", 50)); err != nil {
		t.Fatalf("record: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger file: %v", err)
	}
	if !strings.Contains(string(data), `"18446744073709551615"`) {
		t.Errorf("transaction id not string-encoded on disk:\n%s", data)
	}

	reopened := file.New(path)
	recs, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(recs) != 1 || recs[0].TxnID != maxTxn {
		t.Fatalf("round-trip of max transaction id: got %+v", recs)
	}
}

func TestMigrateCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.json")

	s := file.New(path)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping after migrate: %v", err)
	}
	if err := s.RecordProcessed(ctx, ledger.NewRecord(1, "p", "k", 1)); err != nil {
		t.Fatalf("record into created directory: %v", err)
	}
}
