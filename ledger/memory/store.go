// Package memory provides an in-memory ledger store for tests and
// sessions that do not need dedup to survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
)

// compile-time interface check
var _ ledger.Store = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	records map[uint64]*ledger.Record
	order   []uint64
}

func New() *Store {
	return &Store{
		records: make(map[uint64]*ledger.Record),
	}
}

func (s *Store) Load(_ context.Context) ([]*ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*ledger.Record, 0, len(s.order))
	for _, txnID := range s.order {
		rec := *s.records[txnID]
		out = append(out, &rec)
	}
	return out, nil
}

func (s *Store) RecordProcessed(_ context.Context, rec *ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.TxnID]; exists {
		return storefront.ErrAlreadyRecorded
	}
	cp := *rec
	s.records[rec.TxnID] = &cp
	s.order = append(s.order, rec.TxnID)
	return nil
}

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }
