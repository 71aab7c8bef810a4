// Package file provides a single-file JSON ledger store. It suits client
// deployments without a database: one small document per user, rewritten
// atomically on every record.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/ledger"
)

// compile-time interface check
var _ ledger.Store = (*Store)(nil)

// document is the on-disk shape. Transaction ids are string-encoded so the
// file survives JSON tooling that mangles large integers.
type document struct {
	Records []*ledger.Record `json:"records"`
}

type Store struct {
	mu   sync.Mutex
	path string

	records map[uint64]*ledger.Record
	order   []uint64
	loaded  bool
}

// New creates a file store at the given path. The file is created on first
// record; a missing file loads as an empty ledger.
func New(path string) *Store {
	return &Store{
		path:    path,
		records: make(map[uint64]*ledger.Record),
	}
}

func (s *Store) Load(_ context.Context) ([]*ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

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

	if err := s.loadLocked(); err != nil {
		return err
	}

	if _, exists := s.records[rec.TxnID]; exists {
		return storefront.ErrAlreadyRecorded
	}

	cp := *rec
	s.records[rec.TxnID] = &cp
	s.order = append(s.order, rec.TxnID)

	if err := s.flushLocked(); err != nil {
		delete(s.records, rec.TxnID)
		s.order = s.order[:len(s.order)-1]
		return err
	}
	return nil
}

func (s *Store) Migrate(_ context.Context) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storefront/file: create ledger directory: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *Store) Close() error { return nil }

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("storefront/file: read ledger: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("storefront/file: decode ledger: %w", err)
	}

	for _, rec := range doc.Records {
		if _, exists := s.records[rec.TxnID]; exists {
			continue
		}
		s.records[rec.TxnID] = rec
		s.order = append(s.order, rec.TxnID)
	}
	s.loaded = true
	return nil
}

// flushLocked rewrites the document through a temp file and rename so a
// crash mid-write never truncates the ledger.
func (s *Store) flushLocked() error {
	doc := document{Records: make([]*ledger.Record, 0, len(s.order))}
	for _, txnID := range s.order {
		doc.Records = append(doc.Records, s.records[txnID])
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storefront/file: encode ledger: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("storefront/file: write ledger: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("storefront/file: write ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("storefront/file: sync ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storefront/file: close ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storefront/file: replace ledger: %w", err)
	}
	return nil
}
