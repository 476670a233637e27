// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/chrismccoy/echochamber/internal/logging"
	"github.com/chrismccoy/echochamber/internal/metrics"
	"github.com/chrismccoy/echochamber/internal/models"
)

// recordsKey holds the full record document. The store contract is
// whole-document read/write, so the Badger backend keeps that shape and
// gains transactional replacement instead of file renames.
var recordsKey = []byte("media:records")

// BadgerStore persists the record list in an embedded Badger database.
// Drop-in alternative to JSONStore for installations that want crash-safe
// writes; selected with STORAGE_BACKEND=badger.
type BadgerStore struct {
	dir string
	mu  sync.Mutex
	db  *badger.DB
}

// NewBadgerStore creates a Badger-backed store rooted at dataDir/badger.
func NewBadgerStore(dataDir string) *BadgerStore {
	return &BadgerStore{dir: filepath.Join(dataDir, "badger")}
}

// Initialize opens the database, creating it if absent.
func (s *BadgerStore) Initialize(_ context.Context) error {
	opts := badger.DefaultOptions(s.dir)
	opts.SyncWrites = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger store: %w", err)
	}
	s.db = db
	return nil
}

// Read loads the record document. Like the flat-file backend it fails soft:
// a missing key or undecodable value yields an empty list.
func (s *BadgerStore) Read(_ context.Context) []models.MediaRecord {
	start := time.Now()
	defer func() {
		metrics.StoreOpDuration.WithLabelValues("read", "badger").Observe(time.Since(start).Seconds())
	}()

	if s.db == nil {
		return []models.MediaRecord{}
	}

	var records []models.MediaRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordsKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &records)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("dir", s.dir).Msg("could not read record document, returning empty list")
		}
		return []models.MediaRecord{}
	}
	if records == nil {
		records = []models.MediaRecord{}
	}
	return records
}

// Write replaces the record document in one transaction.
func (s *BadgerStore) Write(_ context.Context, records []models.MediaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeDocument(records)
}

// Update runs fn on the current record list and persists the result under
// the store lock.
func (s *BadgerStore) Update(ctx context.Context, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrStoreClosed
	}

	records := s.Read(ctx)
	next, err := fn(records)
	if err != nil {
		return err
	}
	return s.writeDocument(next)
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BadgerStore) writeDocument(records []models.MediaRecord) error {
	start := time.Now()
	defer func() {
		metrics.StoreOpDuration.WithLabelValues("write", "badger").Observe(time.Since(start).Seconds())
	}()

	if s.db == nil {
		return ErrStoreClosed
	}
	if records == nil {
		records = []models.MediaRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordsKey, data)
	})
}
