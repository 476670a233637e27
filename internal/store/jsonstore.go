// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/chrismccoy/echochamber/internal/logging"
	"github.com/chrismccoy/echochamber/internal/metrics"
	"github.com/chrismccoy/echochamber/internal/models"
)

// jsonIndent keeps the document human-readable. Cosmetic only; the decoder
// accepts any formatting.
const jsonIndent = "    "

// JSONStore persists the record list as one JSON document on disk.
//
// Writes go to a temporary file in the same directory followed by a rename,
// so a reader never observes a partially written document. A mutex
// serializes Update cycles; the unlocked read-modify-write of the original
// design was a documented lost-update hazard.
type JSONStore struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// NewJSONStore creates a flat-file store for dataDir/databaseFile.
func NewJSONStore(dataDir, databaseFile string) *JSONStore {
	return &JSONStore{path: filepath.Join(dataDir, databaseFile)}
}

// Initialize creates the data directory and an empty document if absent.
func (s *JSONStore) Initialize(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		logging.Info().Str("path", s.path).Msg("creating default database file")
		return s.writeDocument([]models.MediaRecord{})
	}
	return nil
}

// Read loads and decodes the document. A missing file, unreadable file, or
// malformed JSON yields an empty list and a logged warning; callers never
// see an error from a read.
func (s *JSONStore) Read(_ context.Context) []models.MediaRecord {
	start := time.Now()
	defer func() {
		metrics.StoreOpDuration.WithLabelValues("read", "json").Observe(time.Since(start).Seconds())
	}()

	data, err := os.ReadFile(s.path)
	if err != nil {
		logging.Warn().Err(err).Str("path", s.path).Msg("could not read database, returning empty list")
		return []models.MediaRecord{}
	}

	var records []models.MediaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logging.Warn().Err(err).Str("path", s.path).Msg("malformed database document, returning empty list")
		return []models.MediaRecord{}
	}
	if records == nil {
		records = []models.MediaRecord{}
	}
	return records
}

// Write replaces the document with the given record list.
func (s *JSONStore) Write(_ context.Context, records []models.MediaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.writeDocument(records)
}

// Update runs fn on the current record list and persists the result under
// the store lock, closing the lost-update window between read and write.
func (s *JSONStore) Update(ctx context.Context, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	records := s.Read(ctx)
	next, err := fn(records)
	if err != nil {
		return err
	}
	return s.writeDocument(next)
}

// Close marks the store closed. Further writes fail with ErrStoreClosed.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// writeDocument serializes records and atomically replaces the document via
// a same-directory temp file and rename.
func (s *JSONStore) writeDocument(records []models.MediaRecord) error {
	start := time.Now()
	defer func() {
		metrics.StoreOpDuration.WithLabelValues("write", "json").Observe(time.Since(start).Seconds())
	}()

	if records == nil {
		records = []models.MediaRecord{}
	}

	data, err := json.MarshalIndent(records, "", jsonIndent)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".database-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
