// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package media implements the media pipeline: upload ingestion with
// unique-ID assignment, lookups, listing/statistics queries, play counting,
// and deletion. All state lives in the record store; this package owns the
// uploaded files on disk.
package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chrismccoy/echochamber/internal/logging"
	"github.com/chrismccoy/echochamber/internal/metrics"
	"github.com/chrismccoy/echochamber/internal/models"
	"github.com/chrismccoy/echochamber/internal/store"
)

var (
	// ErrNoFile indicates an upload request without a file payload.
	ErrNoFile = errors.New("no file was uploaded")

	// ErrIDCollision indicates ID minting exhausted its retries.
	// At 8 hex characters this should never happen at realistic scale.
	ErrIDCollision = errors.New("could not mint a unique media ID")

	// errNoChange aborts a store update without writing.
	errNoChange = errors.New("no change")
)

// idBytes yields 8 hex characters per minted ID.
const idBytes = 4

// idAttempts bounds the collision retry loop.
const idAttempts = 5

// Upload describes an incoming file handed over by the HTTP layer, which
// has already enforced the MIME allow-list and size ceiling.
type Upload struct {
	// TempPath is where the multipart handler parked the payload.
	TempPath string

	// OriginalFilename is the user-supplied name. Untrusted.
	OriginalFilename string

	// MimeType as reported by the upload, e.g. "video/mp4".
	MimeType string

	// Size in bytes.
	Size int64
}

// IngestResult reports a successful upload. The MIME type is included so
// the caller can route to the video or audio player page.
type IngestResult struct {
	ID       string
	MimeType string
}

// Service coordinates the record store and the upload directory.
type Service struct {
	store     store.Store
	uploadDir string
	siteURL   string

	// now is stubbed in tests to pin the histogram window.
	now func() time.Time
}

// NewService creates the media service.
func NewService(st store.Store, uploadDir, siteURL string) *Service {
	return &Service{
		store:     st,
		uploadDir: uploadDir,
		siteURL:   siteURL,
		now:       time.Now,
	}
}

// Ingest processes an upload: mints a unique ID, moves the temp file into
// the upload directory as <id><lowercased extension>, and appends a record.
// The record is never written if the file move failed.
func (s *Service) Ingest(ctx context.Context, up *Upload) (*IngestResult, error) {
	if up == nil || up.TempPath == "" {
		return nil, ErrNoFile
	}

	id, err := s.mintID(ctx)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(kindOf(up.MimeType), "error").Inc()
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(up.OriginalFilename))
	filename := id + ext
	dest := filepath.Join(s.uploadDir, filename)

	if err := os.Rename(up.TempPath, dest); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("temp", up.TempPath).Str("dest", dest).Msg("moving upload failed")
		// Best-effort cleanup of the orphaned temp file.
		if rmErr := os.Remove(up.TempPath); rmErr != nil {
			logging.Ctx(ctx).Warn().Err(rmErr).Str("temp", up.TempPath).Msg("temp file cleanup failed")
		}
		metrics.UploadsTotal.WithLabelValues(kindOf(up.MimeType), "error").Inc()
		return nil, fmt.Errorf("moving uploaded file: %w", err)
	}

	record := models.MediaRecord{
		ID:               id,
		Filename:         filename,
		OriginalFilename: up.OriginalFilename,
		MimeType:         up.MimeType,
		UploadTime:       s.now().Unix(),
		Plays:            0,
	}

	var total int
	err = s.store.Update(ctx, func(records []models.MediaRecord) ([]models.MediaRecord, error) {
		records = append(records, record)
		total = len(records)
		return records, nil
	})
	if err != nil {
		// The record was never written; drop the already-moved file so no
		// orphan lingers in the upload directory.
		if rmErr := os.Remove(dest); rmErr != nil {
			logging.Ctx(ctx).Warn().Err(rmErr).Str("dest", dest).Msg("orphan cleanup failed")
		}
		metrics.UploadsTotal.WithLabelValues(kindOf(up.MimeType), "error").Inc()
		return nil, fmt.Errorf("storing media record: %w", err)
	}

	metrics.UploadsTotal.WithLabelValues(kindOf(up.MimeType), "success").Inc()
	metrics.MediaStored.Set(float64(total))
	logging.Ctx(ctx).Info().
		Str("id", id).
		Str("mimetype", up.MimeType).
		Int64("size", up.Size).
		Msg("media stored")

	return &IngestResult{ID: id, MimeType: up.MimeType}, nil
}

// GetByID returns the record for id. A record whose backing file is missing
// from disk is treated as not found; the dangling record itself is left in
// the store untouched.
func (s *Service) GetByID(ctx context.Context, id string) (*models.MediaRecord, bool) {
	for _, m := range s.store.Read(ctx) {
		if m.ID != id {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.uploadDir, m.Filename)); err != nil {
			logging.Ctx(ctx).Warn().Str("id", id).Str("filename", m.Filename).Msg("record has no backing file")
			return nil, false
		}
		rec := m
		return &rec, true
	}
	return nil, false
}

// IncrementPlayCount adds one play to the record and returns the new count,
// or 0 when no record matches. The unknown-id case writes nothing.
func (s *Service) IncrementPlayCount(ctx context.Context, id string) int64 {
	var count int64
	err := s.store.Update(ctx, func(records []models.MediaRecord) ([]models.MediaRecord, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].Plays++
				count = records[i].Plays
				return records, nil
			}
		}
		return nil, errNoChange
	})
	if err != nil {
		if !errors.Is(err, errNoChange) {
			logging.Ctx(ctx).Error().Err(err).Str("id", id).Msg("incrementing play count failed")
		}
		return 0
	}
	metrics.PlaysTotal.Inc()
	return count
}

// Delete removes the record's file from disk and the record from the store.
// A failed file removal is logged and suppressed so a missing file can
// never block record deletion. Returns false only when no record matched.
func (s *Service) Delete(ctx context.Context, id string) bool {
	var total int
	err := s.store.Update(ctx, func(records []models.MediaRecord) ([]models.MediaRecord, error) {
		idx := -1
		for i := range records {
			if records[i].ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, errNoChange
		}

		path := filepath.Join(s.uploadDir, records[idx].Filename)
		if err := os.Remove(path); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("file delete failed, removing record anyway")
		}

		records = append(records[:idx], records[idx+1:]...)
		total = len(records)
		return records, nil
	})
	if err != nil {
		if errors.Is(err, errNoChange) {
			metrics.DeletesTotal.WithLabelValues("not_found").Inc()
		} else {
			logging.Ctx(ctx).Error().Err(err).Str("id", id).Msg("deleting media failed")
			metrics.DeletesTotal.WithLabelValues("error").Inc()
		}
		return false
	}

	metrics.DeletesTotal.WithLabelValues("success").Inc()
	metrics.MediaStored.Set(float64(total))
	logging.Ctx(ctx).Info().Str("id", id).Msg("media deleted")
	return true
}

// mintID generates a short random hex token that is not already present in
// the store, retrying a bounded number of times.
func (s *Service) mintID(ctx context.Context) (string, error) {
	existing := make(map[string]struct{})
	for _, m := range s.store.Read(ctx) {
		existing[m.ID] = struct{}{}
	}

	for i := 0; i < idAttempts; i++ {
		buf := make([]byte, idBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generating media ID: %w", err)
		}
		id := hex.EncodeToString(buf)
		if _, taken := existing[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDCollision
}

// kindOf maps a MIME type to the metric label for its media kind.
func kindOf(mimetype string) string {
	if strings.HasPrefix(mimetype, "video") {
		return "video"
	}
	return "audio"
}
