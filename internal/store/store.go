// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package store persists the ordered media record list.
//
// The record store is the single source of truth: every operation reads or
// rewrites the full record sequence, there is no cache. Two backends
// implement the same contract: a flat-file JSON document (the default) and
// an embedded Badger key-value store for installations that want crash-safe
// writes without changing any caller.
package store

import (
	"context"
	"errors"

	"github.com/chrismccoy/echochamber/internal/models"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("store is closed")

// UpdateFunc transforms the current record list into the next one. It runs
// inside the store's critical section; returning an error aborts the update
// without writing.
type UpdateFunc func(records []models.MediaRecord) ([]models.MediaRecord, error)

// Store is the record store contract.
//
// Read fails soft: a missing, unreadable, or corrupt document yields an
// empty list and a logged diagnostic, never an error. Mutations go through
// Update, which serializes the read-modify-write cycle so concurrent
// mutations cannot silently overwrite each other.
type Store interface {
	// Initialize prepares the backend (directories, default document).
	Initialize(ctx context.Context) error

	// Read loads and decodes the full record list.
	Read(ctx context.Context) []models.MediaRecord

	// Write replaces the full record list. The replacement is atomic from
	// the caller's perspective: subsequent reads never observe a partial
	// document.
	Write(ctx context.Context, records []models.MediaRecord) error

	// Update runs fn on the current record list and persists the result,
	// all under the store's mutation lock.
	Update(ctx context.Context, fn UpdateFunc) error

	// Close releases backend resources.
	Close() error
}

// New constructs the backend selected by name. dataDir holds the JSON
// document (named databaseFile) or the Badger directory.
func New(backend, dataDir, databaseFile string) (Store, error) {
	switch backend {
	case "json":
		return NewJSONStore(dataDir, databaseFile), nil
	case "badger":
		return NewBadgerStore(dataDir), nil
	default:
		return nil, errors.New("unknown storage backend: " + backend)
	}
}
