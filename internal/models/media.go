// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package models defines the persisted and API-facing data types for
// EchoChamber: the media record stored in the JSON database, the derived
// view projected to clients, and the standardized API response envelope.
package models

import (
	"fmt"
	"strings"
)

// MediaRecord is one metadata entry describing an uploaded media file.
//
// The JSON field names are a persistence contract: the database document is
// an array of these objects and must round-trip across releases.
type MediaRecord struct {
	// ID is the short unique token assigned at upload time.
	ID string `json:"id"`

	// Filename is the stored filename inside the upload directory,
	// derived deterministically as <id><lowercased original extension>.
	Filename string `json:"filename"`

	// OriginalFilename is the user-supplied name. Untrusted; display only.
	OriginalFilename string `json:"original_filename"`

	// MimeType is the MIME type reported at upload, e.g. "video/mp4".
	MimeType string `json:"mimetype"`

	// UploadTime is seconds since the Unix epoch.
	UploadTime int64 `json:"upload_time"`

	// Plays is the playback counter. Never decreases.
	Plays int64 `json:"plays"`
}

// IsVideo reports whether the record holds video content.
// Everything that is not video is treated as audio.
func (m *MediaRecord) IsVideo() bool {
	return strings.HasPrefix(m.MimeType, "video")
}

// Validate checks that the record carries the fields the store requires.
func (m *MediaRecord) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("media record ID cannot be empty")
	}
	if m.Filename == "" {
		return fmt.Errorf("media record filename cannot be empty")
	}
	if m.MimeType == "" {
		return fmt.Errorf("media record mimetype cannot be empty")
	}
	if m.Plays < 0 {
		return fmt.Errorf("media record play count cannot be negative")
	}
	return nil
}

// MediaView is the external projection of a MediaRecord: the record fields
// plus the derived playback URL and media-kind flag. All listings and stats
// expose records through this single projection so the video/audio detection
// logic lives in exactly one place.
type MediaView struct {
	MediaRecord

	// URL is the public playback link: <site-url>/v/<id> for video,
	// <site-url>/a/<id> for audio.
	URL string `json:"url"`

	// Video mirrors IsVideo() for template and JSON consumers.
	Video bool `json:"is_video"`
}

// Project builds the MediaView for a record against the given site URL.
func Project(m MediaRecord, siteURL string) MediaView {
	prefix := "a"
	if m.IsVideo() {
		prefix = "v"
	}
	return MediaView{
		MediaRecord: m,
		URL:         fmt.Sprintf("%s/%s/%s", strings.TrimRight(siteURL, "/"), prefix, m.ID),
		Video:       m.IsVideo(),
	}
}

// ProjectAll applies Project to every record, preserving order.
func ProjectAll(records []MediaRecord, siteURL string) []MediaView {
	views := make([]MediaView, 0, len(records))
	for _, m := range records {
		views = append(views, Project(m, siteURL))
	}
	return views
}
