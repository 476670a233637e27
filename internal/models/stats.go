// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package models

// MediaPage is one page of the media listing.
type MediaPage struct {
	// Items holds the records for this page with derived playback URLs.
	Items []MediaView `json:"media_tracks"`

	// TotalPages is ceil(totalRecords / perPage).
	TotalPages int `json:"total_pages"`

	// CurrentPage is the 1-based page number that was requested.
	CurrentPage int `json:"current_page"`

	// SortOrder echoes the sort key used to build the page.
	SortOrder string `json:"sort_order"`
}

// UploadHistogram is the fixed 30-day trailing upload histogram.
// Labels and Counts are parallel slices ordered oldest to newest; each label
// is a UTC calendar date formatted as 2006-01-02.
type UploadHistogram struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"data"`
}

// DashboardStats aggregates the admin dashboard view: totals, the five most
// played records, the five most recent uploads, and the 30-day histogram.
type DashboardStats struct {
	TotalMedia  int             `json:"total_media"`
	TopPopular  []MediaView     `json:"top_popular_media"`
	Newest      []MediaView     `json:"newest_media"`
	UploadStats UploadHistogram `json:"upload_stats"`
}
