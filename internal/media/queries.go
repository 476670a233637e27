// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package media

import (
	"context"
	"sort"
	"time"

	"github.com/chrismccoy/echochamber/internal/models"
)

// Sort keys accepted by ListPage. Anything else leaves the store's natural
// order untouched.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// DefaultPerPage is the listing page size.
const DefaultPerPage = 10

// histogramDays is the size of the trailing upload window, today inclusive.
const histogramDays = 30

// ListPage returns one page of the media listing, sorted by upload time.
// Pages are 1-based; a page beyond the end yields an empty item list, not
// an error.
func (s *Service) ListPage(ctx context.Context, sortBy string, page, perPage int) models.MediaPage {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	records := s.store.Read(ctx)
	sorted := make([]models.MediaRecord, len(records))
	copy(sorted, records)

	switch sortBy {
	case SortNewest:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UploadTime > sorted[j].UploadTime })
	case SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UploadTime < sorted[j].UploadTime })
	}

	totalPages := (len(sorted) + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	return models.MediaPage{
		Items:       models.ProjectAll(sorted[start:end], s.siteURL),
		TotalPages:  totalPages,
		CurrentPage: page,
		SortOrder:   sortBy,
	}
}

// DashboardStats compiles the admin dashboard view: the total record count,
// the five most played records, the five newest uploads, and the 30-day
// trailing upload histogram.
func (s *Service) DashboardStats(ctx context.Context) models.DashboardStats {
	records := s.store.Read(ctx)

	popular := make([]models.MediaRecord, len(records))
	copy(popular, records)
	// Stable sort: ties keep the store's natural order.
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].Plays > popular[j].Plays })

	newest := make([]models.MediaRecord, len(records))
	copy(newest, records)
	sort.SliceStable(newest, func(i, j int) bool { return newest[i].UploadTime > newest[j].UploadTime })

	return models.DashboardStats{
		TotalMedia:  len(records),
		TopPopular:  models.ProjectAll(top(popular, 5), s.siteURL),
		Newest:      models.ProjectAll(top(newest, 5), s.siteURL),
		UploadStats: s.uploadHistogram(records),
	}
}

// uploadHistogram buckets records by the UTC calendar date of their upload
// time across the trailing 30-day window ending today. Records outside the
// window are ignored. Labels and counts run oldest to newest.
func (s *Service) uploadHistogram(records []models.MediaRecord) models.UploadHistogram {
	today := s.now().UTC().Truncate(24 * time.Hour)

	labels := make([]string, histogramDays)
	counts := make([]int, histogramDays)
	index := make(map[string]int, histogramDays)
	for i := 0; i < histogramDays; i++ {
		day := today.AddDate(0, 0, i-histogramDays+1)
		label := day.Format("2006-01-02")
		labels[i] = label
		index[label] = i
	}

	for _, m := range records {
		date := time.Unix(m.UploadTime, 0).UTC().Format("2006-01-02")
		if i, ok := index[date]; ok {
			counts[i]++
		}
	}

	return models.UploadHistogram{Labels: labels, Counts: counts}
}

// top returns the first n records, or all of them when fewer exist.
func top(records []models.MediaRecord, n int) []models.MediaRecord {
	if len(records) < n {
		n = len(records)
	}
	return records[:n]
}
