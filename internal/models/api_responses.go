// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package models

import "time"

// APIResponse is the standardized envelope used by all JSON endpoints.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only when Status is "error".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UploadResult is the JSON body returned by the upload endpoints. The
// mimetype is echoed back so the client can route to the video or audio
// player page without another round trip.
type UploadResult struct {
	Success  bool   `json:"success"`
	ID       string `json:"id,omitempty"`
	MimeType string `json:"mimetype,omitempty"`
	Message  string `json:"message,omitempty"`
}
