// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package api

import (
	"net/http/httptest"
	"testing"
)

func TestGenerateETag_DeterministicAndSensitive(t *testing.T) {
	a := generateETag([]byte("payload"))
	b := generateETag([]byte("payload"))
	c := generateETag([]byte("payload2"))

	if a != b {
		t.Error("expected identical payloads to share an ETag")
	}
	if a == c {
		t.Error("expected different payloads to differ")
	}
}

func TestGetIntParam(t *testing.T) {
	tests := []struct {
		name string
		url  string
		def  int
		want int
	}{
		{"present", "/?page=3", 1, 3},
		{"absent", "/", 1, 1},
		{"malformed", "/?page=abc", 1, 1},
		{"negative", "/?page=-2", 1, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := getIntParam(r, "page", tt.def); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	got := sanitizeLogValue("line1\nline2\tend")
	if got != `line1\x0aline2\x09end` {
		t.Errorf("unexpected sanitized value %q", got)
	}
	if sanitizeLogValue("clean") != "clean" {
		t.Error("expected clean strings to pass through")
	}
}
