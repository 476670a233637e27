// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chrismccoy/echochamber/internal/models"
)

func testSite() Site {
	return Site{
		Title:          "Echo Chamber",
		URL:            "http://localhost:3000",
		Description:    "Simple media hosting.",
		ShowAdminLogin: true,
	}
}

func TestNewRenderer_ParsesAllPages(t *testing.T) {
	r, err := NewRenderer(testSite())
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	for _, page := range pages {
		if _, ok := r.templates[page]; !ok {
			t.Errorf("expected parsed template for page %q", page)
		}
	}
}

func TestRender_HomeIncludesSiteIdentity(t *testing.T) {
	r, err := NewRenderer(testSite())
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "home", Page{
		Data: UploadFormData{MaxSizeBytes: 524288000, LimitText: "500MB Max limit upload."},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Echo Chamber") {
		t.Error("expected site title in rendered page")
	}
	if !strings.Contains(body, "500MB Max limit upload.") {
		t.Error("expected upload limit text in rendered page")
	}
	if !strings.Contains(body, `name="media"`) {
		t.Error("expected upload form field in rendered page")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %q", ct)
	}
}

func TestRender_PlayerSwitchesElementByType(t *testing.T) {
	r, err := NewRenderer(testSite())
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	video := models.MediaView{
		MediaRecord: models.MediaRecord{
			ID:               "11223344",
			Filename:         "11223344.mp4",
			OriginalFilename: "clip.mp4",
			MimeType:         "video/mp4",
		},
		Video: true,
	}
	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "player", Page{
		Title: "clip.mp4 - Echo Chamber",
		Data:  PlayerData{Media: video, Plays: 3, CurrentURL: "http://localhost:3000/v/11223344"},
	})
	if !strings.Contains(rec.Body.String(), "<video") {
		t.Error("expected video element for video media")
	}

	audio := video
	audio.Video = false
	audio.MimeType = "audio/mpeg"
	rec = httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "player", Page{
		Data: PlayerData{Media: audio, Plays: 3},
	})
	if !strings.Contains(rec.Body.String(), "<audio") {
		t.Error("expected audio element for audio media")
	}
}

func TestRender_LoginEmbedsCSRFToken(t *testing.T) {
	r, err := NewRenderer(testSite())
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "admin_login", Page{
		CSRFToken: "token-value",
		Data:      LoginData{},
	})
	if !strings.Contains(rec.Body.String(), `value="token-value"`) {
		t.Error("expected CSRF token in login form")
	}
}

func TestRender_UnknownPageIs500(t *testing.T) {
	r, err := NewRenderer(testSite())
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "nonexistent", Page{})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for unknown page, got %d", rec.Code)
	}
}

func TestStaticContent(t *testing.T) {
	if _, ok := StaticContent("privacy"); !ok {
		t.Error("expected embedded privacy content")
	}
	if _, ok := StaticContent("tos"); !ok {
		t.Error("expected embedded tos content")
	}
	if _, ok := StaticContent("missing"); ok {
		t.Error("expected missing content to report false")
	}
}
