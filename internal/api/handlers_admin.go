// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/chrismccoy/echochamber/internal/logging"
	"github.com/chrismccoy/echochamber/internal/media"
	"github.com/chrismccoy/echochamber/internal/web"
)

// LoginPage renders the admin login form. An already-authenticated admin
// is sent straight to the dashboard.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.Authenticated(r) {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	h.renderLogin(w, r, http.StatusOK, "")
}

// HandleLogin verifies the submitted PIN and establishes a session.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	if !h.pins.Verify(r.PostFormValue("pin")) {
		logging.Ctx(r.Context()).Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("failed admin login attempt")
		h.renderLogin(w, r, http.StatusUnauthorized, "Incorrect PIN.")
		return
	}

	if err := h.sessions.SetCookie(w); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to create session")
		h.renderLogin(w, r, http.StatusInternalServerError, "Server error.")
		return
	}

	logging.Ctx(r.Context()).Info().Msg("admin logged in")
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// Logout clears the session cookie and returns to the login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

// Dashboard renders the admin dashboard shell. The numbers are loaded by
// the page itself via the stats API.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	token, _ := h.csrf.EnsureToken(w, r)
	h.renderer.Render(w, http.StatusOK, "admin_dashboard", web.Page{
		Title:     "Dashboard - " + h.cfg.Site.Title,
		CSRFToken: token,
	})
}

// Stats returns dashboard statistics as JSON: total count, top played,
// newest uploads, and the 30-day upload histogram.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats := h.svc.DashboardStats(r.Context())
	respondSuccess(w, http.StatusOK, stats, time.Since(start))
}

// manageQuery carries the validated pagination parameters.
type manageQuery struct {
	Page int    `validate:"min=1"`
	Sort string `validate:"omitempty,oneof=newest oldest"`
}

// ManageMedia renders the paginated media management table.
func (h *Handlers) ManageMedia(w http.ResponseWriter, r *http.Request) {
	q := manageQuery{
		Page: getIntParam(r, "page", 1),
		Sort: r.URL.Query().Get("sort"),
	}
	if q.Sort == "" {
		q.Sort = media.SortNewest
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		q.Page = 1
		q.Sort = media.SortNewest
	}

	page := h.svc.ListPage(r.Context(), q.Sort, q.Page, media.DefaultPerPage)

	token, _ := h.csrf.EnsureToken(w, r)
	h.renderer.Render(w, http.StatusOK, "admin_manage", web.Page{
		Title:     "Manage Media - " + h.cfg.Site.Title,
		CSRFToken: token,
		Data:      web.ManageData{Page: page},
	})
}

// UploadPage renders the admin upload form.
func (h *Handlers) UploadPage(w http.ResponseWriter, r *http.Request) {
	token, _ := h.csrf.EnsureToken(w, r)
	h.renderer.Render(w, http.StatusOK, "admin_upload", web.Page{
		Title:     "Upload Media - " + h.cfg.Site.Title,
		CSRFToken: token,
		Data: web.UploadFormData{
			MaxSizeBytes: h.cfg.Uploads.MaxSizeBytes,
			LimitText:    h.cfg.Uploads.LimitText,
		},
	})
}

// HandleAdminUpload ingests an upload from the admin panel.
func (h *Handlers) HandleAdminUpload(w http.ResponseWriter, r *http.Request) {
	h.handleUploadCommon(w, r)
}

// deleteRequest is the JSON body for media deletion.
type deleteRequest struct {
	MediaID string `json:"media_id" validate:"required,len=8,hexadecimal"`
}

// DeleteMedia removes a media record and its backing file.
func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if !h.svc.Delete(r.Context(), req.MediaID) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = jsonEncode(w, map[string]interface{}{"success": false, "message": "Not found."})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = jsonEncode(w, map[string]interface{}{"success": true, "message": "Deleted."})
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	token, err := h.csrf.EnsureToken(w, r)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to mint CSRF token")
	}
	h.renderer.Render(w, status, "admin_login", web.Page{
		Title:     "Admin Login - " + h.cfg.Site.Title,
		CSRFToken: token,
		Data:      web.LoginData{Error: errMsg},
	})
}
