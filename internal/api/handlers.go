// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package api wires the HTTP surface: public pages, upload ingestion,
// media playback, and the admin panel.
package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chrismccoy/echochamber/internal/auth"
	"github.com/chrismccoy/echochamber/internal/config"
	"github.com/chrismccoy/echochamber/internal/logging"
	"github.com/chrismccoy/echochamber/internal/media"
	"github.com/chrismccoy/echochamber/internal/models"
	"github.com/chrismccoy/echochamber/internal/web"
)

// uploadFieldName is the multipart form field carrying the media file.
const uploadFieldName = "media"

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	cfg      *config.Config
	svc      *media.Service
	renderer *web.Renderer
	sessions *auth.SessionManager
	csrf     *auth.CSRFProtector
	pins     *auth.PINVerifier
}

// NewHandlers creates the handler set.
func NewHandlers(
	cfg *config.Config,
	svc *media.Service,
	renderer *web.Renderer,
	sessions *auth.SessionManager,
	csrf *auth.CSRFProtector,
	pins *auth.PINVerifier,
) *Handlers {
	return &Handlers{
		cfg:      cfg,
		svc:      svc,
		renderer: renderer,
		sessions: sessions,
		csrf:     csrf,
		pins:     pins,
	}
}

// HomePage renders the public homepage with the upload form.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "home", web.Page{
		Data: web.UploadFormData{
			MaxSizeBytes: h.cfg.Uploads.MaxSizeBytes,
			LimitText:    h.cfg.Uploads.LimitText,
		},
	})
}

// HandleUpload ingests a public multipart upload and returns JSON. The
// mimetype is echoed back so the client can route to the right player.
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	h.handleUploadCommon(w, r)
}

// WatchPage renders the media player. Videos live at /v/{id} and audio at
// /a/{id}; requests for the wrong prefix redirect to the right one before
// any state changes. A successful view increments the play counter.
func (h *Handlers) WatchPage(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "mediaID")

	record, found := h.svc.GetByID(r.Context(), mediaID)
	if !found {
		h.NotFound(w, r)
		return
	}

	isVideo := record.IsVideo()
	onVideoRoute := strings.HasPrefix(r.URL.Path, "/v/")
	if isVideo != onVideoRoute {
		prefix := "a"
		if isVideo {
			prefix = "v"
		}
		http.Redirect(w, r, "/"+prefix+"/"+mediaID, http.StatusFound)
		return
	}

	plays := h.svc.IncrementPlayCount(r.Context(), mediaID)
	view := models.Project(*record, h.cfg.Site.URL)

	actionVerb := "Listen to"
	if isVideo {
		actionVerb = "Watch"
	}

	h.renderer.Render(w, http.StatusOK, "player", web.Page{
		Title:       record.OriginalFilename + " - " + h.cfg.Site.Title,
		Description: actionVerb + " " + record.OriginalFilename + " on " + h.cfg.Site.Title,
		Data: web.PlayerData{
			Media:      view,
			Plays:      plays,
			CurrentURL: view.URL,
		},
	})
}

// PrivacyPage renders the static privacy policy.
func (h *Handlers) PrivacyPage(w http.ResponseWriter, r *http.Request) {
	h.staticPage(w, r, "privacy", "Privacy Policy")
}

// TosPage renders the static terms of service.
func (h *Handlers) TosPage(w http.ResponseWriter, r *http.Request) {
	h.staticPage(w, r, "tos", "Terms of Service")
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusNotFound, "not_found", web.Page{
		Title: "Not Found - " + h.cfg.Site.Title,
	})
}

// MethodNotAllowed renders the error page for unsupported methods.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusMethodNotAllowed, "error", web.Page{
		Title: "Error - " + h.cfg.Site.Title,
		Data: web.ErrorData{
			Status:  http.StatusMethodNotAllowed,
			Message: "Method not allowed.",
		},
	})
}

func (h *Handlers) staticPage(w http.ResponseWriter, r *http.Request, name, title string) {
	content, ok := web.StaticContent(name)
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.renderer.Render(w, http.StatusOK, "static_page", web.Page{
		Title: title + " - " + h.cfg.Site.Title,
		Data:  web.StaticPageData{Content: content},
	})
}

// handleUploadCommon is shared by the public and admin upload endpoints.
func (h *Handlers) handleUploadCommon(w http.ResponseWriter, r *http.Request) {
	// The multipart overhead on top of the file itself is small; one
	// extra MiB of headroom keeps legitimate max-size uploads working.
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Uploads.MaxSizeBytes+1<<20)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		status := http.StatusBadRequest
		message := "No file was uploaded."
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
			message = "File exceeds the upload size limit."
		}
		writeUploadResult(w, status, models.UploadResult{Success: false, Message: message})
		return
	}
	defer func() { _ = file.Close() }()

	mimetype := header.Header.Get("Content-Type")
	if !h.mimeTypeAllowed(mimetype) {
		writeUploadResult(w, http.StatusBadRequest, models.UploadResult{
			Success: false,
			Message: "Invalid file type. Allowed: MP3, WAV, MP4, WebM.",
		})
		return
	}

	tempPath, size, err := h.stageUpload(file)
	if err == nil && size > h.cfg.Uploads.MaxSizeBytes {
		// CSRF middleware may parse the multipart body before the
		// MaxBytesReader cap is installed, so the size is checked again here.
		_ = os.Remove(tempPath)
		writeUploadResult(w, http.StatusRequestEntityTooLarge, models.UploadResult{
			Success: false,
			Message: "File exceeds the upload size limit.",
		})
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to stage upload")
		writeUploadResult(w, http.StatusInternalServerError, models.UploadResult{
			Success: false,
			Message: "Server error processing file.",
		})
		return
	}

	result, err := h.svc.Ingest(r.Context(), &media.Upload{
		TempPath:         tempPath,
		OriginalFilename: filepath.Base(header.Filename),
		MimeType:         mimetype,
		Size:             size,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("upload ingestion failed")
		writeUploadResult(w, http.StatusInternalServerError, models.UploadResult{
			Success: false,
			Message: "Server error processing file.",
		})
		return
	}

	writeUploadResult(w, http.StatusOK, models.UploadResult{
		Success:  true,
		ID:       result.ID,
		MimeType: result.MimeType,
	})
}

// stageUpload spools the multipart part to a temp file in the upload
// directory so ingestion can finish the move with a cheap same-device
// rename.
func (h *Handlers) stageUpload(file multipart.File) (string, int64, error) {
	tmp, err := os.CreateTemp(h.cfg.Uploads.Directory, ".upload-*.tmp")
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, err
	}
	return tmp.Name(), size, nil
}

func (h *Handlers) mimeTypeAllowed(mimetype string) bool {
	for _, allowed := range h.cfg.Uploads.AllowedTypes {
		if mimetype == allowed {
			return true
		}
	}
	return false
}

func writeUploadResult(w http.ResponseWriter, status int, result models.UploadResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonEncode(w, result); err != nil {
		logging.Error().Err(err).Msg("Failed to write upload response")
	}
}
