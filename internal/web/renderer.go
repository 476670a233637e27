// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package web renders the site's HTML pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/chrismccoy/echochamber/internal/logging"
	"github.com/chrismccoy/echochamber/internal/models"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// pages lists every renderable page. Each is parsed together with the
// shared layout at startup.
var pages = []string{
	"home",
	"player",
	"static_page",
	"not_found",
	"error",
	"admin_login",
	"admin_dashboard",
	"admin_manage",
	"admin_upload",
}

// Site carries the site identity shared by every page.
type Site struct {
	Title          string
	URL            string
	Description    string
	ShowAdminLogin bool
}

// Page is the data envelope passed to every template. Description
// overrides the site-wide meta description when set.
type Page struct {
	Site        Site
	Title       string
	Description string
	CSRFToken   string
	Data        any
}

// PlayerData is the payload for the media player page.
type PlayerData struct {
	Media      models.MediaView
	Plays      int64
	CurrentURL string
}

// ManageData is the payload for the admin management table.
type ManageData struct {
	Page models.MediaPage
}

// UploadFormData is the payload for the upload form pages.
type UploadFormData struct {
	MaxSizeBytes int64
	LimitText    string
}

// StaticPageData is the payload for static content pages.
type StaticPageData struct {
	Content template.HTML
}

// LoginData is the payload for the admin login form.
type LoginData struct {
	Error string
}

// ErrorData is the payload for the error page.
type ErrorData struct {
	Status  int
	Message string
}

// Renderer renders pages from the embedded template set.
type Renderer struct {
	site      Site
	templates map[string]*template.Template
}

// NewRenderer parses all embedded templates. Returns an error if any
// template fails to parse, so a broken page is caught at startup.
func NewRenderer(site Site) (*Renderer, error) {
	funcs := template.FuncMap{
		"formatBytes": formatBytes,
		"formatTime": func(unix int64) string {
			return time.Unix(unix, 0).UTC().Format("Jan 2, 2006 15:04")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New("layout.html.tmpl").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html.tmpl",
			"templates/"+page+".html.tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{site: site, templates: templates}, nil
}

// Render writes a page to the response. The template is executed into a
// buffer first so a rendering failure produces a clean 500 instead of a
// half-written body.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, p Page) {
	tmpl, ok := r.templates[page]
	if !ok {
		logging.Error().Str("page", page).Msg("unknown template requested")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.Site = r.site
	if p.Title == "" {
		p.Title = r.site.Title
	}
	if p.Description == "" {
		p.Description = r.site.Description
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html.tmpl", p); err != nil {
		logging.Error().Err(err).Str("page", page).Msg("template execution failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
