// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chrismccoy/echochamber/internal/auth"
	"github.com/chrismccoy/echochamber/internal/middleware"
	"github.com/chrismccoy/echochamber/internal/web"
)

// loginRateLimit bounds PIN guessing. The PIN space is small, so the
// login endpoint is throttled well below online-brute-force speed.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// NewRouter assembles the full route tree.
func NewRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)

	// Public pages and upload ingestion.
	r.Get("/", h.HomePage)
	r.Post("/upload", h.HandleUpload)
	r.Get("/v/{mediaID}", h.WatchPage)
	r.Get("/a/{mediaID}", h.WatchPage)
	r.Get("/page/privacy", h.PrivacyPage)
	r.Get("/page/tos", h.TosPage)

	// Static assets and the stored media files themselves.
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(web.Assets())))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(h.cfg.Uploads.Directory)))))

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// Admin panel.
	r.Route("/admin", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{h.cfg.Site.URL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Accept", "Content-Type", auth.CSRFHeaderName},
			AllowCredentials: true,
		}))
		r.Use(h.csrf.Middleware)

		r.Get("/login", h.LoginPage)
		r.With(httprate.LimitByIP(loginRateLimit, loginRateWindow)).Post("/login", h.HandleLogin)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(h.sessions))

			r.Get("/", h.Dashboard)
			r.Get("/manage", h.ManageMedia)
			r.Post("/manage/delete", h.DeleteMedia)
			r.Get("/upload", h.UploadPage)
			r.Post("/upload", h.HandleAdminUpload)
			r.Get("/api/stats", h.Stats)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// noDirListing hides directory indexes and in-flight upload temp files
// from the public uploads mount.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || strings.HasPrefix(pathBase(r.URL.Path), ".") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pathBase(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
