// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package auth

import (
	"net/http"
	"strings"

	"github.com/chrismccoy/echochamber/internal/logging"
)

// RequireAdmin guards the admin area. Requests without a valid session
// cookie get a 403 JSON body on API paths and a redirect to the login
// page everywhere else.
func RequireAdmin(sessions *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions.Authenticated(r) {
				next.ServeHTTP(w, r)
				return
			}

			logging.Ctx(r.Context()).Debug().
				Str("path", r.URL.Path).
				Msg("unauthenticated admin request")

			if strings.HasPrefix(r.URL.Path, "/admin/api/") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"status":"error","error":{"code":"UNAUTHORIZED","message":"Authentication required"}}`))
				return
			}

			http.Redirect(w, r, "/admin/login", http.StatusFound)
		})
	}
}
