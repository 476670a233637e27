// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/chrismccoy/echochamber/internal/logging"
)

// CSRF protection errors.
var (
	// ErrCSRFTokenMissing indicates no CSRF token was provided.
	ErrCSRFTokenMissing = errors.New("CSRF token missing")

	// ErrCSRFTokenInvalid indicates the CSRF token does not match the cookie.
	ErrCSRFTokenInvalid = errors.New("CSRF token invalid")
)

const (
	// CSRFCookieName is the cookie carrying the CSRF token. Not HTTP-only:
	// the double-submit pattern requires the page to echo it back.
	CSRFCookieName = "_csrf"

	// CSRFFormField is the form field the token is submitted in.
	CSRFFormField = "csrf_token"

	// CSRFHeaderName is the header alternative for JSON clients.
	CSRFHeaderName = "X-CSRF-Token"

	csrfTokenBytes = 32
)

// CSRFProtector implements double-submit-cookie CSRF protection for the
// admin forms. Safe methods pass through and get a token cookie if they
// lack one; mutating methods must submit the cookie's token back in the
// form body or header.
type CSRFProtector struct {
	secure bool
}

// NewCSRFProtector creates a CSRF protector. secure controls the Secure
// flag on the token cookie.
func NewCSRFProtector(secure bool) *CSRFProtector {
	return &CSRFProtector{secure: secure}
}

// EnsureToken returns the request's CSRF token, minting and setting a new
// one when the cookie is absent. Handlers rendering admin forms call this
// to embed the token in the page.
func (p *CSRFProtector) EnsureToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	p.setCookie(w, token)
	return token, nil
}

// Middleware validates CSRF tokens on mutating requests. GET, HEAD, and
// OPTIONS pass through untouched; everything else must carry a token that
// matches the cookie.
func (p *CSRFProtector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if err := p.validate(r); err != nil {
			logging.Ctx(r.Context()).Warn().
				Err(err).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("CSRF validation failed")
			http.Error(w, "Forbidden: CSRF token validation failed", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (p *CSRFProtector) validate(r *http.Request) error {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return ErrCSRFTokenMissing
	}

	submitted := r.Header.Get(CSRFHeaderName)
	if submitted == "" {
		submitted = r.PostFormValue(CSRFFormField)
	}
	if submitted == "" {
		return ErrCSRFTokenMissing
	}

	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
		return ErrCSRFTokenInvalid
	}
	return nil
}

func (p *CSRFProtector) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   p.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func generateCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
