// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chrismccoy/echochamber/internal/config"
)

// Claims represents the JWT claims carried in the admin session cookie.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates the admin session cookie. Sessions
// are stateless JWTs signed with HMAC-SHA256; the cookie is HTTP-only so
// scripts on the page cannot read it.
type SessionManager struct {
	secret     []byte
	timeout    time.Duration
	cookieName string
	secure     bool
}

// NewSessionManager creates a session manager from the session configuration.
// Returns an error if the signing secret is shorter than 32 characters.
func NewSessionManager(cfg config.SessionConfig) (*SessionManager, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}

	return &SessionManager{
		secret:     []byte(cfg.Secret),
		timeout:    cfg.Timeout,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
	}, nil
}

// GenerateToken creates a signed session token for an authenticated admin.
func (m *SessionManager) GenerateToken() (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken verifies a session token's signature, algorithm, and
// expiration, and returns its claims. Only HMAC signing methods are
// accepted to prevent algorithm confusion attacks.
func (m *SessionManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// SetCookie issues a fresh session token and writes it as the session
// cookie on the response.
func (m *SessionManager) SetCookie(w http.ResponseWriter) error {
	token, err := m.GenerateToken()
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.timeout.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie, logging the admin out.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticated reports whether the request carries a valid session cookie.
func (m *SessionManager) Authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = m.ValidateToken(cookie.Value)
	return err == nil
}
