// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package auth implements admin authentication for EchoChamber: PIN
// verification, the JWT session cookie, and CSRF protection for admin
// mutations.
package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/chrismccoy/echochamber/internal/config"
)

// PINVerifier checks a submitted admin PIN against configuration.
// When a bcrypt hash is configured it takes precedence over the plaintext
// PIN so the secret never has to sit in the environment in clear text.
type PINVerifier struct {
	pin     string
	pinHash string
}

// NewPINVerifier creates a verifier from the admin configuration.
func NewPINVerifier(cfg config.AdminConfig) *PINVerifier {
	return &PINVerifier{pin: cfg.PIN, pinHash: cfg.PINHash}
}

// Verify reports whether the submitted PIN is correct. Comparison is
// constant time in both modes.
func (v *PINVerifier) Verify(pin string) bool {
	if pin == "" {
		return false
	}
	if v.pinHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(v.pinHash), []byte(pin)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(v.pin), []byte(pin)) == 1
}
