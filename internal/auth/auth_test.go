// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/chrismccoy/echochamber/internal/config"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     strings.Repeat("s", 32),
		CookieName: "mediahost.sid",
		Timeout:    time.Hour,
	}
}

func TestPINVerifier_PlaintextPIN(t *testing.T) {
	v := NewPINVerifier(config.AdminConfig{PIN: "1234"})

	if !v.Verify("1234") {
		t.Error("expected correct PIN to verify")
	}
	if v.Verify("4321") {
		t.Error("expected wrong PIN to fail")
	}
	if v.Verify("") {
		t.Error("expected empty PIN to fail")
	}
}

func TestPINVerifier_BcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("9999"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash PIN: %v", err)
	}

	v := NewPINVerifier(config.AdminConfig{PIN: "1234", PINHash: string(hash)})

	if !v.Verify("9999") {
		t.Error("expected hashed PIN to verify")
	}
	if v.Verify("1234") {
		t.Error("expected plaintext PIN to be ignored when hash is set")
	}
}

func TestSessionManager_RejectsShortSecret(t *testing.T) {
	cfg := testSessionConfig()
	cfg.Secret = "short"

	if _, err := NewSessionManager(cfg); err == nil {
		t.Error("expected error for short session secret")
	}
}

func TestSessionManager_TokenRoundTrip(t *testing.T) {
	m, err := NewSessionManager(testSessionConfig())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	token, err := m.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
}

func TestSessionManager_RejectsTamperedToken(t *testing.T) {
	m, err := NewSessionManager(testSessionConfig())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	token, err := m.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := m.ValidateToken(token + "x"); err == nil {
		t.Error("expected tampered token to fail validation")
	}
	if _, err := m.ValidateToken("not-a-token"); err == nil {
		t.Error("expected garbage token to fail validation")
	}
}

func TestSessionManager_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	m1, err := NewSessionManager(testSessionConfig())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	other := testSessionConfig()
	other.Secret = strings.Repeat("z", 32)
	m2, err := NewSessionManager(other)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	token, err := m2.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := m1.ValidateToken(token); err == nil {
		t.Error("expected token signed with different secret to fail")
	}
}

func TestSessionManager_CookieLifecycle(t *testing.T) {
	m, err := NewSessionManager(testSessionConfig())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := m.SetCookie(rec); err != nil {
		t.Fatalf("failed to set session cookie: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "mediahost.sid" {
		t.Errorf("expected cookie name mediahost.sid, got %q", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("expected session cookie to be HTTP-only")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(cookie)
	if !m.Authenticated(req) {
		t.Error("expected request with session cookie to be authenticated")
	}

	bare := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	if m.Authenticated(bare) {
		t.Error("expected request without cookie to be unauthenticated")
	}

	clearRec := httptest.NewRecorder()
	m.ClearCookie(clearRec)
	cleared := clearRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge != -1 {
		t.Error("expected ClearCookie to expire the session cookie")
	}
}

func TestRequireAdmin_RedirectsPagesAndRejectsAPI(t *testing.T) {
	m, err := NewSessionManager(testSessionConfig())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	handler := RequireAdmin(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	pageRec := httptest.NewRecorder()
	handler.ServeHTTP(pageRec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if pageRec.Code != http.StatusFound {
		t.Errorf("expected 302 for unauthenticated page request, got %d", pageRec.Code)
	}
	if loc := pageRec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %q", loc)
	}

	apiRec := httptest.NewRecorder()
	handler.ServeHTTP(apiRec, httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil))
	if apiRec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unauthenticated API request, got %d", apiRec.Code)
	}
	if ct := apiRec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got content type %q", ct)
	}

	authRec := httptest.NewRecorder()
	authReq := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	setRec := httptest.NewRecorder()
	if err := m.SetCookie(setRec); err != nil {
		t.Fatalf("failed to set session cookie: %v", err)
	}
	authReq.AddCookie(setRec.Result().Cookies()[0])
	handler.ServeHTTP(authRec, authReq)
	if authRec.Code != http.StatusOK {
		t.Errorf("expected 200 for authenticated request, got %d", authRec.Code)
	}
}

func TestCSRFProtector_SafeMethodsPass(t *testing.T) {
	p := NewCSRFProtector(false)
	handler := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/manage", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected GET to pass without token, got %d", rec.Code)
	}
}

func TestCSRFProtector_RejectsMissingAndMismatchedTokens(t *testing.T) {
	p := NewCSRFProtector(false)
	handler := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	noToken := httptest.NewRequest(http.MethodPost, "/admin/manage/delete", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, noToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without token, got %d", rec.Code)
	}

	form := url.Values{CSRFFormField: {"bbbb"}}
	mismatch := httptest.NewRequest(http.MethodPost, "/admin/manage/delete", strings.NewReader(form.Encode()))
	mismatch.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	mismatch.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "aaaa"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, mismatch)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 on token mismatch, got %d", rec.Code)
	}
}

func TestCSRFProtector_AcceptsMatchingFormAndHeaderTokens(t *testing.T) {
	p := NewCSRFProtector(false)
	handler := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mintRec := httptest.NewRecorder()
	token, err := p.EnsureToken(mintRec, httptest.NewRequest(http.MethodGet, "/admin/manage", nil))
	if err != nil {
		t.Fatalf("failed to mint CSRF token: %v", err)
	}

	form := url.Values{CSRFFormField: {token}}
	formReq := httptest.NewRequest(http.MethodPost, "/admin/manage/delete", strings.NewReader(form.Encode()))
	formReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	formReq.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, formReq)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with matching form token, got %d", rec.Code)
	}

	headerReq := httptest.NewRequest(http.MethodPost, "/admin/api/stats", nil)
	headerReq.Header.Set(CSRFHeaderName, token)
	headerReq.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, headerReq)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with matching header token, got %d", rec.Code)
	}
}

func TestCSRFProtector_EnsureTokenReusesCookie(t *testing.T) {
	p := NewCSRFProtector(false)

	req := httptest.NewRequest(http.MethodGet, "/admin/manage", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing-token"})

	token, err := p.EnsureToken(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("failed to ensure CSRF token: %v", err)
	}
	if token != "existing-token" {
		t.Errorf("expected existing cookie token to be reused, got %q", token)
	}
}
