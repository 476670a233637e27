// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package config

import (
	"strings"
	"testing"
	"time"
)

// validTestConfig returns a config that passes Validate(), for mutation in
// individual test cases.
func validTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Session.Secret = strings.Repeat("s", 32)
	return cfg
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Site.URL != "http://localhost:3000" {
		t.Errorf("unexpected default site URL: %q", cfg.Site.URL)
	}
	if cfg.Uploads.MaxSizeBytes != 524288000 {
		t.Errorf("expected 500 MB default upload cap, got %d", cfg.Uploads.MaxSizeBytes)
	}
	if cfg.Storage.Backend != "json" {
		t.Errorf("expected json default storage backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.DatabaseFile != "database.json" {
		t.Errorf("unexpected default database file: %q", cfg.Storage.DatabaseFile)
	}
	if cfg.Session.Timeout != 24*time.Hour {
		t.Errorf("expected 24h session timeout, got %v", cfg.Session.Timeout)
	}
	if len(cfg.Uploads.AllowedTypes) != 7 {
		t.Errorf("expected 7 allowed MIME types, got %d", len(cfg.Uploads.AllowedTypes))
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validTestConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty site URL",
			mutate:  func(c *Config) { c.Site.URL = "" },
			wantErr: "SITE_URL",
		},
		{
			name:    "bad site URL scheme",
			mutate:  func(c *Config) { c.Site.URL = "ftp://example.com" },
			wantErr: "SITE_URL",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "PORT",
		},
		{
			name:    "zero upload cap",
			mutate:  func(c *Config) { c.Uploads.MaxSizeBytes = 0 },
			wantErr: "UPLOAD_MAX_SIZE_BYTES",
		},
		{
			name:    "non media allow-list entry",
			mutate:  func(c *Config) { c.Uploads.AllowedTypes = []string{"image/png"} },
			wantErr: "allowed_types",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "duckdb" },
			wantErr: "STORAGE_BACKEND",
		},
		{
			name: "missing admin credential",
			mutate: func(c *Config) {
				c.Admin.PIN = ""
				c.Admin.PINHash = ""
			},
			wantErr: "ADMIN_PIN",
		},
		{
			name:    "non bcrypt pin hash",
			mutate:  func(c *Config) { c.Admin.PINHash = "plaintext" },
			wantErr: "bcrypt",
		},
		{
			name:    "short session secret",
			mutate:  func(c *Config) { c.Session.Secret = "short" },
			wantErr: "SESSION_SECRET",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"SITE_URL", "site.url"},
		{"ADMIN_PIN", "admin.pin"},
		{"UPLOAD_MAX_SIZE_BYTES", "uploads.max_size_bytes"},
		{"PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"STORAGE_BACKEND", "storage.backend"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SESSION_SECRET", strings.Repeat("x", 32))
	t.Setenv("SITE_URL", "https://media.example.com")
	t.Setenv("PORT", "8080")
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Site.URL != "https://media.example.com" {
		t.Errorf("expected env override for site URL, got %q", cfg.Site.URL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected env override for port, got %d", cfg.Server.Port)
	}
	// Untouched settings keep their defaults.
	if cfg.Storage.Backend != "json" {
		t.Errorf("expected default storage backend, got %q", cfg.Storage.Backend)
	}
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected Load() to fail without SESSION_SECRET")
	}
}
