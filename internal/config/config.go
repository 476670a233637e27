// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package config loads and validates application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (SITE_URL, ADMIN_PIN, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH)
//   - Built-in defaults
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Site    SiteConfig    `koanf:"site"`
	Server  ServerConfig  `koanf:"server"`
	Uploads UploadsConfig `koanf:"uploads"`
	Storage StorageConfig `koanf:"storage"`
	Admin   AdminConfig   `koanf:"admin"`
	Session SessionConfig `koanf:"session"`
	Logging LoggingConfig `koanf:"logging"`
}

// SiteConfig describes the public identity of the site.
type SiteConfig struct {
	// Title is shown in page titles and headers.
	Title string `koanf:"title"`

	// URL is the external base URL used to build shareable playback links.
	URL string `koanf:"url"`

	// Description feeds the meta description tag on public pages.
	Description string `koanf:"description"`

	// ShowAdminLogin controls whether the footer links to /admin/login.
	ShowAdminLogin bool `koanf:"show_admin_login"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// ReadTimeout/WriteTimeout bound slow clients. WriteTimeout must
	// accommodate large media uploads.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown drain.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// UploadsConfig controls upload admission and placement.
type UploadsConfig struct {
	// Directory is where stored media files live and are served from.
	Directory string `koanf:"directory"`

	// MaxSizeBytes is the upload size ceiling (default 500 MB).
	MaxSizeBytes int64 `koanf:"max_size_bytes" validate:"min=1"`

	// LimitText is the human-readable limit shown on upload forms.
	LimitText string `koanf:"limit_text"`

	// AllowedTypes is the MIME allow-list for uploads.
	AllowedTypes []string `koanf:"allowed_types"`
}

// StorageConfig selects and locates the record store backend.
type StorageConfig struct {
	// Backend is "json" (flat-file document, the default) or "badger"
	// (embedded key-value store).
	Backend string `koanf:"backend" validate:"oneof=json badger"`

	// DataDir holds the JSON database document or the Badger directory.
	DataDir string `koanf:"data_dir"`

	// DatabaseFile is the JSON document filename inside DataDir.
	DatabaseFile string `koanf:"database_file"`
}

// AdminConfig holds the shared-secret admin credential.
type AdminConfig struct {
	// PIN is the plaintext admin PIN. Ignored when PINHash is set.
	PIN string `koanf:"pin"`

	// PINHash is an optional bcrypt hash of the PIN; preferred over PIN
	// so the secret never sits in the environment in clear text.
	PINHash string `koanf:"pin_hash"`
}

// SessionConfig holds admin session cookie settings.
type SessionConfig struct {
	// Secret signs the session JWT. Required, 32+ characters.
	Secret string `koanf:"secret"`

	// CookieName is the session cookie name.
	CookieName string `koanf:"cookie_name"`

	// Timeout is the session lifetime.
	Timeout time.Duration `koanf:"timeout"`

	// CookieSecure sets the Secure flag on session and CSRF cookies.
	// Enable when serving over HTTPS.
	CookieSecure bool `koanf:"cookie_secure"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. These mirror the
// out-of-the-box behavior of the site: local URL, 500 MB cap, audio/video
// allow-list, flat-file JSON store.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:          "Echo Chamber",
			URL:            "http://localhost:3000",
			Description:    "Simple media hosting.",
			ShowAdminLogin: true,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     10 * time.Minute,
			WriteTimeout:    10 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Uploads: UploadsConfig{
			Directory:    "public/uploads",
			MaxSizeBytes: 524288000, // 500 MB
			LimitText:    "500MB Max limit upload.",
			AllowedTypes: []string{
				"audio/mpeg",
				"audio/mp3",
				"audio/wav",
				"audio/ogg",
				"video/mp4",
				"video/webm",
				"video/ogg",
			},
		},
		Storage: StorageConfig{
			Backend:      "json",
			DataDir:      "data",
			DatabaseFile: "database.json",
		},
		Admin: AdminConfig{
			PIN: "1234",
		},
		Session: SessionConfig{
			Secret:     "",
			CookieName: "mediahost.sid",
			Timeout:    24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
