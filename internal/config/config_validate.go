// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUploads(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateAdmin(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSite() error {
	if c.Site.URL == "" {
		return fmt.Errorf("SITE_URL is required")
	}
	u, err := url.Parse(c.Site.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SITE_URL must be a valid http(s) URL, got %q", c.Site.URL)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.Directory == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.Uploads.MaxSizeBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE_BYTES must be positive, got %d", c.Uploads.MaxSizeBytes)
	}
	if len(c.Uploads.AllowedTypes) == 0 {
		return fmt.Errorf("uploads.allowed_types must not be empty")
	}
	for _, mt := range c.Uploads.AllowedTypes {
		if !strings.HasPrefix(mt, "audio/") && !strings.HasPrefix(mt, "video/") {
			return fmt.Errorf("uploads.allowed_types entry %q is neither audio nor video", mt)
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "json", "badger":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'json' or 'badger', got %q", c.Storage.Backend)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Storage.Backend == "json" && c.Storage.DatabaseFile == "" {
		return fmt.Errorf("DATABASE_FILE is required for the json storage backend")
	}
	return nil
}

func (c *Config) validateAdmin() error {
	if c.Admin.PIN == "" && c.Admin.PINHash == "" {
		return fmt.Errorf("one of ADMIN_PIN or ADMIN_PIN_HASH is required")
	}
	if c.Admin.PINHash != "" && !strings.HasPrefix(c.Admin.PINHash, "$2") {
		return fmt.Errorf("ADMIN_PIN_HASH must be a bcrypt hash")
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters, got %d", len(c.Session.Secret))
	}
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
