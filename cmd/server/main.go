// EchoChamber - Self-Hosted Media Sharing
// Copyright 2026 Chris McCoy (chrismccoy)
// SPDX-License-Identifier: MIT
// https://github.com/chrismccoy/echochamber

// Package main is the entry point for the EchoChamber server.
//
// EchoChamber is a self-hosted media sharing site: anyone can upload an
// audio or video file and receive a short shareable link, and a
// PIN-protected admin panel provides statistics and management.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config file, and
//     environment variables (Koanf v2)
//  2. Storage: flat-file JSON document store (or BadgerDB when configured)
//  3. Media service: ingestion, playback queries, and statistics
//  4. HTTP server: chi router serving the public site, admin panel, and
//     Prometheus metrics
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, then waits for in-flight requests up to the
// configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrismccoy/echochamber/internal/api"
	"github.com/chrismccoy/echochamber/internal/auth"
	"github.com/chrismccoy/echochamber/internal/config"
	"github.com/chrismccoy/echochamber/internal/logging"
	"github.com/chrismccoy/echochamber/internal/media"
	"github.com/chrismccoy/echochamber/internal/store"
	"github.com/chrismccoy/echochamber/internal/web"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("site_url", cfg.Site.URL).
		Str("storage_backend", cfg.Storage.Backend).
		Str("upload_dir", cfg.Uploads.Directory).
		Msg("Starting EchoChamber")

	if err := os.MkdirAll(cfg.Uploads.Directory, 0o755); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	st, err := store.New(cfg.Storage.Backend, cfg.Storage.DataDir, cfg.Storage.DatabaseFile)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create store")
	}
	if err := st.Initialize(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Msg("Store initialized successfully")

	svc := media.NewService(st, cfg.Uploads.Directory, cfg.Site.URL)

	renderer, err := web.NewRenderer(web.Site{
		Title:          cfg.Site.Title,
		URL:            cfg.Site.URL,
		Description:    cfg.Site.Description,
		ShowAdminLogin: cfg.Site.ShowAdminLogin,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to parse templates")
	}

	sessions, err := auth.NewSessionManager(cfg.Session)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session manager")
	}

	handlers := api.NewHandlers(cfg, svc, renderer, sessions,
		auth.NewCSRFProtector(cfg.Session.CookieSecure),
		auth.NewPINVerifier(cfg.Admin))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start the server in a goroutine so signal handling stays on main.
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		return
	}
	logging.Info().Msg("Server stopped")
}
