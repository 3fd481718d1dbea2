// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package main is the entry point for the VeriCapture server.
//
// VeriCapture is a real-time, truth-driven content platform: users
// capture photo or video evidence of events around them (crime, riots,
// traffic, general) and share it through a REST API with live feed
// broadcasting over WebSocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading with Koanf v2 (defaults, YAML file,
//     VERICAPTURE_* environment variables)
//  2. Document store: Badger key-value store holding users, posts,
//     comments, and replies as JSON documents
//  3. Media host: Cloudinary client behind circuit breakers (optional)
//  4. Mail dispatcher: rate-limited SMTP queue for welcome emails (optional)
//  5. Live feed hub: WebSocket broadcast of newly created posts
//  6. HTTP server: Chi-routed REST API under /api/v1
//
// All long-running components run under a suture supervisor tree with
// three layers (data, messaging, api) for failure isolation.
//
// # Configuration
//
// Minimal production setup:
//
//	export VERICAPTURE_JWT_SECRET=$(openssl rand -base64 32)
//	export VERICAPTURE_DATABASE_PATH=/data/vericapture
//	export VERICAPTURE_CLOUDINARY_CLOUD_NAME=my-cloud
//	export VERICAPTURE_CLOUDINARY_API_KEY=key
//	export VERICAPTURE_CLOUDINARY_API_SECRET=secret
//	./vericapture
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests (10s timeout), closes
// live feed clients, and flushes the store.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vericapture/vericapture/internal/api"
	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/config"
	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/mailer"
	"github.com/vericapture/vericapture/internal/media"
	"github.com/vericapture/vericapture/internal/store"
	"github.com/vericapture/vericapture/internal/supervisor"
	"github.com/vericapture/vericapture/internal/supervisor/services"
	ws "github.com/vericapture/vericapture/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
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
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("media_enabled", cfg.Media.Enabled()).
		Bool("mail_enabled", cfg.Mail.Enabled()).
		Msg("Starting VeriCapture")

	st, err := store.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	// Media host is optional; upload endpoints reject files without it
	var uploader media.Uploader
	if cfg.Media.Enabled() {
		client, err := media.NewCloudinaryClient(cfg.Media)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize media host client")
		}
		uploader = client
		logging.Info().Str("cloud_name", cfg.Media.CloudName).Msg("Media host configured")
	} else {
		logging.Warn().Msg("Media host not configured - uploads disabled")
	}

	mail := mailer.New(cfg.Mail)
	wsHub := ws.NewHub()

	jwtManager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	handler := api.NewHandler(st, cfg, jwtManager, uploader, mail, wsHub)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := slog.New(logging.NewSlogHandler())

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewStoreGCService(st, cfg.Database.GCInterval))
	tree.AddMessagingService(wsHub)
	tree.AddMessagingService(mail)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
