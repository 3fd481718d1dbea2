// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package api provides the HTTP surface of VeriCapture: Chi routing,
// middleware, and the handlers for users, posts, comments, replies,
// the live feed, and health endpoints.
package api

import (
	"time"

	"github.com/vericapture/vericapture/internal/auth"
	"github.com/vericapture/vericapture/internal/config"
	"github.com/vericapture/vericapture/internal/mailer"
	"github.com/vericapture/vericapture/internal/media"
	"github.com/vericapture/vericapture/internal/store"
	ws "github.com/vericapture/vericapture/internal/websocket"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: shared response and request helpers
//   - handlers_users.go: registration, sessions, profiles, search
//   - handlers_posts.go: post CRUD, likes, shares
//   - handlers_comments.go: comments on posts
//   - handlers_replies.go: nested replies on comments
//   - handlers_health.go: liveness and readiness probes
//   - handlers_websocket.go: live feed upgrade endpoint
type Handler struct {
	store      *store.Store
	config     *config.Config
	jwtManager *auth.JWTManager
	uploader   media.Uploader // nil when no media host is configured
	mailer     *mailer.Mailer
	wsHub      *ws.Hub
	startTime  time.Time
}

// NewHandler creates a new API handler with all required dependencies.
// uploader may be nil when Cloudinary is not configured; media endpoints
// then reject uploads with a service-unavailable error.
func NewHandler(st *store.Store, cfg *config.Config, jwtManager *auth.JWTManager, uploader media.Uploader, mail *mailer.Mailer, wsHub *ws.Hub) *Handler {
	return &Handler{
		store:      st,
		config:     cfg,
		jwtManager: jwtManager,
		uploader:   uploader,
		mailer:     mail,
		wsHub:      wsHub,
		startTime:  time.Now(),
	}
}
