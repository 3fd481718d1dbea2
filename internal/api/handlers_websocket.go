// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vericapture/vericapture/internal/logging"
	ws "github.com/vericapture/vericapture/internal/websocket"
)

// newUpgrader builds a websocket upgrader that only accepts origins from
// the CORS allow list. Requests without an Origin header (native apps,
// curl) are allowed; the route itself is behind auth.
func (h *Handler) newUpgrader() websocket.Upgrader {
	allowed := make(map[string]bool, len(h.config.Security.CORSOrigins))
	for _, origin := range h.config.Security.CORSOrigins {
		allowed[origin] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return allowed[origin]
		},
	}
}

// LiveFeed upgrades the connection and registers the client with the
// live feed hub. New posts are pushed until the client disconnects.
func (h *Handler) LiveFeed(w http.ResponseWriter, r *http.Request) {
	upgrader := h.newUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
