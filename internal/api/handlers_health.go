// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package api

import (
	"net/http"
	"time"
)

// HealthLive reports process liveness. It never touches dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HealthReady reports readiness to serve traffic. Readiness requires the
// document store to answer a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database is not ready", err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"status":          "ready",
		"liveFeedClients": h.wsHub.ClientCount(),
		"uptime":          time.Since(h.startTime).Round(time.Second).String(),
	})
}
