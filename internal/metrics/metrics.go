// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package metrics defines the Prometheus instrumentation for VeriCapture:
// API latency and throughput, feed activity, media host health, mail
// dispatch, and live feed connections. All metrics are registered on the
// default registry and exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vericapture_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vericapture_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Feed activity
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vericapture_users_registered_total",
			Help: "Total number of user registrations",
		},
	)

	PostsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vericapture_posts_created_total",
			Help: "Total number of posts created",
		},
		[]string{"category"},
	)

	LikesToggled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vericapture_likes_toggled_total",
			Help: "Total number of like toggles",
		},
		[]string{"entity", "action"}, // entity: post|comment|reply, action: like|unlike
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vericapture_comments_created_total",
			Help: "Total number of comments and replies created",
		},
	)

	// Media host
	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vericapture_media_uploads_total",
			Help: "Total number of media host operations",
		},
		[]string{"operation", "status"}, // operation: upload|destroy, status: success|failure|rejected
	)

	MediaUploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vericapture_media_upload_duration_seconds",
			Help:    "Media host upload duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// Circuit breaker around the media host client
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vericapture_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vericapture_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Mail dispatch
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vericapture_emails_sent_total",
			Help: "Total number of outbound e-mails by outcome",
		},
		[]string{"status"}, // success|failure|dropped
	)

	MailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vericapture_mail_queue_depth",
			Help: "Current number of e-mails waiting for dispatch",
		},
	)

	// Live feed
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vericapture_websocket_connections",
			Help: "Current number of live feed WebSocket clients",
		},
	)

	WebSocketBroadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vericapture_websocket_broadcasts_total",
			Help: "Total number of live feed broadcast messages",
		},
	)

	// Document store
	StoreGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vericapture_store_gc_runs_total",
			Help: "Total number of value log garbage collection runs",
		},
	)
)
