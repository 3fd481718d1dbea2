// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package services

import (
	"context"
	"time"

	"github.com/vericapture/vericapture/internal/logging"
	"github.com/vericapture/vericapture/internal/metrics"
)

// GCRunner matches the store's value log garbage collection method.
type GCRunner interface {
	RunGC() error
}

// StoreGCService periodically runs value log garbage collection on the
// document store. Badger never reclaims value log space on its own, so
// a long-running process has to drive GC itself.
type StoreGCService struct {
	store    GCRunner
	interval time.Duration
	name     string
}

// NewStoreGCService creates a supervised GC loop for the store.
func NewStoreGCService(store GCRunner, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:    store,
		interval: interval,
		name:     "store-gc",
	}
}

// Serve implements suture.Service. GC errors are logged but do not stop
// the loop; a failed pass is retried at the next tick.
func (g *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := g.store.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("store value log GC failed")
				continue
			}
			metrics.StoreGCRuns.Inc()
			logging.Debug().Dur("duration", time.Since(start)).Msg("store value log GC completed")
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (g *StoreGCService) String() string {
	return g.name
}
