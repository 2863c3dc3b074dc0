// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package api

import (
	"sync/atomic"
	"time"

	"github.com/tomtom215/geochat/internal/models"
	"github.com/tomtom215/geochat/internal/registry"
)

// StatsSource reports registry counters.
type StatsSource interface {
	Stats() registry.Stats
}

// ConnectionCounter reports live transport connections.
type ConnectionCounter interface {
	GetClientCount() int
}

// Handler serves the JSON endpoints.
type Handler struct {
	stats        StatsSource
	conns        ConnectionCounter
	radiusKm     float64
	clientConfig models.ClientConfig
	startTime    time.Time
	draining     atomic.Bool
}

// NewHandler creates a handler. clientConfig is returned verbatim by
// /api/v1/client-config.
func NewHandler(stats StatsSource, conns ConnectionCounter, clientConfig models.ClientConfig) *Handler {
	return &Handler{
		stats:        stats,
		conns:        conns,
		radiusKm:     clientConfig.RadiusKm,
		clientConfig: clientConfig,
		startTime:    time.Now(),
	}
}

// SetDraining marks the service as shutting down; readiness then fails so
// load balancers stop sending new connections.
func (h *Handler) SetDraining(draining bool) {
	h.draining.Store(draining)
}
