// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/geochat/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 whenever the process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns registry and connection counts; 503 once shutdown has begun.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	stats := h.stats.Stats()
	status := models.HealthStatus{
		Status:        "ready",
		Sessions:      stats.Sessions,
		Online:        stats.Online,
		Messages:      stats.Messages,
		Connections:   h.conns.GetClientCount(),
		RadiusKm:      h.radiusKm,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	statusCode := http.StatusOK
	responseStatus := "success"
	if h.draining.Load() {
		statusCode = http.StatusServiceUnavailable
		status.Status = "draining"
		responseStatus = "error"
	}

	resp := &models.APIResponse{
		Status: responseStatus,
		Data:   status,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	}
	if statusCode != http.StatusOK {
		resp.Error = &models.APIError{Code: "NOT_READY", Message: "Service is shutting down"}
	}
	respondJSON(w, statusCode, resp)
}

// ClientConfig returns the connection policy clients should follow: where to
// connect, the heartbeat timings and how often to retry.
func (h *Handler) ClientConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   h.clientConfig,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
