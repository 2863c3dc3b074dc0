// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by the HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": {"status": "ok", "sessions": 3, "online": 2, "messages": 17},
//	  "metadata": {"timestamp": "2026-01-28T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - RATE_LIMIT_EXCEEDED: Too many upgrade attempts from one address
//   - NOT_READY: Service is shutting down
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the readiness probe.
type HealthStatus struct {
	Status        string  `json:"status"`
	Sessions      int     `json:"sessions"`
	Online        int     `json:"online"`
	Messages      int     `json:"messages"`
	Connections   int     `json:"connections"`
	RadiusKm      float64 `json:"radius_km"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ClientConfig is the connection policy browsers fetch before opening /ws.
type ClientConfig struct {
	WebSocketPath        string  `json:"ws_path"`
	RadiusKm             float64 `json:"radius_km"`
	PingIntervalSeconds  int     `json:"ping_interval"`
	PongTimeoutSeconds   int     `json:"pong_timeout"`
	MaxReconnectAttempts int     `json:"max_reconnect_attempts"`
}
