// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - WebSocket transport
// - Chat events, broadcast fan-out and history queries
// - HTTP endpoints
// - Message export and its circuit breaker

var (
	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"}, // decode, validation, not_found, unknown_type, transport, rate_limit, send_buffer_full
	)

	// Chat Metrics
	ChatSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_sessions",
			Help: "Current number of locatable chat sessions",
		},
	)

	ChatEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_events_total",
			Help: "Total number of chat events processed by type and outcome",
		},
		[]string{"type", "outcome"}, // outcome: "ok" or an error kind
	)

	ChatEventDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_event_duration_seconds",
			Help:    "Time spent handling one chat event",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.1},
		},
		[]string{"type"},
	)

	ChatMessagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_stored_total",
			Help: "Total number of chat messages appended to history",
		},
	)

	ChatBroadcastRecipients = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_broadcast_recipients",
			Help:    "Number of recipients per broadcast chat message",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	ChatBroadcastFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_broadcast_failures_total",
			Help: "Total number of recipients skipped because their send failed",
		},
	)

	ChatHistoryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_history_results",
			Help:    "Number of messages returned per history query",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Export Metrics
	ExportPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_messages_total",
			Help: "Chat messages handed to the export broker by result",
		},
		[]string{"result"}, // "published", "failed", "rejected"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordChatEvent records one handled event. outcome is "ok" or an error kind.
func RecordChatEvent(eventType, outcome string, duration time.Duration) {
	ChatEventsTotal.WithLabelValues(eventType, outcome).Inc()
	ChatEventDuration.WithLabelValues(eventType).Observe(duration.Seconds())
}

// RecordBroadcast records one fan-out of a stored chat message.
func RecordBroadcast(recipients, failures int) {
	ChatMessagesStored.Inc()
	ChatBroadcastRecipients.Observe(float64(recipients))
	if failures > 0 {
		ChatBroadcastFailures.Add(float64(failures))
	}
}

// RecordHistoryQuery records the size of a history reply.
func RecordHistoryQuery(results int) {
	ChatHistoryResults.Observe(float64(results))
}

// SetSessions updates the session gauge.
func SetSessions(n int) {
	ChatSessions.Set(float64(n))
}

// RecordWSError counts a WebSocket-level error by kind.
func RecordWSError(kind string) {
	WSErrors.WithLabelValues(kind).Inc()
}

// RecordExport counts one export attempt.
func RecordExport(result string) {
	ExportPublished.WithLabelValues(result).Inc()
}

// RecordCircuitBreakerTransition updates breaker state metrics. state is
// 0 (closed), 1 (half-open) or 2 (open).
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
