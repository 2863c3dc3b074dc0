// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package metrics provides Prometheus instrumentation for Geochat.

All collectors are registered with the default registry through promauto and
served by promhttp at /metrics.

Metric Families:

	websocket_connections                    gauge
	websocket_messages_{sent,received}_total counter
	websocket_errors_total{error_type}       counter
	chat_sessions                            gauge
	chat_events_total{type,outcome}          counter
	chat_event_duration_seconds{type}        histogram
	chat_messages_stored_total               counter
	chat_broadcast_recipients                histogram
	chat_broadcast_failures_total            counter
	chat_history_results                     histogram
	api_requests_total{method,endpoint,status_code}
	api_request_duration_seconds{method,endpoint}
	export_messages_total{result}            counter
	circuit_breaker_state{name}              gauge

Example PromQL:

	# Average broadcast fan-out over 5 minutes
	rate(chat_broadcast_recipients_sum[5m]) / rate(chat_broadcast_recipients_count[5m])

	# Validation errors per second
	rate(chat_events_total{outcome="validation"}[1m])
*/
package metrics
