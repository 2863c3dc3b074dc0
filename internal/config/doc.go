// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package config loads Geochat configuration with Koanf v2.

# Configuration Sources

Sources are layered, later ones winning:
  - Built-in defaults (structs provider)
  - An optional YAML file: $CONFIG_PATH, ./config.yaml, or /etc/geochat/config.yaml
  - Environment variables, through an explicit name mapping

# Environment Variables

Chat:
  - CHAT_RADIUS: proximity radius in meters (default: 1000)

HTTP Server:
  - HOST: bind address (default: 0.0.0.0)
  - PORT: listen port (default: 8000)
  - HTTP_TIMEOUT, SHUTDOWN_TIMEOUT

WebSocket:
  - PING_INTERVAL: seconds between server pings (default: 30)
  - PONG_TIMEOUT: seconds a client has to answer (default: 10)
  - MAX_RECONNECT_ATTEMPTS: advertised to clients (default: 5)
  - MAX_MESSAGE_SIZE, WS_SEND_BUFFER, WS_RATE_LIMIT, WS_RATE_BURST

Security:
  - CORS_ORIGINS: comma-separated allow-list (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

NATS export:
  - NATS_ENABLED, NATS_URL, NATS_SUBJECT
  - NATS_EMBEDDED, NATS_EMBEDDED_HOST, NATS_EMBEDDED_PORT
  - NATS_MAX_RECONNECTS, NATS_RECONNECT_WAIT
  - NATS_BREAKER_FAILURE_THRESHOLD, NATS_BREAKER_TIMEOUT, NATS_BREAKER_INTERVAL, NATS_BREAKER_MAX_REQUESTS

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	radius := geo.NewRadius(cfg.Chat.RadiusMeters)

Config is immutable after Load and safe for concurrent reads.
*/
package config
