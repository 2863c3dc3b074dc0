// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package main is the entry point for the Geochat server.

Geochat relays short chat messages between WebSocket clients that are within
a fixed great-circle radius of each other. Sessions and message history live
in memory for the lifetime of the process.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("geochat")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub
	├── ExportSupervisor ("export-layer")
	│   └── NATS export (optional, NATS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (/ws, /api/v1/*, /metrics)

Startup order:

 1. Configuration: Koanf v2 with defaults, an optional YAML file and environment variables
 2. Logging: zerolog, configured from LOG_LEVEL, LOG_FORMAT and LOG_CALLER
 3. NATS export (optional): embedded server and/or publisher with a circuit breaker
 4. Chat service: session registry bound to CHAT_RADIUS
 5. WebSocket hub and upgrade handler
 6. HTTP server: Chi router with CORS, request IDs and upgrade rate limiting

# Graceful Shutdown

SIGINT and SIGTERM cancel the root context. The HTTP service marks readiness
as draining, stops accepting connections and closes open WebSocket clients with
a going-away frame. The export service then flushes and closes the NATS
connection before the embedded broker, if any, is stopped.

# Configuration

Settings are read from (highest priority wins):
  - Environment variables (CHAT_RADIUS, HOST, PORT, PING_INTERVAL, ...)
  - A config file named by CONFIG_PATH or found in the default search paths
  - Built-in defaults

Usage:

	CHAT_RADIUS=500 PORT=8000 ./geochat
*/
package main
