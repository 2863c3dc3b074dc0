// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package api provides the HTTP surface of Geochat, routed with chi.

Routes:

  - GET /ws: WebSocket upgrade (per-IP httprate limit)
  - GET /api/v1/health/live: liveness probe
  - GET /api/v1/health/ready: readiness probe with session and connection counts
  - GET /api/v1/client-config: heartbeat and reconnect policy for browsers
  - GET /metrics: Prometheus exposition

Global middleware runs in this order: request ID with logging context, RealIP,
Recoverer, CORS. The JSON routes add security headers, Prometheus request
metrics and compression.

JSON responses use the models.APIResponse envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"..."}}

Usage Example:

	handler := api.NewHandler(svc, hub, clientConfig)
	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg), websocket.NewHandler(hub, svc, wsCfg))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
