// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package services provides suture.Service wrappers for Geochat components.

Each wrapper adapts a component's lifecycle (ListenAndServe, RunWithContext,
Close/Shutdown) to suture's context-aware Serve and names itself via
fmt.Stringer for supervisor logs.

  - HTTPServerService: *http.Server with graceful shutdown and a readiness hook
  - WebSocketHubService: *websocket.Hub
  - NATSExportService: tears down the export publisher and embedded broker

The wrappers depend on small interfaces rather than concrete packages, so
they can be tested with fakes and do not import websocket or events.
*/
package services
