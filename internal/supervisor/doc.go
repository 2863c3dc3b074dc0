// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package supervisor provides process supervision for Geochat using suture v4.

# Overview

Services are organized into three layers for failure isolation:

	RootSupervisor ("geochat")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	├── ExportSupervisor ("export-layer")
	│   └── NATSExportService (if NATS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing export layer is restarted on its own without touching live
WebSocket connections.

# Usage Example

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

# Service Interface

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return error: the service crashed and will be restarted with backoff
  - Context canceled: shutdown requested, return promptly

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog into the zerolog pipeline.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()

lists services that ignored cancellation past ShutdownTimeout.
*/
package supervisor
