// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

// Package logging provides the zerolog-based structured logger shared by every
// Geochat component.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("client_id", id).Msg("client connected")
//	logging.Error().Err(err).Msg("broadcast failed")
//
//	// Per-connection logger carrying request, correlation and client IDs
//	logging.Ctx(ctx).Debug().Str("type", "sent_message").Msg("frame received")
//
// # Configuration
//
// Environment Variables (read through internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Suture integration
//
// The supervisor tree logs through log/slog. NewSlogLogger returns an
// slog.Logger whose handler writes to the global zerolog logger so that
// supervisor events end up in the same stream as everything else.
package logging
