// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package models defines the data structures shared by Geochat components.

Chat Models:
  - ClientID: opaque identifier of one logical chat participant
  - Session: a participant's current username and position
  - ChatMessage: an immutable chat message as stored and broadcast
  - NearbyUser: one entry of a users_in_range reply

API Models:
  - APIResponse: standard wrapper for the HTTP endpoints
  - HealthStatus: registry counters reported by the readiness probe
  - ClientConfig: reconnect and heartbeat policy handed to browsers

JSON field names follow the WebSocket wire format (snake_case). Timestamps on
chat messages are integer milliseconds since the Unix epoch.
*/
package models
