// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

// Package events exports stored chat messages to a NATS subject so external
// consumers (archivers, moderation tools) can follow the conversation.
//
// Export is best effort and one-way. It never takes part in delivering
// messages to chat clients; a broker outage only costs exported copies. A
// gobreaker circuit breaker stops the chat path from waiting on a broker that
// keeps failing.
//
// Components:
//   - Publisher: interface used by the chat service
//   - NopPublisher: default when export is disabled
//   - NATSPublisher: publishes JSON-encoded models.ChatMessage values
//   - EmbeddedServer: optional in-process NATS server for single-node setups
//
// Wire format on the subject is the same JSON object sent to WebSocket
// clients inside new_message frames.
package events
