// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

// Package chat dispatches decoded WebSocket events to their handlers and fans
// chat messages out to nearby clients.
//
// A Service is shared by every connection. Each transport connection gets its
// own Conn, a small state machine (connecting, open, closed) that remembers
// which ClientIDs it bound so they can be released when the transport goes
// away.
//
// # Event handling
//
//	connect               register or reuse the username's ClientID, reply connected
//	update_user           overwrite username and position, reply users_in_range
//	sent_location         overwrite position, reply users_in_range without the caller
//	sent_message          store the message, push new_message to nearby online clients
//	get_history_messages  reply messages_history for the query point
//	disconnect            drop the session, no reply, transport stays open
//
// # Errors
//
// Validation, unknown type and not-found failures are answered with an error
// frame and the connection keeps going. Decode failures and failures to reply
// to the requesting connection are returned from HandleFrame; the transport
// closes the connection when that happens. A failed send to a broadcast
// recipient only skips that recipient.
package chat
