// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

/*
Package websocket is the transport for Geochat: it upgrades /ws requests with
gorilla/websocket and connects each socket to a chat.Conn.

Key Components:

  - Hub: tracks live sockets so that shutdown can close all of them
  - Client: one socket, with a read pump and a write pump, implementing registry.Peer
  - Handler: the http.Handler for /ws, including the origin check

Each client has two goroutines:
  - readPump: reads text frames, applies the per-connection rate limit and
    hands each frame to chat.Conn.HandleFrame
  - writePump: drains the buffered send channel and sends pings

Sends never block. A frame is dropped with a TransportError when the client's
buffer is full, which isolates slow readers from broadcasts.

Heartbeat:

The server pings every PingInterval. A client that sends nothing (not even a
pong) for PingInterval+PongTimeout is disconnected, and its sessions are
released.

Usage Example - Client (JavaScript):

	const ws = new WebSocket('ws://localhost:8000/ws');
	ws.onopen = () => ws.send(JSON.stringify({type: 'connect', username: 'alice', lat: 0, lon: 0}));
	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);
	    if (msg.type === 'connected') localStorage.setItem('client_id', msg.client_id);
	};
*/
package websocket
