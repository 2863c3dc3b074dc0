// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/geochat/internal/chat"
	"github.com/tomtom215/geochat/internal/logging"
	"github.com/tomtom215/geochat/internal/metrics"
	"github.com/tomtom215/geochat/internal/protocol"
)

// Config holds transport settings.
type Config struct {
	PingInterval   time.Duration
	PongTimeout    time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBuffer     int
	RateLimit      float64 // frames per second, 0 disables
	RateBurst      int
	AllowedOrigins []string
}

// DefaultConfig mirrors the documented defaults: a ping every 30s and 10s to
// answer it.
func DefaultConfig() Config {
	return Config{
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     256,
		RateLimit:      20,
		RateBurst:      40,
		AllowedOrigins: []string{"*"},
	}
}

// pongWait is how long the read side waits for any frame or pong.
func (c Config) pongWait() time.Duration {
	return c.PingInterval + c.PongTimeout
}

// clientIDCounter generates unique, monotonically increasing connection IDs.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and the chat service.
// It implements registry.Peer.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	cfg  Config
	ctx  context.Context

	chat    *chat.Conn
	limiter *rate.Limiter

	sendMu sync.RWMutex
	send   chan []byte
	closed bool
}

// NewClient creates a new Client with a unique ID.
func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, svc *chat.Service, cfg Config) *Client {
	c := &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		cfg:  cfg,
		ctx:  ctx,
		send: make(chan []byte, cfg.SendBuffer),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	c.chat = svc.NewConn(c)
	return c
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// Send queues frame for the write pump. It never blocks: a full buffer or a
// closed client yields a *protocol.TransportError.
func (c *Client) Send(frame any) error {
	var data []byte
	if raw, ok := frame.(protocol.Raw); ok {
		data = raw
	} else {
		encoded, err := protocol.Encode(frame)
		if err != nil {
			return &protocol.TransportError{Op: "encode", Err: err}
		}
		data = encoded
	}

	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	if c.closed {
		return &protocol.TransportError{Op: "send", Err: protocol.ErrPeerClosed}
	}
	select {
	case c.send <- data:
		return nil
	default:
		metrics.RecordWSError("send_buffer_full")
		return &protocol.TransportError{Op: "send", Err: protocol.ErrSendBufferFull}
	}
}

// closeSend closes the send channel once; the write pump then sends a close
// frame.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump pumps frames from the websocket connection to the chat service.
func (c *Client) readPump() {
	// The write pump owns closing the socket so queued frames (including a
	// final error frame) are flushed first.
	defer func() {
		c.chat.Close()
		c.hub.unregister(c)
		c.closeSend()
	}()

	log := logging.Ctx(c.ctx)
	pongWait := c.cfg.pongWait()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		if c.limiter != nil && !c.limiter.Allow() {
			metrics.RecordWSError("rate_limit")
			if err := c.Send(protocol.ErrorFor(&protocol.RateLimitError{})); err != nil {
				return
			}
			continue
		}

		if err := c.chat.HandleFrame(c.ctx, data); err != nil {
			log.Debug().Err(err).Msg("closing connection after fatal error")
			return
		}
	}
}

// writePump pumps queued frames to the websocket connection and keeps it
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Explicitly ignore error - best-effort cleanup
	}()

	log := logging.Ctx(c.ctx)

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Msg("failed to write message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start opens the chat connection and begins reading and writing.
func (c *Client) Start() {
	c.chat.Open()
	go c.writePump()
	go c.readPump()
}
