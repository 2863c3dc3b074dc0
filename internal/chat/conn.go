// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/geochat/internal/logging"
	"github.com/tomtom215/geochat/internal/metrics"
	"github.com/tomtom215/geochat/internal/models"
	"github.com/tomtom215/geochat/internal/protocol"
	"github.com/tomtom215/geochat/internal/registry"
)

// State is the lifecycle state of a Conn.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrConnClosed is returned by HandleFrame after Close.
var ErrConnClosed = errors.New("connection closed")

// Conn is the per-connection event loop state.
type Conn struct {
	svc  *Service
	peer registry.Peer

	mu    sync.Mutex
	state State
	bound map[models.ClientID]struct{}
}

// NewConn creates a Conn that replies through peer.
func (s *Service) NewConn(peer registry.Peer) *Conn {
	return &Conn{
		svc:   s,
		peer:  peer,
		state: StateConnecting,
		bound: make(map[models.ClientID]struct{}),
	}
}

// Open marks the transport as accepted.
func (c *Conn) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateConnecting {
		c.state = StateOpen
	}
}

// State returns the current state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandleFrame processes one inbound frame. A non-nil error means the
// connection must be closed.
func (c *Conn) HandleFrame(ctx context.Context, raw []byte) error {
	if c.State() != StateOpen {
		return ErrConnClosed
	}

	start := time.Now()

	ev, err := protocol.Decode(raw)
	if err != nil {
		return c.finish(ctx, "invalid", err, start)
	}

	logging.Ctx(ctx).Debug().Str("type", string(ev.Type())).Msg("frame received")

	return c.finish(ctx, string(ev.Type()), c.dispatch(ctx, ev), start)
}

func (c *Conn) dispatch(ctx context.Context, ev protocol.Event) error {
	switch e := ev.(type) {
	case *protocol.Connect:
		return c.handleConnect(ctx, e)
	case *protocol.UpdateUser:
		return c.handleUpdateUser(ctx, e)
	case *protocol.SentLocation:
		return c.handleSentLocation(ctx, e)
	case *protocol.SentMessage:
		return c.svc.broadcast(ctx, e)
	case *protocol.HistoryRequest:
		return c.handleHistory(ctx, e)
	case *protocol.Disconnect:
		return c.handleDisconnect(ctx, e)
	default:
		return &protocol.UnknownTypeError{Type: string(ev.Type())}
	}
}

// finish records the outcome and reports recoverable errors to the client.
func (c *Conn) finish(ctx context.Context, eventType string, err error, start time.Time) error {
	if err == nil {
		metrics.RecordChatEvent(eventType, "ok", time.Since(start))
		return nil
	}

	kind := protocol.Kind(err)
	metrics.RecordChatEvent(eventType, kind, time.Since(start))
	metrics.RecordWSError(kind)
	log := logging.Ctx(ctx)

	var transportErr *protocol.TransportError
	if errors.As(err, &transportErr) {
		log.Error().Err(err).Str("type", eventType).Msg("reply to client failed")
		return err
	}

	// Best effort for fatal errors; required for recoverable ones.
	sendErr := c.peer.Send(protocol.ErrorFor(err))

	if protocol.IsFatal(err) {
		log.Error().Err(err).Str("type", eventType).Msg("closing connection")
		return err
	}

	log.Warn().Err(err).Str("type", eventType).Msg("event rejected")
	if sendErr != nil {
		return transportError("error reply", sendErr)
	}
	return nil
}

func (c *Conn) reply(frame any) error {
	if err := c.peer.Send(frame); err != nil {
		return transportError("reply", err)
	}
	return nil
}

func transportError(op string, err error) error {
	var transportErr *protocol.TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	return &protocol.TransportError{Op: op, Err: err}
}

func (c *Conn) bind(id models.ClientID) {
	c.mu.Lock()
	c.bound[id] = struct{}{}
	c.mu.Unlock()
}

func (c *Conn) unbind(id models.ClientID) {
	c.mu.Lock()
	delete(c.bound, id)
	c.mu.Unlock()
}

// Close releases every session still bound to this connection. Safe to
// call more than once.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateClosed
	ids := make([]models.ClientID, 0, len(c.bound))
	for id := range c.bound {
		ids = append(ids, id)
	}
	c.bound = make(map[models.ClientID]struct{})
	c.mu.Unlock()

	released := 0
	for _, id := range ids {
		if c.svc.registry.Release(id, c.peer) {
			released++
		}
	}
	if released > 0 {
		logging.Debug().Int("sessions", released).Uint64("peer", c.peer.ID()).Msg("released sessions on close")
		c.svc.updateSessionGauge()
	}
}
