// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package chat

import (
	"context"
	"time"

	"github.com/tomtom215/geochat/internal/events"
	"github.com/tomtom215/geochat/internal/logging"
	"github.com/tomtom215/geochat/internal/metrics"
	"github.com/tomtom215/geochat/internal/models"
	"github.com/tomtom215/geochat/internal/protocol"
	"github.com/tomtom215/geochat/internal/registry"
)

// Service holds the state shared by all connections.
type Service struct {
	registry  *registry.Registry
	publisher events.Publisher
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher exports every stored message through p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service backed by reg.
func NewService(reg *registry.Registry, opts ...Option) *Service {
	s := &Service{
		registry:  reg,
		publisher: events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the session registry.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Stats returns current registry counters.
func (s *Service) Stats() registry.Stats {
	return s.registry.Stats()
}

// broadcast stores a message and pushes it to every nearby online client
// except the sender. Sends happen after the registry lock is released.
func (s *Service) broadcast(ctx context.Context, ev *protocol.SentMessage) error {
	msg, recipients, err := s.registry.AppendMessage(ev.ID(), ev.Content, ev.Point(), s.now())
	if err != nil {
		return &protocol.NotFoundError{ClientID: ev.ID()}
	}

	log := logging.Ctx(ctx)

	frame, err := protocol.Encode(protocol.NewMessage(msg))
	if err != nil {
		return err
	}
	raw := protocol.Raw(frame)

	failures := 0
	for _, peer := range recipients {
		if sendErr := peer.Send(raw); sendErr != nil {
			failures++
			log.Debug().Err(sendErr).Uint64("peer", peer.ID()).Msg("skipping broadcast recipient")
		}
	}
	metrics.RecordBroadcast(len(recipients), failures)

	log.Debug().
		Int("recipients", len(recipients)).
		Int("failed", failures).
		Msg("message broadcast")

	s.export(ctx, msg)
	return nil
}

func (s *Service) export(ctx context.Context, msg models.ChatMessage) {
	if err := s.publisher.Publish(ctx, msg); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("message export failed")
	}
}

func (s *Service) updateSessionGauge() {
	metrics.SetSessions(s.registry.Len())
}
