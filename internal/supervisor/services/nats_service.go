// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package services

import (
	"context"
	"time"

	"github.com/tomtom215/geochat/internal/logging"
)

// ExportPublisher matches *events.NATSPublisher's lifecycle.
type ExportPublisher interface {
	Close() error
}

// EmbeddedBroker matches *events.EmbeddedServer's lifecycle.
type EmbeddedBroker interface {
	Shutdown(ctx context.Context) error
}

// NATSExportService owns the lifetime of the message export path.
//
// The publisher and the optional embedded broker are created before the
// tree starts, because the chat service needs the publisher at construction.
// This service only tears them down, in order, when the tree stops:
//
//  1. Drain and close the publisher, flushing pending exports
//  2. Shut down the embedded broker, if any
type NATSExportService struct {
	publisher       ExportPublisher
	broker          EmbeddedBroker
	shutdownTimeout time.Duration
	name            string
}

// NewNATSExportService creates the service. broker may be nil when an
// external NATS server is used.
func NewNATSExportService(publisher ExportPublisher, broker EmbeddedBroker, shutdownTimeout time.Duration) *NATSExportService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSExportService{
		publisher:       publisher,
		broker:          broker,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-export",
	}
}

// Serve implements suture.Service. It blocks until ctx is canceled.
func (s *NATSExportService) Serve(ctx context.Context) error {
	<-ctx.Done()

	log := logging.WithComponent(s.name)

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("closing export publisher")
		}
	}

	if s.broker != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.broker.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutting down embedded NATS server")
		}
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *NATSExportService) String() string {
	return s.name
}
