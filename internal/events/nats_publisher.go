// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/geochat/internal/logging"
	"github.com/tomtom215/geochat/internal/metrics"
	"github.com/tomtom215/geochat/internal/models"
)

// NATSConfig configures the NATS export publisher.
type NATSConfig struct {
	URL           string
	Subject       string
	ClientName    string
	MaxReconnects int
	ReconnectWait time.Duration
	Breaker       CircuitBreakerConfig
}

// NATSPublisher publishes stored chat messages to a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewNATSPublisher connects to cfg.URL. The connection retries in the
// background, so a broker that is down at startup does not fail the process.
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.ClientName == "" {
		cfg.ClientName = "geochat"
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = DefaultCircuitBreakerConfig("nats-export")
	}

	log := logging.WithComponent("nats-export")

	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("disconnected from NATS")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("reconnected to NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{
		conn:    nc,
		subject: cfg.Subject,
		breaker: NewCircuitBreaker[struct{}](cfg.Breaker),
	}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, msg models.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode chat message: %w", err)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.conn.Publish(p.subject, data)
	})
	switch {
	case err == nil:
		metrics.RecordExport("published")
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordExport("rejected")
		return fmt.Errorf("export %s: %w", p.subject, err)
	default:
		metrics.RecordExport("failed")
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
}

// Subject returns the subject messages are published to.
func (p *NATSPublisher) Subject() string {
	return p.subject
}

// BreakerState returns the current circuit breaker state.
func (p *NATSPublisher) BreakerState() gobreaker.State {
	return p.breaker.State()
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	return nil
}
