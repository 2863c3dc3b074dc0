// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package events

import (
	"context"

	"github.com/tomtom215/geochat/internal/models"
)

// DefaultSubject is the NATS subject stored chat messages are published to.
const DefaultSubject = "geochat.messages"

// Publisher hands stored chat messages to an external system.
type Publisher interface {
	Publish(ctx context.Context, msg models.ChatMessage) error
	Close() error
}

// NopPublisher discards every message.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, models.ChatMessage) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
