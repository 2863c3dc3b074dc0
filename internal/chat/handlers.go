// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package chat

import (
	"context"

	"github.com/tomtom215/geochat/internal/logging"
	"github.com/tomtom215/geochat/internal/metrics"
	"github.com/tomtom215/geochat/internal/protocol"
)

func (c *Conn) handleConnect(ctx context.Context, ev *protocol.Connect) error {
	reg := c.svc.registry

	id, reused := reg.RegisterOrReuse(ev.Username, ev.Point(), c.peer)
	c.bind(id)
	c.svc.updateSessionGauge()

	if err := c.reply(protocol.Connected(id)); err != nil {
		// The client never learned its id; do not leave a session behind.
		reg.Release(id, c.peer)
		c.unbind(id)
		c.svc.updateSessionGauge()
		return err
	}

	logging.Ctx(logging.ContextWithClientID(ctx, id.String())).Info().
		Str("username", ev.Username).
		Bool("reused", reused).
		Msg("client connected")
	return nil
}

func (c *Conn) handleUpdateUser(ctx context.Context, ev *protocol.UpdateUser) error {
	p := ev.Point()
	if created := c.svc.registry.UpdateUser(ev.ID(), ev.Username, p, c.peer); created {
		logging.Ctx(ctx).Info().Str("client_id", ev.ClientID).Msg("session created by update_user")
		c.svc.updateSessionGauge()
	}
	c.bind(ev.ID())

	return c.reply(protocol.UsersInRange(c.svc.registry.UsersInRange(p, "")))
}

func (c *Conn) handleSentLocation(ctx context.Context, ev *protocol.SentLocation) error {
	p := ev.Point()
	if created := c.svc.registry.UpdateLocation(ev.ID(), p, c.peer); created {
		logging.Ctx(ctx).Info().Str("client_id", ev.ClientID).Msg("session created by sent_location")
		c.svc.updateSessionGauge()
	}
	c.bind(ev.ID())

	return c.reply(protocol.UsersInRange(c.svc.registry.UsersInRange(p, ev.ID())))
}

func (c *Conn) handleHistory(ctx context.Context, ev *protocol.HistoryRequest) error {
	msgs := c.svc.registry.QueryNear(ev.Point())
	metrics.RecordHistoryQuery(len(msgs))
	logging.Ctx(ctx).Debug().Str("client_id", ev.ClientID).Int("messages", len(msgs)).Msg("history requested")

	return c.reply(protocol.MessagesHistory(msgs))
}

func (c *Conn) handleDisconnect(ctx context.Context, ev *protocol.Disconnect) error {
	removed := c.svc.registry.Disconnect(ev.ID())
	c.unbind(ev.ID())
	if removed {
		c.svc.updateSessionGauge()
	}

	logging.Ctx(ctx).Info().Str("client_id", ev.ClientID).Bool("removed", removed).Msg("client disconnected")
	return nil
}
