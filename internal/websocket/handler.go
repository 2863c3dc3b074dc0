// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package websocket

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/geochat/internal/chat"
	"github.com/tomtom215/geochat/internal/logging"
)

// Handler upgrades HTTP requests on /ws into chat connections.
type Handler struct {
	hub      *Hub
	svc      *chat.Service
	cfg      Config
	upgrader websocket.Upgrader
}

// NewHandler creates the /ws endpoint handler.
func NewHandler(hub *Hub, svc *chat.Service, cfg Config) *Handler {
	h := &Handler{hub: hub, svc: svc, cfg: cfg}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// The request context ends when ServeHTTP returns; keep its values only.
	ctx := logging.ContextWithNewCorrelationID(context.WithoutCancel(r.Context()))

	client := NewClient(ctx, h.hub, conn, h.svc, h.cfg)
	if !h.hub.register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	logging.Ctx(ctx).Debug().Uint64("conn", client.ID()).Str("remote", r.RemoteAddr).Msg("websocket connection accepted")
	client.Start()
}

// checkOrigin allows any origin when the allow-list contains "*". Otherwise
// the Origin header must match an entry exactly.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" {
			return true
		}
		if origin != "" && strings.EqualFold(allowed, origin) {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeOrigin(origin)).Msg("websocket connection rejected from unauthorized origin")
	return false
}

// sanitizeOrigin strips control characters to keep log lines intact.
func sanitizeOrigin(origin string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, origin)
}
