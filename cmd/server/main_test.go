// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/geochat/internal/config"
	"github.com/tomtom215/geochat/internal/geo"
	"github.com/tomtom215/geochat/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
	m.Run()
}

func testConfig() *config.Config {
	return &config.Config{
		Chat: config.ChatConfig{RadiusMeters: 2500},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		WebSocket: config.WebSocketConfig{
			PingInterval:         15,
			PongTimeout:          5,
			MaxReconnectAttempts: 3,
			MaxMessageSize:       4096,
			SendBuffer:           16,
			RateLimitPerSecond:   2,
			RateLimitBurst:       4,
		},
		Security: config.SecurityConfig{
			CORSOrigins:     []string{"https://example.com"},
			RateLimitReqs:   10,
			RateLimitWindow: time.Minute,
		},
		NATS: config.NATSConfig{
			URL:                     "nats://127.0.0.1:4222",
			Subject:                 "geochat.test",
			EmbeddedHost:            "127.0.0.1",
			EmbeddedPort:            -1,
			MaxReconnects:           -1,
			ReconnectWait:           time.Second,
			BreakerFailureThreshold: 7,
			BreakerTimeout:          20 * time.Second,
			BreakerInterval:         40 * time.Second,
			BreakerMaxRequests:      2,
		},
	}
}

func TestWebsocketConfig(t *testing.T) {
	wc := websocketConfig(testConfig())

	if wc.PingInterval != 15*time.Second || wc.PongTimeout != 5*time.Second {
		t.Errorf("heartbeat = %v/%v, want 15s/5s", wc.PingInterval, wc.PongTimeout)
	}
	if wc.MaxMessageSize != 4096 || wc.SendBuffer != 16 {
		t.Errorf("limits = %d/%d", wc.MaxMessageSize, wc.SendBuffer)
	}
	if wc.RateLimit != 2 || wc.RateBurst != 4 {
		t.Errorf("rate = %v/%d", wc.RateLimit, wc.RateBurst)
	}
	if len(wc.AllowedOrigins) != 1 || wc.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("AllowedOrigins = %v", wc.AllowedOrigins)
	}
	if wc.WriteWait <= 0 {
		t.Error("WriteWait should keep its default")
	}
}

func TestClientConfig(t *testing.T) {
	cfg := testConfig()
	cc := clientConfig(cfg, geo.NewRadius(cfg.Chat.RadiusMeters))

	if cc.WebSocketPath != "/ws" {
		t.Errorf("WebSocketPath = %q", cc.WebSocketPath)
	}
	if cc.RadiusKm != 2.5 {
		t.Errorf("RadiusKm = %v, want 2.5", cc.RadiusKm)
	}
	if cc.PingIntervalSeconds != 15 || cc.PongTimeoutSeconds != 5 || cc.MaxReconnectAttempts != 3 {
		t.Errorf("unexpected client config %+v", cc)
	}
}

func TestChiMiddlewareConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = true
	mc := chiMiddlewareConfig(cfg)

	if mc.RateLimitRequests != 10 || mc.RateLimitWindow != time.Minute || !mc.RateLimitDisabled {
		t.Errorf("rate limit = %d/%v/%v", mc.RateLimitRequests, mc.RateLimitWindow, mc.RateLimitDisabled)
	}
	if len(mc.CORSAllowedMethods) == 0 {
		t.Error("CORS methods should keep their defaults")
	}
}

func TestNATSConfig(t *testing.T) {
	nc := natsConfig(testConfig(), "nats://broker:4222")

	if nc.URL != "nats://broker:4222" || nc.Subject != "geochat.test" {
		t.Errorf("URL/Subject = %q/%q", nc.URL, nc.Subject)
	}
	b := nc.Breaker
	if b.FailureThreshold != 7 || b.MaxRequests != 2 || b.Timeout != 20*time.Second || b.Interval != 40*time.Second {
		t.Errorf("breaker = %+v", b)
	}
}

func TestInitExportDisabled(t *testing.T) {
	ec, err := initExport(testConfig())
	if err != nil {
		t.Fatalf("initExport: %v", err)
	}
	if ec != nil {
		t.Fatal("expected no export components when NATS is disabled")
	}
}

func TestInitExportEmbedded(t *testing.T) {
	cfg := testConfig()
	cfg.NATS.Enabled = true
	cfg.NATS.EmbeddedServer = true

	ec, err := initExport(cfg)
	if err != nil {
		t.Fatalf("initExport: %v", err)
	}
	if ec.broker == nil || ec.publisher == nil {
		t.Fatal("expected broker and publisher")
	}
	if ec.url != ec.broker.ClientURL() {
		t.Errorf("publisher url = %q, broker url = %q", ec.url, ec.broker.ClientURL())
	}

	if err := ec.publisher.Close(); err != nil {
		t.Errorf("publisher close: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ec.broker.Shutdown(ctx); err != nil {
		t.Errorf("broker shutdown: %v", err)
	}
}

func TestEmbeddedBrokerNilIsUntyped(t *testing.T) {
	ec := &exportComponents{}
	if ec.embeddedBroker() != nil {
		t.Fatal("expected an untyped nil broker")
	}
}
