// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"radius zero", func(c *Config) { c.Chat.RadiusMeters = 0 }, "CHAT_RADIUS"},
		{"radius too large", func(c *Config) { c.Chat.RadiusMeters = 2_000_000 }, "CHAT_RADIUS"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "PORT"},
		{"ping zero", func(c *Config) { c.WebSocket.PingInterval = 0 }, "PING_INTERVAL"},
		{"pong zero", func(c *Config) { c.WebSocket.PongTimeout = 0 }, "PONG_TIMEOUT"},
		{"negative reconnects", func(c *Config) { c.WebSocket.MaxReconnectAttempts = -1 }, "MAX_RECONNECT_ATTEMPTS"},
		{"tiny message size", func(c *Config) { c.WebSocket.MaxMessageSize = 10 }, "MAX_MESSAGE_SIZE"},
		{"no send buffer", func(c *Config) { c.WebSocket.SendBuffer = 0 }, "WS_SEND_BUFFER"},
		{"rate without burst", func(c *Config) { c.WebSocket.RateLimitBurst = 0 }, "WS_RATE_BURST"},
		{"rate limit off needs no burst", func(c *Config) {
			c.WebSocket.RateLimitPerSecond = 0
			c.WebSocket.RateLimitBurst = 0
		}, ""},
		{"empty cors", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"rate limit window too short", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit disabled skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"nats bad scheme", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.URL = "http://localhost:4222"
		}, "NATS_URL"},
		{"nats cluster urls", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.URL = "nats://a:4222, nats://b:4222"
		}, ""},
		{"nats embedded ignores url", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.EmbeddedServer = true
			c.NATS.URL = ""
		}, ""},
		{"nats no subject", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.Subject = ""
		}, "NATS_SUBJECT"},
		{"nats breaker threshold", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.BreakerFailureThreshold = 0
		}, "NATS_BREAKER_FAILURE_THRESHOLD"},
		{"disabled nats not validated", func(c *Config) { c.NATS.URL = "garbage" }, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestHasWildcardCORS(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.HasWildcardCORS() {
		t.Error("default CORS should be wildcard")
	}
	cfg.Security.CORSOrigins = []string{"https://chat.example.com"}
	if cfg.HasWildcardCORS() {
		t.Error("explicit origin reported as wildcard")
	}
}
