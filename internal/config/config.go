// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Chat      ChatConfig      `koanf:"chat"`
	Server    ServerConfig    `koanf:"server"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
	NATS      NATSConfig      `koanf:"nats"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ChatConfig holds proximity chat settings.
//
// Environment Variables:
//   - CHAT_RADIUS: broadcast and history radius in meters (default: 1000)
type ChatConfig struct {
	RadiusMeters int `koanf:"radius_m"`
}

// ServerConfig holds HTTP listener settings.
//
// Environment Variables:
//   - HOST: bind address (default: 0.0.0.0)
//   - PORT: listen port (default: 8000)
//   - HTTP_TIMEOUT: read/write timeout for plain HTTP requests (default: 30s)
//   - SHUTDOWN_TIMEOUT: grace period for in-flight requests (default: 10s)
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// WebSocketConfig holds transport settings. Ping and pong values are whole
// seconds to match the variables clients are given.
type WebSocketConfig struct {
	// PingInterval is how often the server pings each client, in seconds.
	PingInterval int `koanf:"ping_interval"`

	// PongTimeout is how long a client has to answer a ping, in seconds.
	PongTimeout int `koanf:"pong_timeout"`

	// MaxReconnectAttempts is advertised to clients via /api/v1/client-config.
	MaxReconnectAttempts int `koanf:"max_reconnect_attempts"`

	MaxMessageSize     int64   `koanf:"max_message_size"`
	SendBuffer         int     `koanf:"send_buffer"`
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`
	RateLimitBurst     int     `koanf:"rate_limit_burst"`
}

// PingIntervalDuration returns PingInterval as a time.Duration.
func (w WebSocketConfig) PingIntervalDuration() time.Duration {
	return time.Duration(w.PingInterval) * time.Second
}

// PongTimeoutDuration returns PongTimeout as a time.Duration.
func (w WebSocketConfig) PongTimeoutDuration() time.Duration {
	return time.Duration(w.PongTimeout) * time.Second
}

// SecurityConfig holds origin and HTTP rate limiting settings.
//
// Environment Variables:
//   - CORS_ORIGINS: comma-separated allow-list, "*" for any (default: *)
//   - RATE_LIMIT_REQUESTS: upgrade requests per window per IP (default: 60)
//   - RATE_LIMIT_WINDOW: window length (default: 1m)
//   - DISABLE_RATE_LIMIT: turn the HTTP limiter off (default: false)
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// NATSConfig holds settings for exporting stored messages to NATS.
// Export is off by default.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`

	// EmbeddedServer starts an in-process NATS server and ignores URL.
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedHost   string `koanf:"embedded_host"`
	EmbeddedPort   int    `koanf:"embedded_port"`

	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration using Koanf.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
