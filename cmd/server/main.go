// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/geochat/internal/api"
	"github.com/tomtom215/geochat/internal/chat"
	"github.com/tomtom215/geochat/internal/config"
	"github.com/tomtom215/geochat/internal/events"
	"github.com/tomtom215/geochat/internal/geo"
	"github.com/tomtom215/geochat/internal/logging"
	"github.com/tomtom215/geochat/internal/models"
	"github.com/tomtom215/geochat/internal/registry"
	"github.com/tomtom215/geochat/internal/supervisor"
	"github.com/tomtom215/geochat/internal/supervisor/services"
	ws "github.com/tomtom215/geochat/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Geochat with supervisor tree")

	radius := geo.NewRadius(cfg.Chat.RadiusMeters)
	logging.Info().
		Int("radius_m", cfg.Chat.RadiusMeters).
		Str("addr", cfg.Server.Addr()).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Configuration loaded")

	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* accepts WebSocket upgrades from any origin")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Upgrade rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	var opts []chat.Option
	exporter, err := initExport(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS export")
	}
	if exporter != nil {
		opts = append(opts, chat.WithPublisher(exporter.publisher))
		tree.AddExportService(services.NewNATSExportService(exporter.publisher, exporter.embeddedBroker(), cfg.Server.ShutdownTimeout))
		logging.Info().Str("url", exporter.url).Str("subject", cfg.NATS.Subject).Msg("NATS export added to supervisor tree")
	}

	svc := chat.NewService(registry.New(radius), opts...)

	hub := ws.NewHub()
	wsHandler := ws.NewHandler(hub, svc, websocketConfig(cfg))

	handler := api.NewHandler(svc, hub, clientConfig(cfg, radius))
	router := api.NewRouter(handler, api.NewChiMiddleware(chiMiddlewareConfig(cfg)), wsHandler)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).
		OnShutdown(func() { handler.SetDraining(true) }))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Geochat stopped gracefully")
}

// exportComponents is the optional NATS export path.
type exportComponents struct {
	publisher *events.NATSPublisher
	broker    *events.EmbeddedServer // nil when using an external broker
	url       string
}

// embeddedBroker avoids handing a typed nil to the export service.
func (ec *exportComponents) embeddedBroker() services.EmbeddedBroker {
	if ec.broker == nil {
		return nil
	}
	return ec.broker
}

// initExport returns nil when NATS export is disabled. With embedded_server
// set, a local broker is started first and the publisher connects to it.
func initExport(cfg *config.Config) (*exportComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS export disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	ec := &exportComponents{url: cfg.NATS.URL}

	if cfg.NATS.EmbeddedServer {
		broker, err := events.NewEmbeddedServer(events.ServerConfig{
			Host: cfg.NATS.EmbeddedHost,
			Port: cfg.NATS.EmbeddedPort,
		})
		if err != nil {
			return nil, err
		}
		ec.broker = broker
		ec.url = broker.ClientURL()
		logging.Info().Str("url", ec.url).Msg("Embedded NATS server started")
	}

	pub, err := events.NewNATSPublisher(natsConfig(cfg, ec.url))
	if err != nil {
		if ec.broker != nil {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if shutdownErr := ec.broker.Shutdown(ctx); shutdownErr != nil {
				logging.Error().Err(shutdownErr).Msg("Error stopping embedded NATS server")
			}
		}
		return nil, err
	}
	ec.publisher = pub
	return ec, nil
}

func natsConfig(cfg *config.Config, url string) events.NATSConfig {
	return events.NATSConfig{
		URL:           url,
		Subject:       cfg.NATS.Subject,
		ClientName:    "geochat",
		MaxReconnects: cfg.NATS.MaxReconnects,
		ReconnectWait: cfg.NATS.ReconnectWait,
		Breaker: events.CircuitBreakerConfig{
			Name:             "nats-export",
			MaxRequests:      cfg.NATS.BreakerMaxRequests,
			Interval:         cfg.NATS.BreakerInterval,
			Timeout:          cfg.NATS.BreakerTimeout,
			FailureThreshold: cfg.NATS.BreakerFailureThreshold,
		},
	}
}

func websocketConfig(cfg *config.Config) ws.Config {
	wc := ws.DefaultConfig()
	wc.PingInterval = cfg.WebSocket.PingIntervalDuration()
	wc.PongTimeout = cfg.WebSocket.PongTimeoutDuration()
	wc.MaxMessageSize = cfg.WebSocket.MaxMessageSize
	wc.SendBuffer = cfg.WebSocket.SendBuffer
	wc.RateLimit = cfg.WebSocket.RateLimitPerSecond
	wc.RateBurst = cfg.WebSocket.RateLimitBurst
	wc.AllowedOrigins = cfg.Security.CORSOrigins
	return wc
}

func clientConfig(cfg *config.Config, radius geo.Radius) models.ClientConfig {
	return models.ClientConfig{
		WebSocketPath:        api.WebSocketPath,
		RadiusKm:             radius.Km(),
		PingIntervalSeconds:  cfg.WebSocket.PingInterval,
		PongTimeoutSeconds:   cfg.WebSocket.PongTimeout,
		MaxReconnectAttempts: cfg.WebSocket.MaxReconnectAttempts,
	}
}

func chiMiddlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mc := api.DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mc.RateLimitRequests = cfg.Security.RateLimitReqs
	mc.RateLimitWindow = cfg.Security.RateLimitWindow
	mc.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mc
}
