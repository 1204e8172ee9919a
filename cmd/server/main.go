// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package main is the entry point for the skywatch server.
//
// Skywatch classifies ADS-B aircraft records (military, emergency,
// government, ...) and flags anomalies in what they broadcast. It serves a
// REST API for on-demand classification and, when the feed is enabled,
// consumes aircraft snapshots from NATS or an in-process channel and
// publishes a verdict for every flagged aircraft.
//
// Startup order:
//
//  1. Configuration (defaults, config.yaml, environment)
//  2. Logging
//  3. Category registry and classification coordinator
//  4. Feed processor (optional)
//  5. HTTP API
//  6. Supervisor tree, until SIGINT or SIGTERM
//
// Editing the config file at runtime reloads the log level and the
// detector module configuration.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/skywatch/docs" // generated swagger docs
	"github.com/tomtom215/skywatch/internal/api"
	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/detectors"
	"github.com/tomtom215/skywatch/internal/eventprocessor"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/supervisor"
	"github.com/tomtom215/skywatch/internal/supervisor/services"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingConfig())

	logging.Info().
		Str("version", Version).
		Str("addr", cfg.Server.Addr()).
		Bool("feed_enabled", cfg.Feed.Enabled).
		Msg("Starting skywatch")

	coordCfg, err := cfg.Detection.CoordinatorConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid detection configuration")
	}
	coord, err := detectors.NewCoordinator(cfg.Detection.CategoryRegistry(), coordCfg, cfg.Extra())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to configure detector modules")
	}
	classifier := detection.NewSyncCoordinator(coord)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.New(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	var feed api.FeedReporter
	if cfg.Feed.Enabled {
		processor, err := eventprocessor.NewProcessor(feedConfig(cfg), classifier, nil)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create feed processor")
		}
		tree.AddFeedService(processor)
		feed = processor
	}

	handler := api.NewHandler(classifier, feed, api.HandlerConfig{
		Version:      Version,
		MaxBatchSize: cfg.Server.MaxBatchSize,
	})

	mwCfg := api.DefaultChiMiddlewareConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	}
	mwCfg.RateLimitRequests = cfg.Server.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Server.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Server.RateLimitDisabled

	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	if path := config.FindConfigFile(); path != "" {
		watchConfig(path, classifier, coordCfg, cfg.Extra())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Skywatch stopped")
}

// feedConfig maps the feed section onto the processor configuration.
func feedConfig(cfg *config.Config) eventprocessor.Config {
	fc := eventprocessor.DefaultConfig()
	fc.Transport = cfg.Feed.Transport
	fc.NATSURL = cfg.Feed.NATSURL
	fc.AircraftTopic = cfg.Feed.AircraftTopic
	fc.VerdictTopic = cfg.Feed.VerdictTopic
	fc.QueueGroup = cfg.Feed.QueueGroup
	fc.SubscribersCount = cfg.Feed.Subscribers
	fc.Router.RetryMaxRetries = cfg.Feed.RetryCount
	fc.Router.RetryInitialInterval = cfg.Feed.RetryInitialInterval
	fc.Router.CloseTimeout = cfg.Feed.CloseTimeout
	fc.CircuitBreaker.FailureThreshold = cfg.Feed.BreakerMaxFailures
	fc.CircuitBreaker.Timeout = cfg.Feed.BreakerTimeout
	fc.SuppressWindow = cfg.Feed.SuppressWindow
	return fc
}

// watchConfig reloads the log level and detector modules when the config
// file changes. A module configuration that fails to apply is rolled back
// to the last good one.
func watchConfig(path string, classifier *detection.SyncCoordinator, current detection.CoordinatorConfig, extra map[string]any) {
	err := config.WatchConfigFile(path, func() {
		next, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid configuration change")
			return
		}
		logging.SetLevelString(next.Logging.Level)

		coordCfg, err := next.Detection.CoordinatorConfig()
		if err == nil {
			err = classifier.Reconfigure(coordCfg, next.Extra())
		}
		if err != nil {
			logging.Warn().Err(err).Msg("Detection reload failed; restoring previous configuration")
			if rbErr := classifier.Reconfigure(current, extra); rbErr != nil {
				logging.Error().Err(rbErr).Msg("Failed to restore detection configuration")
			}
			return
		}
		current, extra = coordCfg, next.Extra()
		logging.Info().Str("path", path).Msg("Configuration reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}
