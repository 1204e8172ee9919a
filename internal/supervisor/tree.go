// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package supervisor runs the long-lived skywatch services under suture:
//
//	skywatch
//	├── feed-layer
//	│   └── feed-processor (if feed.enabled)
//	└── api-layer
//	    └── http-server
//
// The layers back off independently, so a feed consumer stuck in a
// reconnect loop never restarts the classification API.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart behavior. Zero fields take DefaultTreeConfig
// values.
type TreeConfig struct {
	FailureThreshold float64       // failures tolerated before backoff
	FailureDecay     float64       // seconds for the failure count to decay
	FailureBackoff   time.Duration // pause once the threshold is crossed
	ShutdownTimeout  time.Duration // per-service stop deadline
}

// DefaultTreeConfig mirrors suture's own defaults with a 10s stop deadline.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// Tree is the skywatch supervisor hierarchy.
type Tree struct {
	root   *suture.Supervisor
	feed   *suture.Supervisor
	api    *suture.Supervisor
	config TreeConfig
}

// New builds the tree. Supervisor events are logged through logger, or
// slog.Default when nil.
func New(logger *slog.Logger, config TreeConfig) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	config = config.withDefaults()

	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	// Layers inherit the hook from root.
	t := &Tree{
		root:   suture.New("skywatch", config.spec(hook)),
		feed:   suture.New("feed-layer", config.spec(nil)),
		api:    suture.New("api-layer", config.spec(nil)),
		config: config,
	}
	t.root.Add(t.feed)
	t.root.Add(t.api)
	return t
}

// AddFeedService adds svc to the feed layer.
func (t *Tree) AddFeedService(svc suture.Service) suture.ServiceToken {
	return t.feed.Add(svc)
}

// AddAPIService adds svc to the API layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// RemoveFeedService stops and removes a feed layer service.
func (t *Tree) RemoveFeedService(token suture.ServiceToken) error {
	return t.feed.Remove(token)
}

// Serve blocks until ctx is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the tree and delivers its exit error on the
// returned channel.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown deadline.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
