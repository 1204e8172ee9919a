// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig tunes message delivery between the aircraft and verdict
// topics.
type RouterConfig struct {
	CloseTimeout time.Duration // drain time for in-flight messages on Close

	// A handler error is retried RetryMaxRetries times with exponential
	// backoff before the message is nacked.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	ThrottlePerSecond int64 // 0 means unthrottled
}

// DefaultRouterConfig allows three retries between 100ms and 5s.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// middlewares returns the handler middleware chain, outermost first. The
// correlation ID is copied before anything else so that recovered panics and
// retries are logged against the originating snapshot.
func (c RouterConfig) middlewares(logger watermill.LoggerAdapter) []message.HandlerMiddleware {
	chain := []message.HandlerMiddleware{
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      c.RetryMaxRetries,
			InitialInterval: c.RetryInitialInterval,
			MaxInterval:     c.RetryMaxInterval,
			Multiplier:      c.RetryMultiplier,
			Logger:          logger,
		}.Middleware,
	}
	if c.ThrottlePerSecond > 0 {
		chain = append(chain, middleware.NewThrottle(c.ThrottlePerSecond, time.Second).Middleware)
	}
	return chain
}

// Router is a Watermill router carrying the feed middleware chain. It
// tracks whether Run is active so FeedStatus can report it.
type Router struct {
	wm      *message.Router
	running atomic.Bool
}

// NewRouter builds a Router. A nil cfg means DefaultRouterConfig and a nil
// logger discards router logs.
func NewRouter(cfg *RouterConfig, logger watermill.LoggerAdapter) (*Router, error) {
	rc := DefaultRouterConfig()
	if cfg != nil {
		rc = *cfg
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wm, err := message.NewRouter(message.RouterConfig{CloseTimeout: rc.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	wm.AddMiddleware(rc.middlewares(logger)...)
	return &Router{wm: wm}, nil
}

// AddHandler routes messages from subscribeTopic through fn and publishes
// whatever fn returns to publishTopic.
func (r *Router) AddHandler(
	name, subscribeTopic string,
	sub message.Subscriber,
	publishTopic string,
	pub message.Publisher,
	fn message.HandlerFunc,
) *message.Handler {
	return r.wm.AddHandler(name, subscribeTopic, sub, publishTopic, pub, fn)
}

// Run blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.wm.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.wm.Running()
}

// Close stops the router, waiting up to CloseTimeout.
func (r *Router) Close() error {
	return r.wm.Close()
}

// IsRunning reports whether Run is active.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}
