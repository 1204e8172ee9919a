// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/tomtom215/skywatch/internal/cache"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/models"
)

const handlerName = "aircraft-classifier"

// Processor consumes the aircraft feed, classifies every record and
// publishes verdicts for flagged aircraft. It is a suture.Service: each
// Serve call builds a fresh transport and router, so a supervisor restart
// reconnects from scratch.
type Processor struct {
	cfg     Config
	handler *VerdictHandler
	logger  watermill.LoggerAdapter

	mu        sync.RWMutex
	transport *Transport
	publisher *Publisher
	router    *Router

	started     chan struct{}
	startedOnce sync.Once
}

// NewProcessor validates cfg and creates a processor over evaluator.
func NewProcessor(cfg Config, evaluator BatchEvaluator, logger watermill.LoggerAdapter) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewComponentSlogLogger("feed"))
	}
	var suppress *cache.LRU[string]
	if cfg.SuppressWindow > 0 {
		suppress = cache.NewLRU[string](cfg.SuppressCapacity, cfg.SuppressWindow)
	}
	handler, err := NewVerdictHandler(evaluator, suppress, logger)
	if err != nil {
		return nil, err
	}
	return &Processor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		started: make(chan struct{}),
	}, nil
}

// Serve implements suture.Service. It blocks until ctx is canceled or the
// router fails.
func (p *Processor) Serve(ctx context.Context) error {
	transport, err := NewTransport(&p.cfg, p.logger)
	if err != nil {
		return err
	}

	publisher, err := NewPublisher(transport.Publisher, NewCircuitBreaker(p.cfg.CircuitBreaker))
	if err != nil {
		_ = transport.Close()
		return err
	}

	router, err := NewRouter(&p.cfg.Router, p.logger)
	if err != nil {
		_ = transport.Close()
		return err
	}
	router.AddHandler(
		handlerName,
		p.cfg.AircraftTopic,
		transport.Subscriber,
		p.cfg.VerdictTopic,
		publisher,
		p.handler.Handle,
	)

	p.mu.Lock()
	p.transport, p.publisher, p.router = transport, publisher, router
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.transport, p.publisher, p.router = nil, nil, nil
		p.mu.Unlock()
		if err := publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Closing verdict publisher")
		}
		if err := transport.Close(); err != nil {
			logging.Warn().Err(err).Msg("Closing feed transport")
		}
	}()

	runDone := make(chan struct{})
	defer close(runDone)
	go func() {
		select {
		case <-router.Running():
			logging.Info().
				Str("transport", transport.Name).
				Str("aircraft_topic", p.cfg.AircraftTopic).
				Str("verdict_topic", p.cfg.VerdictTopic).
				Msg("Aircraft feed processor running")
			p.startedOnce.Do(func() { close(p.started) })
		case <-runDone:
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("feed router: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("feed router stopped unexpectedly")
}

// Started returns a channel that closes the first time the router is
// consuming.
func (p *Processor) Started() <-chan struct{} {
	return p.started
}

// Ingest publishes an aircraft payload (a single record or a snapshot) to
// the aircraft topic of the running transport. It lets an in-process
// producer drive the memory transport.
func (p *Processor) Ingest(payload []byte) error {
	p.mu.RLock()
	transport := p.transport
	p.mu.RUnlock()
	if transport == nil {
		return ErrNotRunning
	}
	return transport.Publisher.Publish(p.cfg.AircraftTopic, message.NewMessage(uuid.NewString(), payload))
}

// SubscribeVerdicts subscribes to the verdict topic of the running
// transport. The channel closes when ctx is canceled or the transport shuts
// down.
func (p *Processor) SubscribeVerdicts(ctx context.Context) (<-chan *message.Message, error) {
	p.mu.RLock()
	transport := p.transport
	p.mu.RUnlock()
	if transport == nil {
		return nil, ErrNotRunning
	}
	return transport.Subscriber.Subscribe(ctx, p.cfg.VerdictTopic)
}

// Stats returns the verdict handler counters.
func (p *Processor) Stats() HandlerStats {
	return p.handler.Stats()
}

// FeedStatus reports the processor for the health endpoint.
func (p *Processor) FeedStatus() models.FeedStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := models.FeedStatus{
		Transport:      p.cfg.Transport,
		CircuitBreaker: "closed",
	}
	if p.router != nil {
		status.Running = p.router.IsRunning()
	}
	if p.publisher != nil {
		status.CircuitBreaker = p.publisher.CircuitState()
	}
	return status
}

// String implements fmt.Stringer for supervisor logs.
func (p *Processor) String() string {
	return "feed-processor"
}
