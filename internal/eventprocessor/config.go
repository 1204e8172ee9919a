// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"fmt"
	"time"
)

// Transports.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

// Config configures the feed processor.
type Config struct {
	Transport        string
	NATSURL          string
	AircraftTopic    string
	VerdictTopic     string
	QueueGroup       string
	SubscribersCount int

	// SuppressWindow skips re-emitting an unchanged verdict for the same
	// aircraft within the window. Zero disables suppression.
	SuppressWindow   time.Duration
	SuppressCapacity int

	// NATS reconnection
	MaxReconnects int
	ReconnectWait time.Duration

	Router         RouterConfig
	CircuitBreaker CircuitBreakerConfig
}

// CircuitBreakerConfig configures the breaker around verdict publishing.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // requests allowed while half-open
	Interval         time.Duration // closed-state counter reset period
	Timeout          time.Duration // open-state duration before half-open
	FailureThreshold uint32        // consecutive failures that open the circuit
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Transport:        TransportMemory,
		NATSURL:          "nats://127.0.0.1:4222",
		AircraftTopic:    "aircraft",
		VerdictTopic:     "verdicts",
		QueueGroup:       "skywatch",
		SubscribersCount: 1,
		SuppressWindow:   time.Minute,
		SuppressCapacity: 10000,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		Router:           DefaultRouterConfig(),
		CircuitBreaker: CircuitBreakerConfig{
			Name:             "verdict-publisher",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportMemory:
	case TransportNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("%w: nats transport requires a URL", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Transport)
	}
	if c.AircraftTopic == "" || c.VerdictTopic == "" {
		return fmt.Errorf("%w: aircraft and verdict topics are required", ErrInvalidConfig)
	}
	if c.AircraftTopic == c.VerdictTopic {
		return fmt.Errorf("%w: verdict topic must differ from aircraft topic", ErrInvalidConfig)
	}
	if c.SubscribersCount < 1 {
		return fmt.Errorf("%w: subscribers count must be at least 1", ErrInvalidConfig)
	}
	if c.SuppressWindow < 0 {
		return fmt.Errorf("%w: suppress window cannot be negative", ErrInvalidConfig)
	}
	if c.CircuitBreaker.FailureThreshold == 0 {
		return fmt.Errorf("%w: circuit breaker failure threshold must be at least 1", ErrInvalidConfig)
	}
	return nil
}
