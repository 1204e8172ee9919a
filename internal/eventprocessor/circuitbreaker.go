// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
)

// NewCircuitBreaker creates a circuit breaker that opens after
// cfg.FailureThreshold consecutive failures. State changes are logged and
// exported as skywatch_circuit_breaker_state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[interface{}] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}

	metrics.SetCircuitBreakerState(cfg.Name, int(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[interface{}](settings)
}

// CircuitBreakerState returns the breaker state as "closed", "half-open" or
// "open".
func CircuitBreakerState(cb *gobreaker.CircuitBreaker[interface{}]) string {
	return cb.State().String()
}
