// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package metrics holds the Prometheus instrumentation for Skywatch.
//
// Metrics are registered on the default registry through promauto and
// exposed by the API server at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Classification Metrics
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skywatch_evaluations_total",
			Help: "Total number of aircraft records evaluated",
		},
		[]string{"specific"}, // "true", "false"
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skywatch_evaluation_duration_seconds",
			Help:    "Duration of a single record evaluation in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skywatch_matches_total",
			Help: "Total number of pattern matches by detector module and category",
		},
		[]string{"detector", "category"},
	)

	PrimaryCategoryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skywatch_primary_category_total",
			Help: "Total number of records classified by primary match category",
		},
		[]string{"category"},
	)

	FlaggedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skywatch_flagged_total",
			Help: "Total number of records that were specific or carried anomalies",
		},
	)

	// Anomaly Engine Metrics
	AnomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skywatch_anomalies_total",
			Help: "Total number of accepted anomalies by type and severity",
		},
		[]string{"type", "severity"},
	)

	AnomaliesMalformed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skywatch_anomalies_malformed_total",
			Help: "Total number of anomaly candidates dropped by validation",
		},
		[]string{"detector"},
	)

	AnomalyDetectorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skywatch_anomaly_detector_failures_total",
			Help: "Total number of anomaly detector errors and recovered panics",
		},
		[]string{"engine", "detector", "kind"}, // kind: "error", "panic"
	)

	// Feed Metrics
	FeedMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skywatch_feed_messages_consumed_total",
			Help: "Total number of aircraft feed messages consumed",
		},
	)

	FeedMessagesParseFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skywatch_feed_messages_parse_failed_total",
			Help: "Total number of feed messages that could not be decoded",
		},
	)

	FeedVerdictsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skywatch_feed_verdicts_published_total",
			Help: "Total number of flagged verdicts published",
		},
	)

	FeedProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skywatch_feed_processing_duration_seconds",
			Help:    "Duration of feed message processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skywatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skywatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skywatch_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordEvaluation records one completed record evaluation.
func RecordEvaluation(specific, flagged bool, primaryCategory string, duration time.Duration) {
	EvaluationsTotal.WithLabelValues(strconv.FormatBool(specific)).Inc()
	EvaluationDuration.Observe(duration.Seconds())
	if primaryCategory != "" {
		PrimaryCategoryTotal.WithLabelValues(primaryCategory).Inc()
	}
	if flagged {
		FlaggedTotal.Inc()
	}
}

// RecordMatch records a single pattern match.
func RecordMatch(detector, category string) {
	MatchesTotal.WithLabelValues(detector, category).Inc()
}

// RecordAnomaly records an accepted anomaly.
func RecordAnomaly(anomalyType, severity string) {
	AnomaliesTotal.WithLabelValues(anomalyType, severity).Inc()
}

// RecordMalformedAnomaly records an anomaly candidate rejected by validation.
func RecordMalformedAnomaly(detector string) {
	AnomaliesMalformed.WithLabelValues(detector).Inc()
}

// RecordDetectorFailure records an anomaly detector error or recovered panic.
func RecordDetectorFailure(engine, detector string, panicked bool) {
	kind := "error"
	if panicked {
		kind = "panic"
	}
	AnomalyDetectorFailures.WithLabelValues(engine, detector, kind).Inc()
}

// RecordFeedConsume records a feed message being consumed.
func RecordFeedConsume() {
	FeedMessagesConsumed.Inc()
}

// RecordFeedParseFailed records a feed message that failed to decode.
func RecordFeedParseFailed() {
	FeedMessagesParseFailed.Inc()
}

// RecordFeedPublish records a verdict being published.
func RecordFeedPublish() {
	FeedVerdictsPublished.Inc()
}

// RecordFeedProcessingDuration records the duration of feed message processing.
func RecordFeedProcessingDuration(duration time.Duration) {
	FeedProcessingDuration.Observe(duration.Seconds())
}

// SetCircuitBreakerState records the current state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
