// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package api serves the classification HTTP API on a chi router.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor
//   - handlers_helpers.go: response and request helpers
//   - handlers_health.go: health endpoint
//   - handlers_classify.go: classification endpoints
//   - handlers_anomalies.go: category and anomaly statistics endpoints
package api

import (
	"context"
	"time"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/models"
)

// Classifier is the classification core as seen by the API. It is
// implemented by detection.SyncCoordinator.
type Classifier interface {
	Evaluate(ctx context.Context, rec *detection.Aircraft) detection.Verdict
	EvaluateBatch(ctx context.Context, recs []*detection.Aircraft) detection.BatchResult
	SortByPrimaryMatch(recs []*detection.Aircraft)
	Categories() *detection.CategoryRegistry
	AnomalyStats() detection.AnomalyStats
	ClearAnomalyStats()
	AnomalyDetectors() []string
	AnomalyDetectionEnabled() bool
	ActiveModules() []string
}

// FeedReporter reports the state of the aircraft feed consumer.
type FeedReporter interface {
	FeedStatus() models.FeedStatus
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	Version      string
	MaxBatchSize int
	MaxBodyBytes int64
}

// DefaultHandlerConfig returns the handler defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		Version:      "dev",
		MaxBatchSize: 5000,
		MaxBodyBytes: 16 << 20,
	}
}

// Handler contains dependencies for API handlers.
type Handler struct {
	classifier Classifier
	feed       FeedReporter
	config     HandlerConfig
	startTime  time.Time
}

// NewHandler creates a handler over classifier. feed may be nil when the
// feed consumer is disabled.
func NewHandler(classifier Classifier, feed FeedReporter, cfg HandlerConfig) *Handler {
	defaults := DefaultHandlerConfig()
	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaults.MaxBatchSize
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	return &Handler{
		classifier: classifier,
		feed:       feed,
		config:     cfg,
		startTime:  time.Now(),
	}
}
