// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package models

import (
	"github.com/tomtom215/skywatch/internal/detection"
)

// ClassifyBatchRequest is the body of POST /api/v1/classify/batch.
type ClassifyBatchRequest struct {
	Aircraft []*detection.Aircraft `json:"aircraft" validate:"required,min=1"`

	// FlaggedOnly returns only specific or anomalous aircraft, ordered by
	// primary match priority.
	FlaggedOnly bool `json:"flagged_only"`
}

// ClassifyBatchResponse is the data of a batch classification.
type ClassifyBatchResponse struct {
	Evaluated  int                   `json:"evaluated"`
	Aircraft   []*detection.Aircraft `json:"aircraft"`
	Statistics detection.Statistics  `json:"statistics"`
}

// AnomalyStatsResponse is the data of GET /api/v1/anomalies/stats.
type AnomalyStatsResponse struct {
	detection.AnomalyStats
	DetectionEnabled bool     `json:"detection_enabled"`
	Detectors        []string `json:"detectors"`
}

// HealthStatus is the data of GET /api/v1/health.
type HealthStatus struct {
	Status        string      `json:"status"`
	Version       string      `json:"version"`
	Uptime        float64     `json:"uptime_seconds"`
	ActiveModules []string    `json:"active_modules"`
	Feed          *FeedStatus `json:"feed,omitempty"`
}

// FeedStatus reports the aircraft feed consumer.
type FeedStatus struct {
	Running        bool   `json:"running"`
	Transport      string `json:"transport"`
	CircuitBreaker string `json:"circuit_breaker"`
}
