// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/models"
)

// Categories lists the category table ordered by priority.
//
// @Summary List classification categories
// @Tags Classification
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]detection.Category}
// @Router /categories [get]
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, h.classifier.Categories().All(), time.Now())
}

// AnomalyStats returns the anomaly engine counters.
//
// @Summary Get anomaly statistics
// @Tags Anomalies
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.AnomalyStatsResponse}
// @Router /anomalies/stats [get]
func (h *Handler) AnomalyStats(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondSuccess(w, models.AnomalyStatsResponse{
		AnomalyStats:     h.classifier.AnomalyStats(),
		DetectionEnabled: h.classifier.AnomalyDetectionEnabled(),
		Detectors:        h.classifier.AnomalyDetectors(),
	}, start)
}

// ClearAnomalyStats resets the anomaly engine counters and returns the
// cleared state.
//
// @Summary Reset anomaly statistics
// @Tags Anomalies
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.AnomalyStatsResponse}
// @Router /anomalies/stats [delete]
func (h *Handler) ClearAnomalyStats(w http.ResponseWriter, r *http.Request) {
	h.classifier.ClearAnomalyStats()
	logging.Ctx(r.Context()).Info().Msg("Anomaly statistics cleared")
	h.AnomalyStats(w, r)
}
