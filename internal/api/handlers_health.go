// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
)

// Health handles health check requests
//
// @Summary Get service health
// @Description Returns uptime, active detector modules and feed consumer state
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	health := models.HealthStatus{
		Status:        "healthy",
		Version:       h.config.Version,
		Uptime:        time.Since(h.startTime).Seconds(),
		ActiveModules: h.classifier.ActiveModules(),
	}
	if h.feed != nil {
		fs := h.feed.FeedStatus()
		health.Feed = &fs
		if !fs.Running || fs.CircuitBreaker == "open" {
			health.Status = "degraded"
		}
	}

	respondSuccess(w, health, start)
}
