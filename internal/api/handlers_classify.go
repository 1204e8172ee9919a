// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/models"
)

// Classify evaluates one aircraft record.
//
// @Summary Classify an aircraft
// @Description Runs every active detector module and the anomaly engine on one readsb aircraft record
// @Tags Classification
// @Accept json
// @Produce json
// @Param aircraft body detection.Aircraft true "readsb aircraft record"
// @Success 200 {object} models.APIResponse{data=detection.Aircraft}
// @Failure 400 {object} models.APIResponse
// @Router /classify [post]
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var rec detection.Aircraft
	if !decodeJSONBody(w, r, &rec, h.config.MaxBodyBytes) {
		return
	}

	v := h.classifier.Evaluate(r.Context(), &rec)
	if v.Flagged() {
		logging.Ctx(r.Context()).Debug().
			Str("hex", sanitizeLogValue(rec.Hex)).
			Bool("specific", v.IsSpecific).
			Int("anomalies", len(v.Anomalies)).
			Msg("Aircraft flagged")
	}
	respondSuccess(w, &rec, start)
}

// ClassifyBatch evaluates a list of aircraft records as one unit.
//
// @Summary Classify a batch of aircraft
// @Tags Classification
// @Accept json
// @Produce json
// @Param request body models.ClassifyBatchRequest true "Aircraft to classify"
// @Success 200 {object} models.APIResponse{data=models.ClassifyBatchResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 413 {object} models.APIResponse
// @Router /classify/batch [post]
func (h *Handler) ClassifyBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ClassifyBatchRequest
	if !decodeJSONBody(w, r, &req, h.config.MaxBodyBytes) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if len(req.Aircraft) > h.config.MaxBatchSize {
		respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("%s: %d > %d", ErrBatchTooLarge, len(req.Aircraft), h.config.MaxBatchSize), nil)
		return
	}

	result := h.classifier.EvaluateBatch(r.Context(), req.Aircraft)

	evaluated := make([]*detection.Aircraft, 0, result.Evaluated)
	for _, rec := range req.Aircraft {
		if rec != nil {
			evaluated = append(evaluated, rec)
		}
	}

	resp := models.ClassifyBatchResponse{
		Evaluated:  result.Evaluated,
		Aircraft:   evaluated,
		Statistics: detection.ComputeStatistics(evaluated),
	}
	if req.FlaggedOnly {
		h.classifier.SortByPrimaryMatch(result.Flagged)
		resp.Aircraft = result.Flagged
	}

	logging.Ctx(r.Context()).Debug().
		Int("evaluated", result.Evaluated).
		Int("flagged", len(result.Flagged)).
		Msg("Batch classified")
	respondSuccess(w, resp, start)
}
