// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/models"
	"github.com/tomtom215/skywatch/internal/validation"
)

// sanitizeLogValue renders control characters as \xNN. Callsigns and hex
// codes arrive from untrusted feeders and end up in log lines.
func sanitizeLogValue(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7F {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// writeEnvelope encodes resp with status. Responses are never cached since
// verdicts depend on live configuration.
func writeEnvelope(w http.ResponseWriter, status int, resp *models.APIResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Error().Err(err).Msg("Encoding API response")
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Writing API response")
	}
}

// respondSuccess writes data with the elapsed time since start.
func respondSuccess(w http.ResponseWriter, data any, start time.Time) {
	now := time.Now()
	writeEnvelope(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   now,
			QueryTimeMS: now.Sub(start).Milliseconds(),
		},
	})
}

// respondAPIError writes apiErr in the error envelope.
func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	writeEnvelope(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// respondError writes code and message; a non-nil cause is logged, not
// returned to the client.
func respondError(w http.ResponseWriter, status int, code, message string, cause error) {
	if cause != nil {
		logging.Error().
			Str("code", code).
			Int("status", status).
			Str("cause", sanitizeLogValue(cause.Error())).
			Msg("Request failed")
	}
	respondAPIError(w, status, &models.APIError{Code: code, Message: message})
}

// validateRequest runs struct tag validation and converts the first failure
// set into an APIError, or returns nil.
func validateRequest(v any) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	e := verr.ToAPIError()
	return &models.APIError{Code: e.Code, Message: e.Message, Details: e.Details}
}

// decodeJSONBody reads at most maxBytes of the body into dst. It writes the
// error response itself and reports false on any failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), nil)
		return false
	case err != nil:
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Failed to read request body", err)
		return false
	case len(bytes.TrimSpace(body)) == 0:
		respondError(w, http.StatusBadRequest, "INVALID_JSON", ErrEmptyBody.Error(), nil)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body: "+err.Error(), nil)
		return false
	}
	return true
}
