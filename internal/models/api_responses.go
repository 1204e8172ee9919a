// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package models defines the HTTP API wire types.
package models

import (
	"time"
)

// APIResponse wraps every API response.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"is_specific": true, ...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 2}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a structured error.
//
// Common codes:
//   - VALIDATION_ERROR: invalid request body or parameters
//   - INVALID_JSON: body could not be decoded
//   - PAYLOAD_TOO_LARGE: batch exceeds the configured maximum
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
