// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import "errors"

// Common API errors
var (
	// ErrEmptyBody indicates a request without a JSON body
	ErrEmptyBody = errors.New("request body is empty")

	// ErrBatchTooLarge indicates a batch over the configured maximum
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)
