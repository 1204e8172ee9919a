// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import "errors"

// ErrNilPublisher is returned when a publisher wrapper is given nil.
var ErrNilPublisher = errors.New("publisher cannot be nil")

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrMalformedPayload marks a feed message that can never be processed.
// Such messages are acknowledged and dropped instead of retried.
var ErrMalformedPayload = errors.New("malformed aircraft payload")

// ErrNotRunning is returned when the feed is used before it has started.
var ErrNotRunning = errors.New("feed processor is not running")
