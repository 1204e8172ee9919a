// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package detection classifies aircraft records and flags anomalies.
//
// Architecture:
//
//	Aircraft -> Coordinator -> Verdict (attached to Aircraft.Calculated)
//	               |
//	               +-- Module.Preprocess      (normalize into scratch area)
//	               +-- Module.DetectPrimary   (pattern matches)
//	               +-- priority sort          (CategoryRegistry)
//	               +-- AnomalyEngine.Detect   (validated anomalies)
//
// Pattern modules (callsign, hex code, squawk, cross-check, position) live
// in internal/detectors and are wired together by cmd/server. Every module
// implements Module and may additionally implement Preprocessor and
// AnomalySource.
//
// A Coordinator is configured once at startup and then evaluates one record
// at a time. Hosts that evaluate from several goroutines wrap it in a
// SyncCoordinator.
package detection
