// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// General API information for swag. Regenerate docs/ after changing any
// handler annotation:
//
//	go generate ./cmd/server
//
// @title Skywatch API
// @version 1.0
// @description Classifies ADS-B aircraft records into categories (military, government, emergency, ...)
// @description and reports anomalies in what they broadcast. Records use the readsb aircraft.json format.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/skywatch/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Service health
//
// @tag.name Classification
// @tag.description Detector modules and the category table
//
// @tag.name Anomalies
// @tag.description Anomaly engine counters
package main

//go:generate swag init --generalInfo docs.go --dir ./,../../internal/api --parseInternal --output ../../docs --outputTypes go
