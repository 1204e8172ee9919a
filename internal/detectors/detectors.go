// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package detectors assembles the built-in detector modules.
package detectors

import (
	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/detectors/callsign"
	"github.com/tomtom215/skywatch/internal/detectors/crosscheck"
	"github.com/tomtom215/skywatch/internal/detectors/hexcode"
	"github.com/tomtom215/skywatch/internal/detectors/position"
	"github.com/tomtom215/skywatch/internal/detectors/squawk"
)

// Default returns fresh instances of the built-in modules in evaluation
// order. Cross-check runs after callsign and hex code because its anomaly
// detectors read their matches and normalized fields.
func Default() []detection.Module {
	return []detection.Module{
		callsign.New(),
		hexcode.New(),
		squawk.New(),
		crosscheck.New(),
		position.New(),
	}
}

// NewCoordinator builds a coordinator over the default modules and
// configures it.
func NewCoordinator(categories *detection.CategoryRegistry, cfg detection.CoordinatorConfig, extra map[string]any) (*detection.Coordinator, error) {
	c := detection.NewCoordinator(categories, nil, Default()...)
	if err := c.Configure(cfg, extra); err != nil {
		return nil, err
	}
	return c, nil
}
