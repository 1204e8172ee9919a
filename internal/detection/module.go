// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Module is a pattern-matching detector module (callsign, hex code, squawk,
// cross-check, ...).
type Module interface {
	// ID is the module identifier. It keys the module's configuration and
	// fills Match.Detector.
	ID() string

	// Configure replaces the module state from raw, its section of the
	// detection configuration (nil when absent). Pattern lists are compiled
	// here, never per record. An error aborts startup.
	Configure(raw json.RawMessage, extra map[string]any, categories *CategoryRegistry) error

	// DetectPrimary returns the matches for rec, or nil when the relevant
	// field is absent or nothing matches. It must not modify rec. A panic
	// here is a defect in the module and is not recovered by the Coordinator.
	DetectPrimary(rec *Aircraft, categories *CategoryRegistry) []Match
}

// Preprocessor is implemented by modules that normalize record fields into
// rec.Calculated before detection. Preprocess runs once per record per
// evaluation and must tolerate missing optional fields.
type Preprocessor interface {
	Preprocess(rec *Aircraft, extra map[string]any)
}

// AnomalySource is implemented by modules that contribute anomaly detectors
// to the shared AnomalyEngine.
type AnomalySource interface {
	AnomalyDetectors() []NamedAnomalyDetector
}

// ModuleEnabled reports whether a module section enables its module. A
// module is enabled unless its section sets "enabled": false.
func ModuleEnabled(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return true, nil
	}

	var section struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.Unmarshal(raw, &section); err != nil {
		return false, fmt.Errorf("decode module section: %w", err)
	}
	return section.Enabled == nil || *section.Enabled, nil
}

// DecodeModuleConfig decodes raw into dst, leaving dst untouched (its
// defaults intact) when raw is empty.
func DecodeModuleConfig(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode module config: %w", err)
	}
	return nil
}
