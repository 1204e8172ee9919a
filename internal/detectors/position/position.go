// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package position validates reported coordinates and altitude, and the
// distance of the aircraft from the receiver. It never classifies.
package position

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/validation"
)

// ID is the module identifier.
const ID = "position"

// Keys read from the coordinator's extra map. They take precedence over the
// module configuration so the hosting layer can supply the receiver site.
const (
	ExtraReceiverLat = "receiver_lat"
	ExtraReceiverLon = "receiver_lon"
)

// Anomaly types produced by this module.
const (
	AnomalyInvalidPosition = "invalid-position"
	AnomalyAltitudeRange   = "altitude-out-of-range"
	AnomalyPositionRange   = "position-out-of-range"
)

// Config configures the position module.
type Config struct {
	ReceiverLat   float64 `json:"receiver_lat" validate:"latitude"`
	ReceiverLon   float64 `json:"receiver_lon" validate:"longitude"`
	DistanceMaxNM float64 `json:"distance_max_nm" validate:"gt=0"`
	AltitudeMinFt float64 `json:"altitude_min_ft"`
	AltitudeMaxFt float64 `json:"altitude_max_ft" validate:"gtfield=AltitudeMinFt"`
}

// DefaultConfig places the receiver in central London.
func DefaultConfig() Config {
	return Config{
		ReceiverLat:   51.501126,
		ReceiverLon:   -0.14239,
		DistanceMaxNM: 1000,
		AltitudeMinFt: -1500,
		AltitudeMaxFt: 75000,
	}
}

// Module is the position detector module.
type Module struct {
	mu     sync.RWMutex
	config Config
}

// New creates a position module loaded with DefaultConfig.
func New() *Module {
	return &Module{config: DefaultConfig()}
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return ID
}

// Configure replaces the module limits. A receiver position in extra
// overrides the configured one.
func (m *Module) Configure(raw json.RawMessage, extra map[string]any, _ *detection.CategoryRegistry) error {
	cfg := DefaultConfig()
	if err := detection.DecodeModuleConfig(raw, &cfg); err != nil {
		return err
	}
	if lat, lon, ok := receiverFromExtra(extra); ok {
		cfg.ReceiverLat, cfg.ReceiverLon = lat, lon
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		return fmt.Errorf("invalid position config: %w", err)
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return nil
}

func receiverFromExtra(extra map[string]any) (lat, lon float64, ok bool) {
	lat, okLat := extra[ExtraReceiverLat].(float64)
	lon, okLon := extra[ExtraReceiverLon].(float64)
	return lat, lon, okLat && okLon
}

func (m *Module) snapshot() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Preprocess stores the distance from the receiver in nautical miles when
// the record has a valid position.
func (m *Module) Preprocess(rec *detection.Aircraft, _ map[string]any) {
	rec.Calculated.DistanceNM = nil
	if !rec.HasPosition() || !detection.ValidCoordinates(*rec.Lat, *rec.Lon) {
		return
	}
	cfg := m.snapshot()
	d := detection.HaversineNM(cfg.ReceiverLat, cfg.ReceiverLon, *rec.Lat, *rec.Lon)
	rec.Calculated.DistanceNM = &d
}

// DetectPrimary never matches.
func (m *Module) DetectPrimary(*detection.Aircraft, *detection.CategoryRegistry) []detection.Match {
	return nil
}

// AnomalyDetectors returns the position and altitude detectors.
func (m *Module) AnomalyDetectors() []detection.NamedAnomalyDetector {
	return []detection.NamedAnomalyDetector{
		{Name: "position-validity", Detect: m.checkPosition},
		{Name: "altitude-validity", Detect: m.checkAltitude},
	}
}

func (m *Module) checkPosition(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	if !rec.HasPosition() {
		return nil, nil
	}
	lat, lon := *rec.Lat, *rec.Lon
	value := fmt.Sprintf("%.5f,%.5f", lat, lon)

	if !detection.ValidCoordinates(lat, lon) {
		return []detection.Anomaly{{
			Type:        AnomalyInvalidPosition,
			Severity:    detection.SeverityHigh,
			Confidence:  1,
			Description: "Coordinates outside the valid latitude/longitude range",
			Field:       "lat,lon",
			Value:       value,
		}}, nil
	}

	cfg := m.snapshot()
	dist := rec.Calculated.DistanceNM
	if dist == nil {
		d := detection.HaversineNM(cfg.ReceiverLat, cfg.ReceiverLon, lat, lon)
		dist = &d
	}
	if *dist > cfg.DistanceMaxNM {
		return []detection.Anomaly{{
			Type:        AnomalyPositionRange,
			Severity:    detection.SeverityMedium,
			Confidence:  0.8,
			Description: "Position beyond the receiver's plausible range",
			Details:     fmt.Sprintf("%.1f nm > %.0f nm", *dist, cfg.DistanceMaxNM),
			Field:       "lat,lon",
			Value:       value,
		}}, nil
	}
	return nil, nil
}

func (m *Module) checkAltitude(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	if rec.AltBaro == nil || rec.AltBaro.Ground {
		return nil, nil
	}
	cfg := m.snapshot()
	alt := rec.AltBaro.Feet
	if alt >= cfg.AltitudeMinFt && alt <= cfg.AltitudeMaxFt {
		return nil, nil
	}
	return []detection.Anomaly{{
		Type:        AnomalyAltitudeRange,
		Severity:    detection.SeverityMedium,
		Confidence:  0.9,
		Description: "Barometric altitude outside the plausible range",
		Details:     fmt.Sprintf("valid range %.0f to %.0f ft", cfg.AltitudeMinFt, cfg.AltitudeMaxFt),
		Field:       "alt_baro",
		Value:       fmt.Sprintf("%.0f", alt),
	}}, nil
}
