// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package callsign

import (
	"fmt"
	"strings"

	"github.com/tomtom215/skywatch/internal/detection"
)

// Anomaly types produced by this module.
const (
	AnomalyTooShort          = "callsign-too-short"
	AnomalyTooLong           = "callsign-too-long"
	AnomalyInvalidCharacters = "callsign-invalid-characters"
	AnomalyPlaceholder       = "callsign-placeholder"
)

// AnomalyDetectors returns the malformed-callsign detectors.
func (m *Module) AnomalyDetectors() []detection.NamedAnomalyDetector {
	return []detection.NamedAnomalyDetector{
		{Name: "callsign-length", Detect: m.checkLength},
		{Name: "callsign-characters", Detect: m.checkCharacters},
		{Name: "callsign-placeholder", Detect: m.checkPlaceholder},
	}
}

func (m *Module) checkLength(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	callsign := callsignOf(rec)
	if callsign == "" {
		return nil, nil
	}

	m.mu.RLock()
	minLen, maxLen := m.config.MinLength, m.config.MaxLength
	m.mu.RUnlock()

	switch n := len(callsign); {
	case n < minLen:
		return []detection.Anomaly{{
			Type:        AnomalyTooShort,
			Severity:    detection.SeverityHigh,
			Confidence:  0.9,
			Description: "Callsign is shorter than any valid callsign",
			Details:     fmt.Sprintf("%d characters, minimum %d", n, minLen),
			Field:       "flight",
			Value:       callsign,
		}}, nil
	case n > maxLen:
		return []detection.Anomaly{{
			Type:        AnomalyTooLong,
			Severity:    detection.SeverityMedium,
			Confidence:  0.9,
			Description: "Callsign exceeds the eight character ADS-B identification field",
			Details:     fmt.Sprintf("%d characters, maximum %d", n, maxLen),
			Field:       "flight",
			Value:       callsign,
		}}, nil
	}
	return nil, nil
}

func (m *Module) checkCharacters(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	callsign := callsignOf(rec)
	bad := strings.IndexFunc(callsign, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < '0' || r > '9')
	})
	if bad < 0 {
		return nil, nil
	}
	return []detection.Anomaly{{
		Type:        AnomalyInvalidCharacters,
		Severity:    detection.SeverityMedium,
		Confidence:  0.8,
		Description: "Callsign contains characters outside A-Z and 0-9",
		Details:     fmt.Sprintf("first invalid character %q at position %d", callsign[bad], bad),
		Field:       "flight",
		Value:       callsign,
	}}, nil
}

func (m *Module) checkPlaceholder(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	callsign := callsignOf(rec)
	if callsign == "" {
		return nil, nil
	}

	m.mu.RLock()
	placeholder := m.placeholders[callsign]
	m.mu.RUnlock()

	if !placeholder {
		return nil, nil
	}
	return []detection.Anomaly{{
		Type:        AnomalyPlaceholder,
		Severity:    detection.SeverityLow,
		Confidence:  0.7,
		Description: "Callsign is a transponder placeholder value",
		Field:       "flight",
		Value:       callsign,
	}}, nil
}
