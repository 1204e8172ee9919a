// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package hexcode

import (
	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/validation"
)

// Anomaly types produced by this module.
const (
	AnomalyInvalidFormat = "hex-invalid-format"
	AnomalyNonICAO       = "hex-non-icao"
	AnomalyReserved      = "hex-reserved"
)

// AnomalyDetectors returns the address anomaly detector.
func (m *Module) AnomalyDetectors() []detection.NamedAnomalyDetector {
	return []detection.NamedAnomalyDetector{
		{Name: "hex-address", Detect: m.checkAddress},
	}
}

func (m *Module) checkAddress(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	hex, nonICAO := hexOf(rec)
	if hex == "" {
		return nil, nil
	}

	if !validation.IsICAOHex(hex) {
		return []detection.Anomaly{{
			Type:        AnomalyInvalidFormat,
			Severity:    detection.SeverityHigh,
			Confidence:  0.95,
			Description: "Address is not six hexadecimal digits",
			Field:       "hex",
			Value:       rec.Hex,
		}}, nil
	}

	var out []detection.Anomaly
	if nonICAO {
		out = append(out, detection.Anomaly{
			Type:        AnomalyNonICAO,
			Severity:    detection.SeverityLow,
			Confidence:  0.9,
			Description: "Address is a non-ICAO (TIS-B or anonymous) address",
			Field:       "hex",
			Value:       rec.Hex,
		})
	}

	m.mu.RLock()
	reserved := m.reserved[hex]
	m.mu.RUnlock()
	if reserved {
		out = append(out, detection.Anomaly{
			Type:        AnomalyReserved,
			Severity:    detection.SeverityMedium,
			Confidence:  0.85,
			Description: "Address is reserved and should never be transmitted",
			Details:     "commonly a misconfigured transponder",
			Field:       "hex",
			Value:       hex,
		})
	}
	return out, nil
}
