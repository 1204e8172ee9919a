// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package crosscheck

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/detectors/squawk"
)

// Anomaly types produced by this module.
const (
	AnomalyEmergencyMismatch   = "emergency-squawk-mismatch"
	AnomalyMilitaryCivilHex    = "military-callsign-civil-hex"
	AnomalyAltitudeCeiling     = "altitude-exceeds-ceiling"
	AnomalyExcessiveClimbRate  = "excessive-vertical-rate"
	AnomalyImplausibleVelocity = "implausible-ground-speed"
)

// emergencyStatus maps the readsb emergency field to the squawk that
// normally accompanies it.
var emergencyStatus = map[string]string{
	"general":  squawk.Emergency,
	"nordo":    squawk.RadioFailure,
	"unlawful": squawk.Hijack,
}

// AnomalyDetectors returns the cross-field and performance detectors.
func (m *Module) AnomalyDetectors() []detection.NamedAnomalyDetector {
	return []detection.NamedAnomalyDetector{
		{Name: "emergency-consistency", Detect: checkEmergency},
		{Name: "military-identity", Detect: checkMilitaryIdentity},
		{Name: "performance-envelope", Detect: m.checkPerformance},
	}
}

func checkEmergency(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	code := strings.TrimSpace(rec.Squawk)
	status := strings.ToLower(strings.TrimSpace(rec.Emergency))
	if code == "" || status == "" {
		return nil, nil
	}

	if squawk.IsEmergency(code) && status == "none" {
		return []detection.Anomaly{{
			Type:        AnomalyEmergencyMismatch,
			Severity:    detection.SeverityMedium,
			Confidence:  0.6,
			Description: "Emergency squawk without a declared emergency status",
			Details:     "squawk " + code + ", emergency none",
			Field:       "squawk",
			Value:       code,
		}}, nil
	}
	if want, ok := emergencyStatus[status]; ok && code != want {
		return []detection.Anomaly{{
			Type:        AnomalyEmergencyMismatch,
			Severity:    detection.SeverityMedium,
			Confidence:  0.7,
			Description: "Declared emergency status does not match squawk",
			Details:     fmt.Sprintf("emergency %s expects squawk %s, got %s", status, want, code),
			Field:       "emergency",
			Value:       status,
		}}, nil
	}
	return nil, nil
}

// checkMilitaryIdentity flags a military callsign on an address that
// nothing else marks as military. It relies on the hex code module having
// normalized the address; without it there is nothing to compare.
func checkMilitaryIdentity(rec *detection.Aircraft, actx *detection.AnomalyContext) ([]detection.Anomaly, error) {
	if rec.Calculated.Hex == "" || rec.Calculated.NonICAO || rec.DBFlags&FlagMilitary != 0 {
		return nil, nil
	}

	var callsignMatch *detection.Match
	for _, mt := range actx.MatchesFrom("callsign") {
		if mt.Category == detection.CategoryMilitary {
			callsignMatch = &mt
			break
		}
	}
	if callsignMatch == nil {
		return nil, nil
	}
	for _, mt := range actx.MatchesFrom("hexcode") {
		if mt.Category == detection.CategoryMilitary {
			return nil, nil
		}
	}

	return []detection.Anomaly{{
		Type:        AnomalyMilitaryCivilHex,
		Severity:    detection.SeverityLow,
		Confidence:  0.6,
		Description: "Military callsign on an address outside known military allocations",
		Details:     "callsign " + callsignMatch.Value + " matched " + callsignMatch.Pattern,
		Field:       "hex",
		Value:       rec.Calculated.Hex,
	}}, nil
}

func (m *Module) checkPerformance(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	limit, ok := m.limitFor(strings.ToUpper(strings.TrimSpace(rec.Category)))
	if !ok {
		return nil, nil
	}

	var out []detection.Anomaly
	if alt, ok := altitudeOf(rec); ok && limit.CeilingFt > 0 && alt > limit.CeilingFt {
		out = append(out, detection.Anomaly{
			Type:        AnomalyAltitudeCeiling,
			Severity:    detection.SeverityMedium,
			Confidence:  0.7,
			Description: "Altitude above the ceiling for emitter category " + rec.Category,
			Details:     fmt.Sprintf("%.0f ft > %.0f ft", alt, limit.CeilingFt),
			Field:       "alt_baro",
			Value:       fmt.Sprintf("%.0f", alt),
		})
	}
	if rec.BaroRate != nil && limit.MaxVerticalRate > 0 && math.Abs(*rec.BaroRate) > limit.MaxVerticalRate {
		out = append(out, detection.Anomaly{
			Type:        AnomalyExcessiveClimbRate,
			Severity:    detection.SeverityMedium,
			Confidence:  0.6,
			Description: "Vertical rate beyond the envelope for emitter category " + rec.Category,
			Details:     fmt.Sprintf("|%.0f| fpm > %.0f fpm", *rec.BaroRate, limit.MaxVerticalRate),
			Field:       "baro_rate",
			Value:       fmt.Sprintf("%.0f", *rec.BaroRate),
		})
	}
	if rec.GroundSpeed != nil && limit.MaxGroundSpeed > 0 && *rec.GroundSpeed > limit.MaxGroundSpeed {
		out = append(out, detection.Anomaly{
			Type:        AnomalyImplausibleVelocity,
			Severity:    detection.SeverityMedium,
			Confidence:  0.6,
			Description: "Ground speed beyond the envelope for emitter category " + rec.Category,
			Details:     fmt.Sprintf("%.0f kt > %.0f kt", *rec.GroundSpeed, limit.MaxGroundSpeed),
			Field:       "gs",
			Value:       fmt.Sprintf("%.0f", *rec.GroundSpeed),
		})
	}
	return out, nil
}

// altitudeOf prefers barometric altitude and falls back to geometric.
func altitudeOf(rec *detection.Aircraft) (float64, bool) {
	if rec.AltBaro != nil {
		if rec.AltBaro.Ground {
			return 0, false
		}
		return rec.AltBaro.Feet, true
	}
	if rec.AltGeom != nil {
		return *rec.AltGeom, true
	}
	return 0, false
}
