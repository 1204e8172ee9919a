// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// CategoryMilitary is the category that drives the Calculated.Military flag.
const CategoryMilitary = "military"

// Match is a detector module's finding that a record field satisfies a
// known classification pattern. Matches are not modified after they are
// returned from DetectPrimary.
type Match struct {
	Detector    string  `json:"detector"`
	Field       string  `json:"field,omitempty"`
	Pattern     string  `json:"pattern,omitempty"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Confidence  float64 `json:"confidence"`
	Value       string  `json:"value,omitempty"`
}

// EffectiveConfidence returns the match confidence, reading an unset (zero)
// or out of range value as 1.
func (m *Match) EffectiveConfidence() float64 {
	c := m.Confidence
	if c <= 0 || c > 1 || math.IsNaN(c) {
		return 1
	}
	return c
}

// Anomaly is a data-quality or behavioral irregularity found on a record.
// Type and Description are required; see ValidateAnomaly.
type Anomaly struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Details     string   `json:"details,omitempty"`
	Field       string   `json:"field,omitempty"`
	Value       string   `json:"value,omitempty"`
	Detector    string   `json:"detector,omitempty"`
}

// Verdict is the per-record evaluation result.
type Verdict struct {
	IsSpecific      bool      `json:"is_specific"`
	Matches         []Match   `json:"matches,omitempty"`
	PrimaryMatch    *Match    `json:"primary_match,omitempty"`
	Anomalies       []Anomaly `json:"anomalies,omitempty"`
	HasAnomalies    bool      `json:"has_anomalies"`
	HighestSeverity Severity  `json:"highest_severity,omitempty"`
}

// Flagged reports whether the record belongs in a filtered view.
func (v *Verdict) Flagged() bool {
	return v.IsSpecific || v.HasAnomalies
}

// Altitude is a barometric altitude in feet. readsb reports aircraft on the
// ground as the string "ground" instead of a number.
type Altitude struct {
	Feet   float64
	Ground bool
}

var groundLiteral = []byte(`"ground"`)

func (a Altitude) MarshalJSON() ([]byte, error) {
	if a.Ground {
		return groundLiteral, nil
	}
	return json.Marshal(a.Feet)
}

func (a *Altitude) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, groundLiteral) {
		*a = Altitude{Ground: true}
		return nil
	}
	var feet float64
	if err := json.Unmarshal(data, &feet); err != nil {
		return fmt.Errorf("alt_baro: %w", err)
	}
	*a = Altitude{Feet: feet}
	return nil
}

// Aircraft is one entry of a readsb/tar1090 aircraft.json snapshot.
// Fields the receiver did not report are nil or empty.
type Aircraft struct {
	Hex          string    `json:"hex"`
	Source       string    `json:"type,omitempty"`
	Flight       string    `json:"flight,omitempty"`
	Registration string    `json:"r,omitempty"`
	TypeCode     string    `json:"t,omitempty"`
	AltBaro      *Altitude `json:"alt_baro,omitempty" swaggertype:"number"` // feet, or "ground"
	AltGeom      *float64  `json:"alt_geom,omitempty"`
	GroundSpeed  *float64  `json:"gs,omitempty"`
	Track        *float64  `json:"track,omitempty"`
	BaroRate     *float64  `json:"baro_rate,omitempty"`
	Squawk       string    `json:"squawk,omitempty"`
	Emergency    string    `json:"emergency,omitempty"`
	Category     string    `json:"category,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	Lon          *float64  `json:"lon,omitempty"`
	DBFlags      int       `json:"dbFlags,omitempty"`
	Seen         *float64  `json:"seen,omitempty"`
	RSSI         *float64  `json:"rssi,omitempty"`

	// Calculated is the scratch area written by preprocessors and the
	// coordinator. Detector modules read the raw fields above and never
	// modify them.
	Calculated Calculated `json:"calculated"`
}

// HasPosition reports whether both latitude and longitude were reported.
func (a *Aircraft) HasPosition() bool {
	return a.Lat != nil && a.Lon != nil
}

// Calculated holds normalized and derived values for one evaluation cycle.
type Calculated struct {
	Callsign   string   `json:"callsign,omitempty"`
	Hex        string   `json:"hex,omitempty"`
	NonICAO    bool     `json:"non_icao,omitempty"`
	Squawk     string   `json:"squawk,omitempty"`
	DistanceNM *float64 `json:"distance_nm,omitempty"`
	Military   bool     `json:"military"`
	Verdict    Verdict  `json:"verdict"`
}

// AnomalyContext is the read-only context shared by every anomaly detector
// during one Detect call.
type AnomalyContext struct {
	Matches    []Match
	Categories *CategoryRegistry
	Extra      map[string]any
}

// HasCategory reports whether any match carries category, compared the way
// the registry compares names.
func (c *AnomalyContext) HasCategory(category string) bool {
	if c == nil {
		return false
	}
	category = normalizeCategory(category)
	for i := range c.Matches {
		if normalizeCategory(c.Matches[i].Category) == category {
			return true
		}
	}
	return false
}

// MatchesFrom returns the matches produced by one detector module.
func (c *AnomalyContext) MatchesFrom(detector string) []Match {
	if c == nil {
		return nil
	}
	var out []Match
	for i := range c.Matches {
		if c.Matches[i].Detector == detector {
			out = append(out, c.Matches[i])
		}
	}
	return out
}

// AnomalyDetectorFunc inspects a record and returns zero or more anomaly
// candidates. A returned error (or a panic) causes the engine to skip this
// detector for the record.
type AnomalyDetectorFunc func(rec *Aircraft, actx *AnomalyContext) ([]Anomaly, error)

// NamedAnomalyDetector pairs a detector function with the identifier used in
// logs, statistics and the Anomaly.Detector field.
type NamedAnomalyDetector struct {
	Name   string
	Detect AnomalyDetectorFunc
}
