// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
)

var (
	// ErrInvalidDetector is returned by AddDetector for a nil detector function.
	ErrInvalidDetector = errors.New("invalid anomaly detector: not a function")

	// ErrMalformedAnomaly marks an anomaly candidate rejected by validation.
	ErrMalformedAnomaly = errors.New("malformed anomaly")

	// ErrDetectorPanic wraps a value recovered from a panicking detector.
	ErrDetectorPanic = errors.New("anomaly detector panicked")
)

// DefaultAnomalyConfidence replaces a missing or out of range confidence.
const DefaultAnomalyConfidence = 0.5

// AnomalyStats are the cumulative counters of an AnomalyEngine.
type AnomalyStats struct {
	TotalChecks    int64              `json:"total_checks"`
	TotalAnomalies int64              `json:"total_anomalies"`
	ByType         map[string]int64   `json:"by_type"`
	BySeverity     map[Severity]int64 `json:"by_severity"`
}

func newAnomalyStats() AnomalyStats {
	return AnomalyStats{
		ByType:     make(map[string]int64),
		BySeverity: make(map[Severity]int64),
	}
}

// AnomalyEngine runs registered anomaly detectors against a record,
// validates what they return and keeps lifetime statistics.
//
// The detector list is fixed once configuration finishes. Statistics are
// guarded by their own mutex so one engine may be shared between goroutines.
type AnomalyEngine struct {
	name string

	mu        sync.RWMutex
	detectors []NamedAnomalyDetector
	enabled   bool

	statsMu sync.Mutex
	stats   AnomalyStats
}

// NewAnomalyEngine creates an enabled engine with no detectors. name
// identifies the engine in logs.
func NewAnomalyEngine(name string) *AnomalyEngine {
	if name == "" {
		name = "anomaly"
	}
	return &AnomalyEngine{
		name:    name,
		enabled: true,
		stats:   newAnomalyStats(),
	}
}

// Name returns the engine name.
func (e *AnomalyEngine) Name() string {
	return e.name
}

// AddDetector appends fn to the registry. An empty name is derived from the
// function symbol.
func (e *AnomalyEngine) AddDetector(name string, fn AnomalyDetectorFunc) error {
	if fn == nil {
		return ErrInvalidDetector
	}
	if name == "" {
		name = funcName(fn)
	}

	e.mu.Lock()
	e.detectors = append(e.detectors, NamedAnomalyDetector{Name: name, Detect: fn})
	e.mu.Unlock()

	logging.Debug().Str("engine", e.name).Str("detector", name).Msg("Registered anomaly detector")
	return nil
}

// AddDetectors registers each detector in order, stopping at the first error.
func (e *AnomalyEngine) AddDetectors(detectors ...NamedAnomalyDetector) error {
	for _, d := range detectors {
		if err := e.AddDetector(d.Name, d.Detect); err != nil {
			return fmt.Errorf("add detector %q: %w", d.Name, err)
		}
	}
	return nil
}

// ResetDetectors removes every registered detector. Statistics are kept.
func (e *AnomalyEngine) ResetDetectors() {
	e.mu.Lock()
	e.detectors = nil
	e.mu.Unlock()
}

// Detectors returns the registered detector names in registration order.
func (e *AnomalyEngine) Detectors() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name
	}
	return names
}

// SetEnabled toggles whether Detect performs any work.
func (e *AnomalyEngine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
}

// Enabled reports whether the engine is enabled.
func (e *AnomalyEngine) Enabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled
}

// Detect runs every registered detector against rec in registration order
// and returns the accepted anomalies. A disabled engine returns nil and
// leaves statistics untouched.
//
// A detector that returns an error or panics is logged and skipped; its
// candidates for this record are discarded and the remaining detectors
// still run. Candidates failing ValidateAnomaly are logged and dropped.
func (e *AnomalyEngine) Detect(ctx context.Context, rec *Aircraft, actx *AnomalyContext) []Anomaly {
	e.mu.RLock()
	enabled := e.enabled
	detectors := e.detectors
	e.mu.RUnlock()

	if !enabled {
		return nil
	}

	e.statsMu.Lock()
	e.stats.TotalChecks++
	e.statsMu.Unlock()

	if actx == nil {
		actx = &AnomalyContext{}
	}

	var result []Anomaly
	for _, d := range detectors {
		candidates, err := runDetector(d, rec, actx)
		if err != nil {
			logging.Ctx(ctx).Error().
				Err(err).
				Str("engine", e.name).
				Str("detector", d.Name).
				Str("hex", rec.Hex).
				Msg("Anomaly detector failed")
			metrics.RecordDetectorFailure(e.name, d.Name, errors.Is(err, ErrDetectorPanic))
			continue
		}

		for _, candidate := range candidates {
			anomaly, err := ValidateAnomaly(candidate)
			if err != nil {
				logging.Ctx(ctx).Warn().
					Err(err).
					Str("engine", e.name).
					Str("detector", d.Name).
					Str("anomaly_type", candidate.Type).
					Msg("Dropping malformed anomaly")
				metrics.RecordMalformedAnomaly(d.Name)
				continue
			}
			if anomaly.Detector == "" {
				anomaly.Detector = d.Name
			}
			result = append(result, anomaly)
		}
	}

	e.recordStats(result)
	return result
}

func (e *AnomalyEngine) recordStats(anomalies []Anomaly) {
	if len(anomalies) == 0 {
		return
	}

	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	e.stats.TotalAnomalies++
	for i := range anomalies {
		e.stats.ByType[anomalies[i].Type]++
		e.stats.BySeverity[anomalies[i].Severity]++
		metrics.RecordAnomaly(anomalies[i].Type, string(anomalies[i].Severity))
	}
}

// Stats returns a snapshot of the cumulative counters.
func (e *AnomalyEngine) Stats() AnomalyStats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	snapshot := AnomalyStats{
		TotalChecks:    e.stats.TotalChecks,
		TotalAnomalies: e.stats.TotalAnomalies,
		ByType:         make(map[string]int64, len(e.stats.ByType)),
		BySeverity:     make(map[Severity]int64, len(e.stats.BySeverity)),
	}
	for k, v := range e.stats.ByType {
		snapshot.ByType[k] = v
	}
	for k, v := range e.stats.BySeverity {
		snapshot.BySeverity[k] = v
	}
	return snapshot
}

// ClearStats resets the cumulative counters.
func (e *AnomalyEngine) ClearStats() {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats = newAnomalyStats()
}

func runDetector(d NamedAnomalyDetector, rec *Aircraft, actx *AnomalyContext) (anomalies []Anomaly, err error) {
	defer func() {
		if r := recover(); r != nil {
			anomalies = nil
			err = fmt.Errorf("%w: %v", ErrDetectorPanic, r)
		}
	}()
	return d.Detect(rec, actx)
}

// ValidateAnomaly checks the required fields of a candidate and coerces the
// optional ones. Severity outside {low, medium, high} becomes low; a
// confidence that is unset, not finite or outside [0,1] becomes 0.5.
func ValidateAnomaly(a Anomaly) (Anomaly, error) {
	if strings.TrimSpace(a.Type) == "" {
		return Anomaly{}, fmt.Errorf("%w: missing type", ErrMalformedAnomaly)
	}
	if strings.TrimSpace(a.Description) == "" {
		return Anomaly{}, fmt.Errorf("%w: %s: missing description", ErrMalformedAnomaly, a.Type)
	}

	switch a.Severity {
	case SeverityLow, SeverityMedium, SeverityHigh:
	default:
		a.Severity = SeverityLow
	}

	c := a.Confidence
	if c <= 0 || c > 1 || math.IsNaN(c) {
		a.Confidence = DefaultAnomalyConfidence
	}
	return a, nil
}

// funcName returns the unqualified symbol name of fn, e.g. "checkSpeed".
func funcName(fn AnomalyDetectorFunc) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "anonymous"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
