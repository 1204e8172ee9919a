// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
)

// CoordinatorConfig configures a Coordinator.
type CoordinatorConfig struct {
	// DetectAnomalies enables the anomaly engine. Nil means enabled.
	DetectAnomalies *bool `json:"detect_anomalies,omitempty"`

	// Modules holds one raw section per module ID.
	Modules map[string]json.RawMessage `json:"modules,omitempty"`
}

// AnomaliesEnabled resolves DetectAnomalies against its default.
func (c CoordinatorConfig) AnomaliesEnabled() bool {
	return c.DetectAnomalies == nil || *c.DetectAnomalies
}

// BatchResult is the outcome of EvaluateBatch.
type BatchResult struct {
	Evaluated int         `json:"evaluated"`
	Flagged   []*Aircraft `json:"flagged"`
}

// Coordinator composes detector modules behind a single evaluation call.
//
// Modules run in registration order. Configure must complete before the
// first Evaluate and must not race with it.
type Coordinator struct {
	categories *CategoryRegistry
	engine     *AnomalyEngine
	modules    []Module
	active     []Module
	extra      map[string]any
}

// NewCoordinator creates a coordinator over modules. A nil registry uses
// DefaultCategoryRegistry and a nil engine gets a fresh AnomalyEngine.
// Until Configure runs, every module is active with its own defaults and no
// anomaly detectors are registered.
func NewCoordinator(categories *CategoryRegistry, engine *AnomalyEngine, modules ...Module) *Coordinator {
	if categories == nil {
		categories = DefaultCategoryRegistry()
	}
	if engine == nil {
		engine = NewAnomalyEngine("anomaly")
	}
	return &Coordinator{
		categories: categories,
		engine:     engine,
		modules:    modules,
		active:     modules,
	}
}

// Categories returns the category registry.
func (c *Coordinator) Categories() *CategoryRegistry {
	return c.categories
}

// Engine returns the shared anomaly engine.
func (c *Coordinator) Engine() *AnomalyEngine {
	return c.engine
}

// ActiveModules returns the IDs of the enabled modules in evaluation order.
func (c *Coordinator) ActiveModules() []string {
	ids := make([]string, len(c.active))
	for i, m := range c.active {
		ids[i] = m.ID()
	}
	return ids
}

// Configure enables, configures and wires the modules. Calling it again
// replaces the previous configuration, including registered anomaly
// detectors.
func (c *Coordinator) Configure(cfg CoordinatorConfig, extra map[string]any) error {
	c.engine.ResetDetectors()
	c.engine.SetEnabled(cfg.AnomaliesEnabled())

	known := make(map[string]bool, len(c.modules))
	active := make([]Module, 0, len(c.modules))
	for _, m := range c.modules {
		id := m.ID()
		known[id] = true
		raw := cfg.Modules[id]

		enabled, err := ModuleEnabled(raw)
		if err != nil {
			return fmt.Errorf("configure module %s: %w", id, err)
		}
		if !enabled {
			logging.Info().Str("module", id).Msg("Detector module disabled")
			continue
		}

		if err := m.Configure(raw, extra, c.categories); err != nil {
			return fmt.Errorf("configure module %s: %w", id, err)
		}
		if src, ok := m.(AnomalySource); ok {
			if err := c.engine.AddDetectors(src.AnomalyDetectors()...); err != nil {
				return fmt.Errorf("configure module %s: %w", id, err)
			}
		}
		active = append(active, m)
	}

	for id := range cfg.Modules {
		if !known[id] {
			logging.Warn().Str("module", id).Msg("Ignoring configuration for unknown detector module")
		}
	}

	c.active = active
	c.extra = extra

	logging.Info().
		Strs("modules", c.ActiveModules()).
		Int("anomaly_detectors", len(c.engine.Detectors())).
		Bool("detect_anomalies", c.engine.Enabled()).
		Msg("Classification coordinator configured")
	return nil
}

// Evaluate classifies rec, attaches the Verdict to rec.Calculated and
// returns it.
func (c *Coordinator) Evaluate(ctx context.Context, rec *Aircraft) Verdict {
	start := time.Now()

	// Calculated may arrive populated from decoded JSON; only this
	// evaluation's preprocessors may fill it.
	rec.Calculated = Calculated{}

	for _, m := range c.active {
		if p, ok := m.(Preprocessor); ok {
			p.Preprocess(rec, c.extra)
		}
	}

	var matches []Match
	for _, m := range c.active {
		matches = append(matches, m.DetectPrimary(rec, c.categories)...)
	}

	var verdict Verdict
	if len(matches) > 0 {
		for i := range matches {
			matches[i].Category = normalizeCategory(matches[i].Category)
			matches[i].Confidence = matches[i].EffectiveConfidence()
			metrics.RecordMatch(matches[i].Detector, matches[i].Category)
		}
		SortMatchesByPriority(matches, c.categories)
		verdict.IsSpecific = true
		verdict.Matches = matches
		verdict.PrimaryMatch = &matches[0]
	}

	anomalies := c.engine.Detect(ctx, rec, &AnomalyContext{
		Matches:    slices.Clone(matches),
		Categories: c.categories,
		Extra:      c.extra,
	})
	if len(anomalies) > 0 {
		SortAnomalies(anomalies)
		verdict.Anomalies = anomalies
		verdict.HasAnomalies = true
	}
	verdict.HighestSeverity = HighestSeverity(anomalies, anomalySeverity)

	rec.Calculated.Verdict = verdict
	rec.Calculated.Military = hasMilitaryMatch(matches)

	primary := ""
	if verdict.PrimaryMatch != nil {
		primary = verdict.PrimaryMatch.Category
	}
	metrics.RecordEvaluation(verdict.IsSpecific, verdict.Flagged(), primary, time.Since(start))
	return verdict
}

// EvaluateBatch evaluates every record in order and collects those that are
// specific or carry anomalies.
func (c *Coordinator) EvaluateBatch(ctx context.Context, recs []*Aircraft) BatchResult {
	result := BatchResult{Flagged: make([]*Aircraft, 0)}
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		v := c.Evaluate(ctx, rec)
		result.Evaluated++
		if v.Flagged() {
			result.Flagged = append(result.Flagged, rec)
		}
	}
	return result
}

// SortByPrimaryMatch orders evaluated records by primary match category
// priority, then by primary match confidence descending. Records without a
// primary match keep their relative order after all others.
func (c *Coordinator) SortByPrimaryMatch(recs []*Aircraft) {
	SortByPrimaryMatch(recs, c.categories)
}

// SortByPrimaryMatch is the registry-parameterized form of
// Coordinator.SortByPrimaryMatch.
func SortByPrimaryMatch(recs []*Aircraft, categories *CategoryRegistry) {
	slices.SortStableFunc(recs, func(a, b *Aircraft) int {
		pa, pb := a.Calculated.Verdict.PrimaryMatch, b.Calculated.Verdict.PrimaryMatch
		switch {
		case pa == nil && pb == nil:
			return 0
		case pa == nil:
			return 1
		case pb == nil:
			return -1
		}
		if c := cmp.Compare(categories.Priority(pa.Category), categories.Priority(pb.Category)); c != 0 {
			return c
		}
		return cmp.Compare(pb.EffectiveConfidence(), pa.EffectiveConfidence())
	})
}

// SortMatchesByPriority stable-sorts matches by category priority ascending.
// Equal priorities keep discovery order.
func SortMatchesByPriority(matches []Match, categories *CategoryRegistry) {
	sort.SliceStable(matches, func(i, j int) bool {
		return categories.Priority(matches[i].Category) < categories.Priority(matches[j].Category)
	})
}

// SortAnomalies stable-sorts anomalies by severity, then confidence, both
// descending.
func SortAnomalies(anomalies []Anomaly) {
	SortBySeverity(anomalies, anomalySeverity, func(a, b Anomaly) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
}

func anomalySeverity(a Anomaly) Severity {
	return a.Severity
}

func hasMilitaryMatch(matches []Match) bool {
	for i := range matches {
		if matches[i].Category == CategoryMilitary {
			return true
		}
	}
	return false
}
