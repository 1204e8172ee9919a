// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// stubModule matches every record with a fixed list and optionally
// contributes anomaly detectors.
type stubModule struct {
	id           string
	matches      []Match
	detectors    []NamedAnomalyDetector
	configErr    error
	configured   json.RawMessage
	configCalls  int
	preprocessed int
}

func (m *stubModule) ID() string { return m.id }

func (m *stubModule) Configure(raw json.RawMessage, _ map[string]any, _ *CategoryRegistry) error {
	m.configCalls++
	m.configured = raw
	return m.configErr
}

func (m *stubModule) DetectPrimary(_ *Aircraft, _ *CategoryRegistry) []Match {
	out := make([]Match, len(m.matches))
	copy(out, m.matches)
	return out
}

func (m *stubModule) Preprocess(rec *Aircraft, _ map[string]any) {
	m.preprocessed++
	rec.Calculated.Callsign = strings.ToUpper(strings.TrimSpace(rec.Flight))
}

func (m *stubModule) AnomalyDetectors() []NamedAnomalyDetector {
	return m.detectors
}

// plainModule implements only the required interface.
type plainModule struct {
	id      string
	matches []Match
}

func (m *plainModule) ID() string { return m.id }
func (m *plainModule) Configure(json.RawMessage, map[string]any, *CategoryRegistry) error {
	return nil
}
func (m *plainModule) DetectPrimary(*Aircraft, *CategoryRegistry) []Match { return m.matches }

func newTestCoordinator(t *testing.T, cfg CoordinatorConfig, modules ...Module) *Coordinator {
	t.Helper()
	c := NewCoordinator(DefaultCategoryRegistry(), NewAnomalyEngine("test"), modules...)
	if err := c.Configure(cfg, map[string]any{"site": "test"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	return c
}

func TestCoordinator_PrioritySortSelectsPrimary(t *testing.T) {
	t.Parallel()

	a := &plainModule{id: "a", matches: []Match{{Detector: "a", Category: "military", Field: "hex"}}}
	b := &plainModule{id: "b", matches: []Match{{Detector: "b", Category: "royalty", Field: "flight"}}}
	c := newTestCoordinator(t, CoordinatorConfig{}, a, b)

	rec := &Aircraft{Hex: "43c123"}
	v := c.Evaluate(context.Background(), rec)

	if !v.IsSpecific || len(v.Matches) != 2 {
		t.Fatalf("verdict = %+v, want 2 matches", v)
	}
	if v.Matches[0].Category != "royalty" || v.PrimaryMatch.Category != "royalty" {
		t.Errorf("primary = %s, want royalty", v.PrimaryMatch.Category)
	}
	if !rec.Calculated.Military {
		t.Error("military flag should be set when any match is military")
	}
	if rec.Calculated.Verdict.PrimaryMatch == nil || rec.Calculated.Verdict.PrimaryMatch.Category != "royalty" {
		t.Error("verdict not attached to record")
	}
}

func TestCoordinator_UnknownCategorySortsLastStable(t *testing.T) {
	t.Parallel()

	m := &plainModule{id: "m", matches: []Match{
		{Detector: "m", Category: "mystery", Pattern: "first"},
		{Detector: "m", Category: "special", Pattern: "special"},
		{Detector: "m", Category: "mystery", Pattern: "second"},
		{Detector: "m", Category: "police", Pattern: "police"},
	}}
	c := newTestCoordinator(t, CoordinatorConfig{}, m)

	v := c.Evaluate(context.Background(), &Aircraft{})
	want := []string{"police", "special", "first", "second"}
	for i, w := range want {
		if v.Matches[i].Pattern != w {
			t.Errorf("match %d = %s, want %s", i, v.Matches[i].Pattern, w)
		}
	}
	if v.Matches[2].Confidence != 1 {
		t.Errorf("unset match confidence = %v, want 1", v.Matches[2].Confidence)
	}
}

func TestCoordinator_NoMatchesStillRunsAnomalies(t *testing.T) {
	t.Parallel()

	contextMatches := -1
	m := &stubModule{id: "stub", detectors: []NamedAnomalyDetector{{
		Name: "short",
		Detect: func(rec *Aircraft, actx *AnomalyContext) ([]Anomaly, error) {
			contextMatches = len(actx.Matches)
			if len(rec.Calculated.Callsign) < 2 {
				return []Anomaly{{Type: "callsign-too-short", Description: "short", Severity: SeverityHigh}}, nil
			}
			return nil, nil
		},
	}}}
	c := newTestCoordinator(t, CoordinatorConfig{}, m)

	rec := &Aircraft{Flight: "x "}
	v := c.Evaluate(context.Background(), rec)

	if v.IsSpecific || v.PrimaryMatch != nil || len(v.Matches) != 0 {
		t.Errorf("verdict should not be specific: %+v", v)
	}
	if contextMatches != 0 {
		t.Errorf("anomaly context had %d matches, want 0", contextMatches)
	}
	if !v.HasAnomalies || v.HighestSeverity != SeverityHigh {
		t.Errorf("verdict anomalies = %+v", v)
	}
	if m.preprocessed != 1 || rec.Calculated.Callsign != "X" {
		t.Errorf("preprocess not applied: calls=%d callsign=%q", m.preprocessed, rec.Calculated.Callsign)
	}
	if !v.Flagged() {
		t.Error("record with anomalies should be flagged")
	}
}

func TestCoordinator_AnomaliesSortedAndContextHasSortedMatches(t *testing.T) {
	t.Parallel()

	var seen []Match
	m := &stubModule{
		id: "stub",
		matches: []Match{
			{Detector: "stub", Category: "military"},
			{Detector: "stub", Category: "government"},
		},
		detectors: []NamedAnomalyDetector{{
			Name: "many",
			Detect: func(_ *Aircraft, actx *AnomalyContext) ([]Anomaly, error) {
				seen = actx.Matches
				return []Anomaly{
					{Type: "low", Description: "d", Severity: SeverityLow, Confidence: 1},
					{Type: "high-weak", Description: "d", Severity: SeverityHigh, Confidence: 0.3},
					{Type: "high-strong", Description: "d", Severity: SeverityHigh, Confidence: 0.9},
				}, nil
			},
		}},
	}
	c := newTestCoordinator(t, CoordinatorConfig{}, m)

	v := c.Evaluate(context.Background(), &Aircraft{})

	want := []string{"high-strong", "high-weak", "low"}
	for i, w := range want {
		if v.Anomalies[i].Type != w {
			t.Errorf("anomaly %d = %s, want %s", i, v.Anomalies[i].Type, w)
		}
	}
	if len(seen) != 2 || seen[0].Category != "government" {
		t.Errorf("anomaly context matches = %+v, want sorted list", seen)
	}
}

func TestCoordinator_ConfigureModuleToggles(t *testing.T) {
	t.Parallel()

	enabled := &stubModule{id: "enabled", matches: []Match{{Detector: "enabled", Category: "test"}},
		detectors: []NamedAnomalyDetector{{Name: "enabled-check", Detect: detectorReturning()}}}
	disabled := &stubModule{id: "disabled", matches: []Match{{Detector: "disabled", Category: "royalty"}},
		detectors: []NamedAnomalyDetector{{Name: "disabled-check", Detect: detectorReturning()}}}

	off := false
	cfg := CoordinatorConfig{
		DetectAnomalies: &off,
		Modules: map[string]json.RawMessage{
			"enabled":  json.RawMessage(`{"threshold": 3}`),
			"disabled": json.RawMessage(`{"enabled": false}`),
			"unknown":  json.RawMessage(`{}`),
		},
	}
	c := newTestCoordinator(t, cfg, enabled, disabled)

	if ids := c.ActiveModules(); len(ids) != 1 || ids[0] != "enabled" {
		t.Errorf("ActiveModules() = %v, want [enabled]", ids)
	}
	if disabled.configCalls != 0 {
		t.Error("disabled module should not be configured")
	}
	if string(enabled.configured) != `{"threshold": 3}` {
		t.Errorf("module received %s", enabled.configured)
	}
	if names := c.Engine().Detectors(); len(names) != 1 || names[0] != "enabled-check" {
		t.Errorf("engine detectors = %v", names)
	}
	if c.Engine().Enabled() {
		t.Error("detect_anomalies=false should disable the engine")
	}

	v := c.Evaluate(context.Background(), &Aircraft{})
	if v.PrimaryMatch == nil || v.PrimaryMatch.Category != "test" {
		t.Errorf("disabled module contributed matches: %+v", v)
	}

	// Reconfiguring replaces the detector registry rather than appending.
	if err := c.Configure(CoordinatorConfig{}, nil); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	if n := len(c.Engine().Detectors()); n != 2 {
		t.Errorf("detectors after reconfigure = %d, want 2", n)
	}
	if !c.Engine().Enabled() {
		t.Error("engine should default to enabled")
	}
}

func TestCoordinator_ConfigureErrorsAreFatal(t *testing.T) {
	t.Parallel()

	broken := &stubModule{id: "broken", configErr: errors.New("bad regex")}
	c := NewCoordinator(nil, nil, broken)
	err := c.Configure(CoordinatorConfig{}, nil)
	if err == nil || !strings.Contains(err.Error(), "configure module broken") {
		t.Errorf("Configure error = %v", err)
	}

	invalid := &stubModule{id: "invalid", detectors: []NamedAnomalyDetector{{Name: "nil"}}}
	c = NewCoordinator(nil, nil, invalid)
	if err := c.Configure(CoordinatorConfig{}, nil); !errors.Is(err, ErrInvalidDetector) {
		t.Errorf("Configure error = %v, want ErrInvalidDetector", err)
	}

	c = NewCoordinator(nil, nil, &plainModule{id: "p"})
	err = c.Configure(CoordinatorConfig{Modules: map[string]json.RawMessage{"p": json.RawMessage(`[1,2]`)}}, nil)
	if err == nil {
		t.Error("malformed module section should fail")
	}
}

func TestCoordinator_DetectPrimaryPanicPropagates(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(nil, nil, &panicModule{})
	defer func() {
		if recover() == nil {
			t.Error("expected DetectPrimary panic to propagate")
		}
	}()
	c.Evaluate(context.Background(), &Aircraft{})
}

type panicModule struct{ plainModule }

func (*panicModule) DetectPrimary(*Aircraft, *CategoryRegistry) []Match {
	panic("table index out of range")
}

func TestCoordinator_EvaluateResetsPreviousVerdict(t *testing.T) {
	t.Parallel()

	m := &plainModule{id: "m", matches: []Match{{Detector: "m", Category: "military"}}}
	c := newTestCoordinator(t, CoordinatorConfig{}, m)

	rec := &Aircraft{}
	c.Evaluate(context.Background(), rec)
	m.matches = nil
	v := c.Evaluate(context.Background(), rec)

	if v.IsSpecific || rec.Calculated.Military || rec.Calculated.Verdict.IsSpecific {
		t.Error("second evaluation should reset classification state")
	}
}

func TestCoordinator_ClearsClientSuppliedScratch(t *testing.T) {
	t.Parallel()

	var seenHex string
	m := &stubModule{id: "m", detectors: []NamedAnomalyDetector{{
		Name: "peek",
		Detect: func(rec *Aircraft, _ *AnomalyContext) ([]Anomaly, error) {
			seenHex = rec.Calculated.Hex
			return nil, nil
		},
	}}}
	c := newTestCoordinator(t, CoordinatorConfig{}, m)

	var rec Aircraft
	if err := json.Unmarshal([]byte(`{"hex":"ae1234","calculated":{"hex":"43c000","military":true,"distance_nm":3}}`), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	c.Evaluate(context.Background(), &rec)

	if seenHex != "" {
		t.Errorf("detector saw calculated.hex %q from the request", seenHex)
	}
	if rec.Calculated.Military || rec.Calculated.DistanceNM != nil {
		t.Errorf("request scratch survived evaluation: %+v", rec.Calculated)
	}
}

func TestCoordinator_CategoryCaseDoesNotSplitMilitary(t *testing.T) {
	t.Parallel()

	var sawMilitary bool
	m := &stubModule{
		id:      "m",
		matches: []Match{{Detector: "m", Category: " Military "}},
		detectors: []NamedAnomalyDetector{{
			Name: "ctx",
			Detect: func(_ *Aircraft, actx *AnomalyContext) ([]Anomaly, error) {
				sawMilitary = actx.HasCategory(CategoryMilitary)
				return nil, nil
			},
		}},
	}
	c := newTestCoordinator(t, CoordinatorConfig{}, m)

	rec := &Aircraft{Hex: "ae1234"}
	v := c.Evaluate(context.Background(), rec)

	if v.PrimaryMatch == nil || v.PrimaryMatch.Category != CategoryMilitary {
		t.Fatalf("primary match = %+v, want category %q", v.PrimaryMatch, CategoryMilitary)
	}
	if !rec.Calculated.Military {
		t.Error("Calculated.Military = false for a Military match")
	}
	if !sawMilitary {
		t.Error("AnomalyContext.HasCategory(military) = false")
	}
}

func TestAnomalyContext_HasCategoryIgnoresCase(t *testing.T) {
	t.Parallel()

	actx := &AnomalyContext{Matches: []Match{{Category: "Government"}}}
	if !actx.HasCategory("government") || !actx.HasCategory(" GOVERNMENT") {
		t.Error("HasCategory should compare normalized names")
	}
	if actx.HasCategory("military") {
		t.Error("HasCategory(military) = true")
	}
}

func TestCoordinator_EvaluateBatchAndSort(t *testing.T) {
	t.Parallel()

	c := newTestCoordinator(t, CoordinatorConfig{}, &hexCategoryModule{})

	recs := []*Aircraft{
		{Hex: "plain"},
		{Hex: "military:0.6"},
		{Hex: "royalty:1"},
		nil,
		{Hex: "military:0.9"},
	}
	res := c.EvaluateBatch(context.Background(), recs)
	if res.Evaluated != 4 {
		t.Errorf("Evaluated = %d, want 4", res.Evaluated)
	}
	if len(res.Flagged) != 3 {
		t.Fatalf("Flagged = %d, want 3", len(res.Flagged))
	}

	c.SortByPrimaryMatch(res.Flagged)
	want := []string{"royalty:1", "military:0.9", "military:0.6"}
	for i, w := range want {
		if res.Flagged[i].Hex != w {
			t.Errorf("sorted[%d] = %s, want %s", i, res.Flagged[i].Hex, w)
		}
	}
}

func TestSortByPrimaryMatch_UnmatchedLast(t *testing.T) {
	t.Parallel()

	reg := DefaultCategoryRegistry()
	withMatch := func(hex, category string) *Aircraft {
		rec := &Aircraft{Hex: hex}
		rec.Calculated.Verdict = Verdict{IsSpecific: true, Matches: []Match{{Category: category}}}
		rec.Calculated.Verdict.PrimaryMatch = &rec.Calculated.Verdict.Matches[0]
		return rec
	}

	recs := []*Aircraft{{Hex: "none-1"}, withMatch("mil", "military"), {Hex: "none-2"}, withMatch("gov", "government")}
	SortByPrimaryMatch(recs, reg)

	want := []string{"gov", "mil", "none-1", "none-2"}
	for i, w := range want {
		if recs[i].Hex != w {
			t.Errorf("sorted[%d] = %s, want %s", i, recs[i].Hex, w)
		}
	}
}

// hexCategoryModule reads "category:confidence" from the hex field.
type hexCategoryModule struct{ plainModule }

func (*hexCategoryModule) ID() string { return "hexcat" }

func (*hexCategoryModule) DetectPrimary(rec *Aircraft, _ *CategoryRegistry) []Match {
	category, conf, ok := strings.Cut(rec.Hex, ":")
	if !ok {
		return nil
	}
	c := 1.0
	if conf == "0.6" {
		c = 0.6
	} else if conf == "0.9" {
		c = 0.9
	}
	return []Match{{Detector: "hexcat", Field: "hex", Category: category, Confidence: c, Value: rec.Hex}}
}

func TestModuleEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    bool
		wantErr bool
	}{
		{"", true, false},
		{"null", true, false},
		{`{}`, true, false},
		{`{"enabled": true}`, true, false},
		{`{"enabled": false, "prefixes": []}`, false, false},
		{`"yes"`, false, true},
	}
	for _, tt := range tests {
		got, err := ModuleEnabled(json.RawMessage(tt.raw))
		if (err != nil) != tt.wantErr {
			t.Errorf("ModuleEnabled(%s) error = %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ModuleEnabled(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSyncCoordinator(t *testing.T) {
	t.Parallel()

	m := &stubModule{id: "stub", detectors: []NamedAnomalyDetector{{
		Name:   "always",
		Detect: detectorReturning(Anomaly{Type: "x", Description: "y"}),
	}}}
	s := NewSyncCoordinator(newTestCoordinator(t, CoordinatorConfig{}, m))

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 25; j++ {
				s.Evaluate(context.Background(), &Aircraft{Flight: "abc"})
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	if got := s.AnomalyStats().TotalChecks; got != 100 {
		t.Errorf("TotalChecks = %d, want 100", got)
	}
	s.ClearAnomalyStats()
	if got := s.AnomalyStats().TotalChecks; got != 0 {
		t.Errorf("TotalChecks after clear = %d", got)
	}
}
