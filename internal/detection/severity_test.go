// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"testing"
)

var orderedSeverities = []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func TestCompareSeverity_TotalOrder(t *testing.T) {
	t.Parallel()

	for i, a := range orderedSeverities {
		for j, b := range orderedSeverities {
			got := CompareSeverity(a, b)
			switch {
			case i == j && got != 0:
				t.Errorf("CompareSeverity(%s, %s) = %d, want 0", a, b, got)
			case i > j && got >= 0:
				t.Errorf("CompareSeverity(%s, %s) = %d, want negative (more severe first)", a, b, got)
			case i < j && got <= 0:
				t.Errorf("CompareSeverity(%s, %s) = %d, want positive", a, b, got)
			}
			if back := CompareSeverity(b, a); (got < 0) != (back > 0) || (got == 0) != (back == 0) {
				t.Errorf("CompareSeverity not antisymmetric for %s, %s: %d vs %d", a, b, got, back)
			}
		}
	}
}

func TestSeverity_RankAndValid(t *testing.T) {
	t.Parallel()

	for i, s := range orderedSeverities {
		if s.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", s, s.Rank(), i)
		}
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Severity("severe").Valid() {
		t.Error("unknown severity should be invalid")
	}
	if Severity("severe").Rank() >= SeverityInfo.Rank() {
		t.Error("unknown severity should rank below info")
	}
}

func TestHighestSeverity(t *testing.T) {
	t.Parallel()

	if got := HighestSeverity([]Anomaly{}, anomalySeverity); got != SeverityInfo {
		t.Errorf("HighestSeverity([]) = %s, want info", got)
	}
	if got := HighestSeverity[Anomaly](nil, anomalySeverity); got != SeverityInfo {
		t.Errorf("HighestSeverity(nil) = %s, want info", got)
	}

	items := []Anomaly{{Severity: SeverityLow}, {Severity: SeverityHigh}, {Severity: SeverityMedium}}
	if got := HighestSeverity(items, anomalySeverity); got != SeverityHigh {
		t.Errorf("HighestSeverity = %s, want high", got)
	}
}

func TestSortBySeverity_TieBreak(t *testing.T) {
	t.Parallel()

	anomalies := []Anomaly{
		{Type: "a", Severity: SeverityLow, Confidence: 0.9},
		{Type: "b", Severity: SeverityHigh, Confidence: 0.4},
		{Type: "c", Severity: SeverityHigh, Confidence: 0.8},
		{Type: "d", Severity: SeverityMedium, Confidence: 0.5},
		{Type: "e", Severity: SeverityHigh, Confidence: 0.8},
	}
	SortAnomalies(anomalies)

	want := []string{"c", "e", "b", "d", "a"}
	for i, w := range want {
		if anomalies[i].Type != w {
			t.Errorf("position %d = %s, want %s", i, anomalies[i].Type, w)
		}
	}
}

func TestMaxSeverity(t *testing.T) {
	t.Parallel()

	if MaxSeverity(SeverityLow, SeverityCritical) != SeverityCritical {
		t.Error("critical should win over low")
	}
	if MaxSeverity(SeverityMedium, Severity("bogus")) != SeverityMedium {
		t.Error("unknown severity should not win")
	}
}
