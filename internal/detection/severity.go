// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"cmp"
	"slices"
)

// Severity is a qualitative level in the total order
// info < low < medium < high < critical.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the position of s in the total order. Unknown values rank
// below info.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether s is one of the five defined levels.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

func (s Severity) String() string {
	return string(s)
}

// CompareSeverity orders severities for sorting with the most severe first.
// It returns a negative number when a sorts before b, positive when b sorts
// before a and zero when they are equal.
func CompareSeverity(a, b Severity) int {
	return cmp.Compare(b.Rank(), a.Rank())
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// HighestSeverity returns the most severe level carried by items.
// An empty sequence yields SeverityInfo.
func HighestSeverity[T any](items []T, severityOf func(T) Severity) Severity {
	highest := SeverityInfo
	for _, item := range items {
		highest = MaxSeverity(highest, severityOf(item))
	}
	return highest
}

// SortBySeverity stable-sorts items most severe first. Equal severities are
// ordered by tie when it is non-nil and otherwise keep their input order.
func SortBySeverity[T any](items []T, severityOf func(T) Severity, tie func(a, b T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := CompareSeverity(severityOf(a), severityOf(b)); c != 0 {
			return c
		}
		if tie != nil {
			return tie(a, b)
		}
		return 0
	})
}
