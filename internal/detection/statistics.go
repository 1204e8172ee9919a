// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

// Statistics aggregates the verdicts of a batch of evaluated records.
type Statistics struct {
	Total         int              `json:"total"`
	Specific      int              `json:"specific"`
	WithAnomalies int              `json:"with_anomalies"`
	Flagged       int              `json:"flagged"`
	ByCategory    map[string]int   `json:"by_category"`
	ByDetector    map[string]int   `json:"by_detector"`
	ByField       map[string]int   `json:"by_field"`
	ByAnomalyType map[string]int   `json:"by_anomaly_type"`
	BySeverity    map[Severity]int `json:"by_severity"`
}

// ComputeStatistics counts primary match categories, and detectors and
// fields over every match (not only the primary), across recs.
func ComputeStatistics(recs []*Aircraft) Statistics {
	stats := Statistics{
		ByCategory:    make(map[string]int),
		ByDetector:    make(map[string]int),
		ByField:       make(map[string]int),
		ByAnomalyType: make(map[string]int),
		BySeverity:    make(map[Severity]int),
	}

	for _, rec := range recs {
		if rec == nil {
			continue
		}
		v := &rec.Calculated.Verdict
		stats.Total++
		if v.IsSpecific {
			stats.Specific++
		}
		if v.HasAnomalies {
			stats.WithAnomalies++
		}
		if v.Flagged() {
			stats.Flagged++
		}

		if v.PrimaryMatch != nil {
			stats.ByCategory[v.PrimaryMatch.Category]++
		}
		for i := range v.Matches {
			stats.ByDetector[v.Matches[i].Detector]++
			if f := v.Matches[i].Field; f != "" {
				stats.ByField[f]++
			}
		}
		for i := range v.Anomalies {
			stats.ByAnomalyType[v.Anomalies[i].Type]++
			stats.BySeverity[v.Anomalies[i].Severity]++
		}
	}
	return stats
}
