// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package crosscheck

// PerformanceLimit bounds what an aircraft of one ADS-B emitter category can
// plausibly do. A zero bound is not checked.
type PerformanceLimit struct {
	CeilingFt       float64 `json:"ceiling_ft" validate:"gte=0"`
	MaxVerticalRate float64 `json:"max_vertical_rate_fpm" validate:"gte=0"`
	MaxGroundSpeed  float64 `json:"max_ground_speed_kt" validate:"gte=0"`
}

// DefaultPerformance returns limits keyed by ADS-B emitter category. The
// bounds are generous: they catch corrupt data, not unusual flying.
func DefaultPerformance() map[string]PerformanceLimit {
	return map[string]PerformanceLimit{
		"A1": {CeilingFt: 30000, MaxVerticalRate: 3000, MaxGroundSpeed: 300},  // light
		"A2": {CeilingFt: 51000, MaxVerticalRate: 8000, MaxGroundSpeed: 600},  // small
		"A3": {CeilingFt: 45000, MaxVerticalRate: 7000, MaxGroundSpeed: 700},  // large
		"A4": {CeilingFt: 45000, MaxVerticalRate: 7000, MaxGroundSpeed: 700},  // B757
		"A5": {CeilingFt: 45000, MaxVerticalRate: 6000, MaxGroundSpeed: 750},  // heavy
		"A7": {CeilingFt: 25000, MaxVerticalRate: 4000, MaxGroundSpeed: 250},  // rotorcraft
		"B1": {CeilingFt: 40000, MaxVerticalRate: 3000, MaxGroundSpeed: 250},  // glider
		"B2": {CeilingFt: 130000, MaxVerticalRate: 3000, MaxGroundSpeed: 250}, // balloon
		"B4": {CeilingFt: 18000, MaxVerticalRate: 2000, MaxGroundSpeed: 150},  // ultralight
		"B6": {CeilingFt: 65000, MaxVerticalRate: 8000, MaxGroundSpeed: 500},  // UAV
	}
}

func (m *Module) limitFor(category string) (PerformanceLimit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.performance[category]
	return l, ok
}
