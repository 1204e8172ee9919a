// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"context"
	"sync"
)

// SyncCoordinator serializes evaluations on a shared Coordinator so that the
// HTTP API and the feed consumer can use one instance. Modules keep
// per-evaluation state in the record's scratch area only, so holding the
// lock for a whole record is sufficient.
type SyncCoordinator struct {
	mu sync.Mutex
	c  *Coordinator
}

// NewSyncCoordinator wraps a configured coordinator.
func NewSyncCoordinator(c *Coordinator) *SyncCoordinator {
	return &SyncCoordinator{c: c}
}

// Evaluate classifies a single record.
func (s *SyncCoordinator) Evaluate(ctx context.Context, rec *Aircraft) Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Evaluate(ctx, rec)
}

// EvaluateBatch classifies recs as one unit.
func (s *SyncCoordinator) EvaluateBatch(ctx context.Context, recs []*Aircraft) BatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.EvaluateBatch(ctx, recs)
}

// SortByPrimaryMatch orders evaluated records; see Coordinator.SortByPrimaryMatch.
func (s *SyncCoordinator) SortByPrimaryMatch(recs []*Aircraft) {
	s.c.SortByPrimaryMatch(recs)
}

// Categories returns the category registry.
func (s *SyncCoordinator) Categories() *CategoryRegistry {
	return s.c.Categories()
}

// AnomalyStats returns a snapshot of the engine counters.
func (s *SyncCoordinator) AnomalyStats() AnomalyStats {
	return s.c.Engine().Stats()
}

// ClearAnomalyStats resets the engine counters.
func (s *SyncCoordinator) ClearAnomalyStats() {
	s.c.Engine().ClearStats()
}

// ActiveModules returns the enabled module IDs. Reconfigure replaces the
// module list, so reads take the lock.
func (s *SyncCoordinator) ActiveModules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.ActiveModules()
}

// AnomalyDetectors returns the registered anomaly detector names. Holding
// the lock keeps a concurrent Reconfigure from exposing a half-rebuilt list.
func (s *SyncCoordinator) AnomalyDetectors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Engine().Detectors()
}

// AnomalyDetectionEnabled reports whether the anomaly engine runs.
func (s *SyncCoordinator) AnomalyDetectionEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Engine().Enabled()
}

// Reconfigure applies a new module configuration between evaluations. On
// error the coordinator may be partially configured; callers should treat
// it as fatal or retry with a known-good configuration.
func (s *SyncCoordinator) Reconfigure(cfg CoordinatorConfig, extra map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Configure(cfg, extra)
}
