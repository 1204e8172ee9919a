// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package crosscheck compares fields of one record against each other and
// against the aircraft database flags readsb attaches to it.
package crosscheck

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/validation"
)

// ID is the module identifier.
const ID = "crosscheck"

// readsb dbFlags bits.
const (
	FlagMilitary    = 1
	FlagInteresting = 2
	FlagPIA         = 4
	FlagLADD        = 8
)

// FlagRule maps a dbFlags bit to a category.
type FlagRule struct {
	Bit         int     `json:"bit" validate:"oneof=1 2 4 8"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Config configures the cross-check module.
type Config struct {
	Flags       []FlagRule                  `json:"flags" validate:"dive"`
	Performance map[string]PerformanceLimit `json:"performance" validate:"dive"`
}

// DefaultConfig returns the built-in flag rules and performance table.
func DefaultConfig() Config {
	return Config{
		Flags: []FlagRule{
			{Bit: FlagMilitary, Category: "military", Description: "Database flags aircraft as military"},
			{Bit: FlagPIA, Category: "special", Description: "Privacy ICAO address", Confidence: 0.8},
			{Bit: FlagInteresting, Category: "special", Description: "Database flags aircraft as interesting", Confidence: 0.6},
		},
		Performance: DefaultPerformance(),
	}
}

// Module is the cross-check detector module.
type Module struct {
	mu          sync.RWMutex
	flags       []FlagRule
	performance map[string]PerformanceLimit
}

// New creates a cross-check module loaded with DefaultConfig.
func New() *Module {
	m := &Module{}
	m.apply(DefaultConfig())
	return m
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return ID
}

// Configure replaces the flag rules and merges performance overrides into
// the default table.
func (m *Module) Configure(raw json.RawMessage, _ map[string]any, categories *detection.CategoryRegistry) error {
	cfg := DefaultConfig()
	cfg.Performance = nil
	if err := detection.DecodeModuleConfig(raw, &cfg); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		return fmt.Errorf("invalid crosscheck config: %w", err)
	}

	perf := DefaultPerformance()
	for k, v := range cfg.Performance {
		perf[k] = v
	}
	cfg.Performance = perf

	for _, f := range cfg.Flags {
		if _, ok := categories.Lookup(f.Category); !ok {
			logging.Warn().Str("module", ID).Int("bit", f.Bit).
				Str("category", f.Category).Msg("Rule references unknown category; it will sort last")
		}
	}
	m.apply(cfg)
	return nil
}

func (m *Module) apply(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags = cfg.Flags
	m.performance = cfg.Performance
}

// DetectPrimary reports one match per configured dbFlags bit set on rec.
func (m *Module) DetectPrimary(rec *detection.Aircraft, _ *detection.CategoryRegistry) []detection.Match {
	if rec.DBFlags == 0 {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []detection.Match
	for _, f := range m.flags {
		if rec.DBFlags&f.Bit == 0 {
			continue
		}
		matches = append(matches, detection.Match{
			Detector:    ID,
			Field:       "dbFlags",
			Pattern:     strconv.Itoa(f.Bit),
			Category:    f.Category,
			Description: f.Description,
			Confidence:  f.Confidence,
			Value:       strconv.Itoa(rec.DBFlags),
		})
	}
	return matches
}
