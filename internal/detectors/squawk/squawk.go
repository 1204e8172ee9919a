// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package squawk classifies aircraft by Mode A transponder code.
package squawk

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/validation"
)

// ID is the module identifier.
const ID = "squawk"

// Well-known emergency codes.
const (
	Hijack        = "7500"
	RadioFailure  = "7600"
	Emergency     = "7700"
	AnomalyFormat = "squawk-invalid"
)

// CodeRule maps a squawk code to a category.
type CodeRule struct {
	Code        string  `json:"code" validate:"required,squawk"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Config configures the squawk module.
type Config struct {
	Codes []CodeRule `json:"codes" validate:"dive"`
}

// DefaultConfig returns the built-in code list.
func DefaultConfig() Config {
	return Config{
		Codes: []CodeRule{
			{Code: Hijack, Category: "emergency", Description: "Unlawful interference"},
			{Code: RadioFailure, Category: "emergency", Description: "Radio failure"},
			{Code: Emergency, Category: "emergency", Description: "General emergency"},
			{Code: "7400", Category: "special", Description: "Lost link (unmanned aircraft)", Confidence: 0.8},
			{Code: "7777", Category: "military", Description: "Military interception", Confidence: 0.7},
		},
	}
}

// Module is the squawk detector module.
type Module struct {
	mu    sync.RWMutex
	codes map[string]CodeRule
}

// New creates a squawk module loaded with DefaultConfig.
func New() *Module {
	m := &Module{}
	m.apply(DefaultConfig())
	return m
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return ID
}

// Configure replaces the code list.
func (m *Module) Configure(raw json.RawMessage, _ map[string]any, categories *detection.CategoryRegistry) error {
	cfg := DefaultConfig()
	if err := detection.DecodeModuleConfig(raw, &cfg); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		return fmt.Errorf("invalid squawk config: %w", err)
	}
	for _, c := range cfg.Codes {
		if _, ok := categories.Lookup(c.Category); !ok {
			logging.Warn().Str("module", ID).Str("code", c.Code).
				Str("category", c.Category).Msg("Rule references unknown category; it will sort last")
		}
	}
	m.apply(cfg)
	return nil
}

func (m *Module) apply(cfg Config) {
	codes := make(map[string]CodeRule, len(cfg.Codes))
	for _, c := range cfg.Codes {
		codes[c.Code] = c
	}
	m.mu.Lock()
	m.codes = codes
	m.mu.Unlock()
}

// Preprocess stores the trimmed squawk code in the scratch area.
func (m *Module) Preprocess(rec *detection.Aircraft, _ map[string]any) {
	rec.Calculated.Squawk = strings.TrimSpace(rec.Squawk)
}

func squawkOf(rec *detection.Aircraft) string {
	if rec.Calculated.Squawk != "" {
		return rec.Calculated.Squawk
	}
	return strings.TrimSpace(rec.Squawk)
}

// IsEmergency reports whether code is 7500, 7600 or 7700.
func IsEmergency(code string) bool {
	switch code {
	case Hijack, RadioFailure, Emergency:
		return true
	}
	return false
}

// DetectPrimary matches the squawk code against the configured list.
func (m *Module) DetectPrimary(rec *detection.Aircraft, _ *detection.CategoryRegistry) []detection.Match {
	code := squawkOf(rec)
	if code == "" {
		return nil
	}

	m.mu.RLock()
	rule, ok := m.codes[code]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return []detection.Match{{
		Detector:    ID,
		Field:       "squawk",
		Pattern:     rule.Code,
		Category:    rule.Category,
		Description: rule.Description,
		Confidence:  rule.Confidence,
		Value:       code,
	}}
}

// AnomalyDetectors returns the squawk format detector.
func (m *Module) AnomalyDetectors() []detection.NamedAnomalyDetector {
	return []detection.NamedAnomalyDetector{{Name: "squawk-format", Detect: checkFormat}}
}

func checkFormat(rec *detection.Aircraft, _ *detection.AnomalyContext) ([]detection.Anomaly, error) {
	code := squawkOf(rec)
	if code == "" || validation.IsSquawk(code) {
		return nil, nil
	}
	return []detection.Anomaly{{
		Type:        AnomalyFormat,
		Severity:    detection.SeverityMedium,
		Confidence:  0.9,
		Description: "Squawk is not a four digit octal code",
		Field:       "squawk",
		Value:       rec.Squawk,
	}}, nil
}
