// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package callsign classifies aircraft by their transmitted callsign.
//
// Rules come in two forms. Prefix rules ("RCH" -> military) are resolved
// with a prefix trie, longest prefix wins. Pattern rules are regular
// expressions compiled once at Configure time and all reported.
package callsign

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/cache"
	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/validation"
)

// ID is the module identifier.
const ID = "callsign"

// PrefixRule maps a callsign prefix to a category.
type PrefixRule struct {
	Prefix      string  `json:"prefix" validate:"required,max=8"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// PatternRule maps a regular expression over the callsign to a category.
type PatternRule struct {
	Pattern     string  `json:"pattern" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Config configures the callsign module.
type Config struct {
	Prefixes     []PrefixRule  `json:"prefixes" validate:"dive"`
	Patterns     []PatternRule `json:"patterns" validate:"dive"`
	MinLength    int           `json:"min_length" validate:"gte=1,lte=8"`
	MaxLength    int           `json:"max_length" validate:"gtefield=MinLength"`
	Placeholders []string      `json:"placeholders"`
}

// DefaultConfig returns the built-in callsign rules.
func DefaultConfig() Config {
	return Config{
		Prefixes: []PrefixRule{
			{Prefix: "KRF", Category: "royalty", Description: "The King's Flight"},
			{Prefix: "SAM", Category: "government", Description: "US Special Air Mission", Confidence: 0.9},
			{Prefix: "RCH", Category: "military", Description: "USAF Air Mobility Command (Reach)"},
			{Prefix: "RRR", Category: "military", Description: "Royal Air Force (Ascot)"},
			{Prefix: "ASY", Category: "military", Description: "Royal Australian Air Force"},
			{Prefix: "CFC", Category: "military", Description: "Canadian Forces"},
			{Prefix: "GAF", Category: "military", Description: "German Air Force"},
			{Prefix: "IAM", Category: "military", Description: "Italian Air Force"},
			{Prefix: "CTM", Category: "military", Description: "French Air and Space Force (Cotam)"},
			{Prefix: "NATO", Category: "military", Description: "NATO AWACS"},
			{Prefix: "UKP", Category: "police", Description: "UK National Police Air Service"},
			{Prefix: "HLE", Category: "medical", Description: "Air ambulance (Helimed)"},
			{Prefix: "RESCUE", Category: "emergency", Description: "Search and rescue"},
		},
		Patterns: []PatternRule{
			{Pattern: `^MEDEVAC\d*$`, Category: "medical", Description: "Medical evacuation flight", Confidence: 0.9},
			{Pattern: `^TEST\d{1,4}$`, Category: "test", Description: "Test flight", Confidence: 0.7},
		},
		MinLength:    2,
		MaxLength:    8,
		Placeholders: []string{"00000000", "--------", "????????"},
	}
}

type compiledPattern struct {
	rule PatternRule
	re   *regexp.Regexp
}

// Module is the callsign detector module.
type Module struct {
	mu           sync.RWMutex
	config       Config
	prefixes     *cache.Trie[PrefixRule]
	patterns     []compiledPattern
	placeholders map[string]bool
}

// New creates a callsign module loaded with DefaultConfig.
func New() *Module {
	m := &Module{}
	if err := m.apply(DefaultConfig()); err != nil {
		panic(fmt.Sprintf("callsign: invalid default config: %v", err))
	}
	return m
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return ID
}

// Configure replaces the rules. Fields missing from raw keep their defaults.
func (m *Module) Configure(raw json.RawMessage, _ map[string]any, categories *detection.CategoryRegistry) error {
	cfg := DefaultConfig()
	if err := detection.DecodeModuleConfig(raw, &cfg); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		return fmt.Errorf("invalid callsign config: %w", err)
	}

	for _, p := range cfg.Prefixes {
		warnUnknownCategory(categories, p.Category, p.Prefix)
	}
	for _, p := range cfg.Patterns {
		warnUnknownCategory(categories, p.Category, p.Pattern)
	}
	return m.apply(cfg)
}

func (m *Module) apply(cfg Config) error {
	trie := cache.NewTrie[PrefixRule]()
	for _, p := range cfg.Prefixes {
		trie.Insert(strings.ToUpper(p.Prefix), p)
	}

	patterns := make([]compiledPattern, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("compile callsign pattern %q: %w", p.Pattern, err)
		}
		patterns = append(patterns, compiledPattern{rule: p, re: re})
	}

	placeholders := make(map[string]bool, len(cfg.Placeholders))
	for _, p := range cfg.Placeholders {
		placeholders[Normalize(p)] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
	m.prefixes = trie
	m.patterns = patterns
	m.placeholders = placeholders
	return nil
}

// Config returns the active configuration.
func (m *Module) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Normalize trims and uppercases a raw callsign. readsb pads callsigns to
// eight characters with trailing spaces.
func Normalize(flight string) string {
	return strings.ToUpper(strings.TrimSpace(flight))
}

// Preprocess stores the normalized callsign in the scratch area.
func (m *Module) Preprocess(rec *detection.Aircraft, _ map[string]any) {
	rec.Calculated.Callsign = Normalize(rec.Flight)
}

func callsignOf(rec *detection.Aircraft) string {
	if rec.Calculated.Callsign != "" {
		return rec.Calculated.Callsign
	}
	return Normalize(rec.Flight)
}

// DetectPrimary returns the longest prefix match followed by every matching
// pattern rule.
func (m *Module) DetectPrimary(rec *detection.Aircraft, _ *detection.CategoryRegistry) []detection.Match {
	callsign := callsignOf(rec)
	if callsign == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []detection.Match
	if hit, ok := m.prefixes.LongestPrefixOf(callsign); ok {
		matches = append(matches, detection.Match{
			Detector:    ID,
			Field:       "flight",
			Pattern:     hit.Key,
			Category:    hit.Value.Category,
			Description: hit.Value.Description,
			Confidence:  hit.Value.Confidence,
			Value:       callsign,
		})
	}
	for _, p := range m.patterns {
		if !p.re.MatchString(callsign) {
			continue
		}
		matches = append(matches, detection.Match{
			Detector:    ID,
			Field:       "flight",
			Pattern:     p.rule.Pattern,
			Category:    p.rule.Category,
			Description: p.rule.Description,
			Confidence:  p.rule.Confidence,
			Value:       callsign,
		})
	}
	return matches
}

func warnUnknownCategory(categories *detection.CategoryRegistry, category, rule string) {
	if _, ok := categories.Lookup(category); !ok {
		logging.Warn().
			Str("module", ID).
			Str("rule", rule).
			Str("category", category).
			Msg("Rule references unknown category; it will sort last")
	}
}
