// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package hexcode classifies aircraft by ICAO 24-bit address.
//
// Addresses are allocated to states in contiguous blocks and several states
// reserve sub-blocks for military aircraft, so most rules are inclusive
// ranges. Exact-address rules cover individually known airframes.
package hexcode

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/validation"
)

// ID is the module identifier.
const ID = "hexcode"

// RangeRule maps an inclusive address range to a category.
type RangeRule struct {
	Start       string  `json:"start" validate:"required,icaohex"`
	End         string  `json:"end" validate:"required,icaohex"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// CodeRule maps a single address to a category.
type CodeRule struct {
	Hex         string  `json:"hex" validate:"required,icaohex"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Config configures the hex code module.
type Config struct {
	Ranges   []RangeRule `json:"ranges" validate:"dive"`
	Codes    []CodeRule  `json:"codes" validate:"dive"`
	Reserved []string    `json:"reserved" validate:"dive,icaohex"`
}

// DefaultConfig returns the built-in address allocations.
func DefaultConfig() Config {
	return Config{
		Ranges: []RangeRule{
			{Start: "ADF7C8", End: "AFFFFF", Category: "military", Description: "United States military allocation"},
			{Start: "43C000", End: "43CFFF", Category: "military", Description: "United Kingdom military allocation"},
			{Start: "3AA000", End: "3AFFFF", Category: "military", Description: "France military allocation", Confidence: 0.9},
			{Start: "3EA000", End: "3EBFFF", Category: "military", Description: "Germany military allocation", Confidence: 0.9},
			{Start: "7CF800", End: "7CFAFF", Category: "military", Description: "Australia military allocation"},
		},
		Reserved: []string{"000000", "FFFFFF"},
	}
}

type addressRange struct {
	start, end uint32
	rule       RangeRule
}

// Module is the hex code detector module.
type Module struct {
	mu       sync.RWMutex
	config   Config
	ranges   []addressRange
	codes    map[uint32]CodeRule
	reserved map[string]bool
}

// New creates a hex code module loaded with DefaultConfig.
func New() *Module {
	m := &Module{}
	if err := m.apply(DefaultConfig()); err != nil {
		panic(fmt.Sprintf("hexcode: invalid default config: %v", err))
	}
	return m
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return ID
}

// Configure replaces the address rules.
func (m *Module) Configure(raw json.RawMessage, _ map[string]any, categories *detection.CategoryRegistry) error {
	cfg := DefaultConfig()
	if err := detection.DecodeModuleConfig(raw, &cfg); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		return fmt.Errorf("invalid hexcode config: %w", err)
	}
	for _, r := range cfg.Ranges {
		if _, ok := categories.Lookup(r.Category); !ok {
			logging.Warn().Str("module", ID).Str("range", r.Start+"-"+r.End).
				Str("category", r.Category).Msg("Rule references unknown category; it will sort last")
		}
	}
	return m.apply(cfg)
}

func (m *Module) apply(cfg Config) error {
	ranges := make([]addressRange, 0, len(cfg.Ranges))
	for _, r := range cfg.Ranges {
		start, err := ParseAddress(r.Start)
		if err != nil {
			return err
		}
		end, err := ParseAddress(r.End)
		if err != nil {
			return err
		}
		if start > end {
			return fmt.Errorf("hex range %s-%s: start after end", r.Start, r.End)
		}
		ranges = append(ranges, addressRange{start: start, end: end, rule: r})
	}
	// Narrowest range first so a specific sub-allocation outranks its parent block.
	slices.SortStableFunc(ranges, func(a, b addressRange) int {
		return cmp.Compare(a.end-a.start, b.end-b.start)
	})

	codes := make(map[uint32]CodeRule, len(cfg.Codes))
	for _, c := range cfg.Codes {
		addr, err := ParseAddress(c.Hex)
		if err != nil {
			return err
		}
		codes[addr] = c
	}

	reserved := make(map[string]bool, len(cfg.Reserved))
	for _, r := range cfg.Reserved {
		reserved[strings.ToLower(r)] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
	m.ranges = ranges
	m.codes = codes
	m.reserved = reserved
	return nil
}

// ParseAddress parses a six digit hexadecimal ICAO address.
func ParseAddress(hex string) (uint32, error) {
	if !validation.IsICAOHex(hex) {
		return 0, fmt.Errorf("invalid ICAO address %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid ICAO address %q: %w", hex, err)
	}
	return uint32(v), nil
}

// Normalize lowercases an address and strips the "~" readsb uses to mark
// non-ICAO (TIS-B / anonymous) addresses.
func Normalize(hex string) (normalized string, nonICAO bool) {
	hex = strings.ToLower(strings.TrimSpace(hex))
	if strings.HasPrefix(hex, "~") {
		return hex[1:], true
	}
	return hex, false
}

// Preprocess stores the normalized address in the scratch area.
func (m *Module) Preprocess(rec *detection.Aircraft, _ map[string]any) {
	rec.Calculated.Hex, rec.Calculated.NonICAO = Normalize(rec.Hex)
}

func hexOf(rec *detection.Aircraft) (string, bool) {
	if rec.Calculated.Hex != "" {
		return rec.Calculated.Hex, rec.Calculated.NonICAO
	}
	return Normalize(rec.Hex)
}

// DetectPrimary reports an exact-address match and the narrowest range
// containing the address. Non-ICAO addresses are never classified.
func (m *Module) DetectPrimary(rec *detection.Aircraft, _ *detection.CategoryRegistry) []detection.Match {
	hex, nonICAO := hexOf(rec)
	if hex == "" || nonICAO {
		return nil
	}
	addr, err := ParseAddress(hex)
	if err != nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []detection.Match
	if c, ok := m.codes[addr]; ok {
		matches = append(matches, detection.Match{
			Detector:    ID,
			Field:       "hex",
			Pattern:     strings.ToLower(c.Hex),
			Category:    c.Category,
			Description: c.Description,
			Confidence:  c.Confidence,
			Value:       hex,
		})
	}
	for _, r := range m.ranges {
		if addr < r.start || addr > r.end {
			continue
		}
		matches = append(matches, detection.Match{
			Detector:    ID,
			Field:       "hex",
			Pattern:     strings.ToLower(r.rule.Start + "-" + r.rule.End),
			Category:    r.rule.Category,
			Description: r.rule.Description,
			Confidence:  r.rule.Confidence,
			Value:       hex,
		})
		break
	}
	return matches
}
