// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package detection

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// UnknownCategoryPriority is the priority of any category missing from the
// registry. It sorts after every configured category.
const UnknownCategoryPriority = 999

// Category is a classification bucket. Lower Priority is more important.
type Category struct {
	Name     string `json:"name" koanf:"name" validate:"required,max=32"`
	Priority int    `json:"priority" koanf:"priority" validate:"gte=0,lt=999"`
	Warn     bool   `json:"warn" koanf:"warn"`
	Color    string `json:"color,omitempty" koanf:"color"`
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() []Category {
	return []Category{
		{Name: "royalty", Priority: 1, Warn: true, Color: "magenta"},
		{Name: "government", Priority: 2, Warn: true, Color: "blue"},
		{Name: "emergency", Priority: 3, Warn: true, Color: "red"},
		{Name: "police", Priority: 4, Warn: true, Color: "cyan"},
		{Name: "medical", Priority: 5, Warn: false, Color: "green"},
		{Name: CategoryMilitary, Priority: 6, Warn: true, Color: "yellow"},
		{Name: "test", Priority: 7, Warn: false, Color: "white"},
		{Name: "survey", Priority: 8, Warn: false, Color: "white"},
		{Name: "historic", Priority: 9, Warn: false, Color: "white"},
		{Name: "special", Priority: 10, Warn: false, Color: "white"},
	}
}

// CategoryRegistry maps category names to their priority, warn flag and
// display color. Lookups never fail: unknown names resolve to
// UnknownCategoryPriority and no warning.
type CategoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]Category
}

// NewCategoryRegistry creates a registry holding entries.
func NewCategoryRegistry(entries ...Category) *CategoryRegistry {
	r := &CategoryRegistry{entries: make(map[string]Category, len(entries))}
	for _, c := range entries {
		r.Set(c)
	}
	return r
}

// DefaultCategoryRegistry creates a registry holding DefaultCategories.
func DefaultCategoryRegistry() *CategoryRegistry {
	return NewCategoryRegistry(DefaultCategories()...)
}

func normalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Set adds or replaces a category.
func (r *CategoryRegistry) Set(c Category) {
	c.Name = normalizeCategory(c.Name)
	if c.Name == "" {
		return
	}
	r.mu.Lock()
	r.entries[c.Name] = c
	r.mu.Unlock()
}

// Lookup returns the category registered under name.
func (r *CategoryRegistry) Lookup(name string) (Category, bool) {
	if r == nil {
		return Category{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[normalizeCategory(name)]
	return c, ok
}

// Priority returns the priority of name, or UnknownCategoryPriority.
func (r *CategoryRegistry) Priority(name string) int {
	if c, ok := r.Lookup(name); ok {
		return c.Priority
	}
	return UnknownCategoryPriority
}

// Warn reports whether matches in name should raise a user-facing alert.
func (r *CategoryRegistry) Warn(name string) bool {
	c, ok := r.Lookup(name)
	return ok && c.Warn
}

// Color returns the display hint for name, or "" when unknown.
func (r *CategoryRegistry) Color(name string) string {
	c, _ := r.Lookup(name)
	return c.Color
}

// All returns every category ordered by priority, then name.
func (r *CategoryRegistry) All() []Category {
	r.mu.RLock()
	out := make([]Category, 0, len(r.entries))
	for _, c := range r.entries {
		out = append(out, c)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Category) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Len returns the number of registered categories.
func (r *CategoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
