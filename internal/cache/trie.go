// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package cache provides in-memory lookup structures used on the per-record
// classification path.
package cache

import (
	"sort"
	"strings"
	"sync"
)

type trieNode[V any] struct {
	children map[rune]*trieNode[V]
	isEnd    bool
	key      string // original key as inserted (preserves case)
	value    V
}

func newTrieNode[V any]() *trieNode[V] {
	return &trieNode[V]{children: make(map[rune]*trieNode[V])}
}

// Trie is a thread-safe prefix tree keyed by string.
//
// Lookups are O(m) in the length of the query. Keys are case-insensitive
// unless the trie was created with NewTrieWithOptions(true). The classifier
// uses it to resolve callsign prefixes ("RCH", "RRR", ...) against a callsign
// without scanning every configured rule.
type Trie[V any] struct {
	mu            sync.RWMutex
	root          *trieNode[V]
	size          int
	caseSensitive bool
}

// PrefixMatch is an entry whose key is a prefix of a looked-up string.
type PrefixMatch[V any] struct {
	Key   string
	Value V
}

// NewTrie creates a case-insensitive Trie.
func NewTrie[V any]() *Trie[V] {
	return NewTrieWithOptions[V](false)
}

// NewTrieWithOptions creates a Trie with explicit case sensitivity.
func NewTrieWithOptions[V any](caseSensitive bool) *Trie[V] {
	return &Trie[V]{
		root:          newTrieNode[V](),
		caseSensitive: caseSensitive,
	}
}

func (t *Trie[V]) normalizeKey(key string) string {
	if t.caseSensitive {
		return key
	}
	return strings.ToUpper(key)
}

// Insert stores value under key, replacing any existing value.
// Returns true if the key was new. Empty keys are ignored.
func (t *Trie[V]) Insert(key string, value V) bool {
	if key == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range t.normalizeKey(key) {
		child := node.children[ch]
		if child == nil {
			child = newTrieNode[V]()
			node.children[ch] = child
		}
		node = child
	}

	isNew := !node.isEnd
	node.isEnd = true
	node.key = key
	node.value = value
	if isNew {
		t.size++
	}
	return isNew
}

// Search returns the value stored under exactly key.
func (t *Trie[V]) Search(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.root
	for _, ch := range t.normalizeKey(key) {
		node = node.children[ch]
		if node == nil {
			return zero, false
		}
	}
	if !node.isEnd {
		return zero, false
	}
	return node.value, true
}

// HasPrefix reports whether any stored key starts with prefix.
func (t *Trie[V]) HasPrefix(prefix string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if prefix == "" {
		return t.size > 0
	}
	node := t.root
	for _, ch := range t.normalizeKey(prefix) {
		node = node.children[ch]
		if node == nil {
			return false
		}
	}
	return true
}

// PrefixesOf returns every stored key that is a prefix of s, shortest first.
//
//	trie.Insert("R", a); trie.Insert("RCH", b)
//	trie.PrefixesOf("RCH123") // [R, RCH]
func (t *Trie[V]) PrefixesOf(s string) []PrefixMatch[V] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var matches []PrefixMatch[V]
	node := t.root
	for _, ch := range t.normalizeKey(s) {
		node = node.children[ch]
		if node == nil {
			break
		}
		if node.isEnd {
			matches = append(matches, PrefixMatch[V]{Key: node.key, Value: node.value})
		}
	}
	return matches
}

// LongestPrefixOf returns the longest stored key that is a prefix of s.
func (t *Trie[V]) LongestPrefixOf(s string) (PrefixMatch[V], bool) {
	matches := t.PrefixesOf(s)
	if len(matches) == 0 {
		return PrefixMatch[V]{}, false
	}
	return matches[len(matches)-1], true
}

// Keys returns all stored keys in sorted order.
func (t *Trie[V]) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, t.size)
	var walk func(n *trieNode[V])
	walk = func(n *trieNode[V]) {
		if n.isEnd {
			keys = append(keys, n.key)
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t.root)
	sort.Strings(keys)
	return keys
}

// Size returns the number of stored keys.
func (t *Trie[V]) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Clear removes all entries.
func (t *Trie[V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newTrieNode[V]()
	t.size = 0
}
