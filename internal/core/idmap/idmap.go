// Package idmap holds the remembered canonical-to-external id pairings between runs.
// A Map is a value: operations return a new Map and never mutate the receiver.
package idmap

import "maps"

// Map is canonical id -> external id
type Map struct {
	pairs map[string]string
}

// New copies pairs into a Map
func New(pairs map[string]string) Map {
	return Map{pairs: maps.Clone(pairs)}
}

// Len is the number of pairings
func (m Map) Len() int { return len(m.pairs) }

// Get returns the remembered external id
func (m Map) Get(canonicalID string) (string, bool) {
	v, ok := m.pairs[canonicalID]
	return v, ok
}

// With returns a copy holding the extra pairings; empty ids are skipped
func (m Map) With(updates map[string]string) Map {
	out := maps.Clone(m.pairs)
	if out == nil {
		out = make(map[string]string, len(updates))
	}
	for k, v := range updates {
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return Map{pairs: out}
}

// Pairs returns a copy of the underlying map
func (m Map) Pairs() map[string]string {
	if m.pairs == nil {
		return map[string]string{}
	}
	return maps.Clone(m.pairs)
}

// Lookup resolves a remembered pairing against the ids present in this run.
// The pairing only counts when its external id still exists.
func (m Map) Lookup(canonicalID string, present map[string]int) (externalID string, index int, ok bool) {
	ext, ok := m.pairs[canonicalID]
	if !ok {
		return "", -1, false
	}
	idx, ok := present[ext]
	if !ok {
		return "", -1, false
	}
	return ext, idx, true
}
