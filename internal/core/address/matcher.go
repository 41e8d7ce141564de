package address

import (
	"fmt"
	"strings"
)

// Method names how a match was decided
type Method string

const (
	MethodStrict Method = "strict"
	MethodWeak   Method = "weak-structural"
	MethodNone   Method = "none"
	// MethodCached marks a pairing that came from the persisted id map
	MethodCached Method = "cached"
)

// Thresholds are inclusive lower bounds
type Thresholds struct {
	Strict float64 `json:"strict"`
	Weak   float64 `json:"weak"`
}

// DefaultThresholds are the production bounds
func DefaultThresholds() Thresholds { return Thresholds{Strict: 0.83, Weak: 0.73} }

// Validate checks 0 <= weak <= strict <= 1
func (t Thresholds) Validate() error {
	if t.Weak < 0 || t.Strict > 1 || t.Weak > t.Strict {
		return fmt.Errorf("address: invalid thresholds strict=%v weak=%v", t.Strict, t.Weak)
	}
	return nil
}

// Candidate is a normalized external record
type Candidate struct {
	ID      string     `json:"id"`
	Address Normalized `json:"address"`
}

// MatchResult is the outcome for one canonical record
type MatchResult struct {
	CanonicalID string  `json:"canonical_id"`
	MatchedID   string  `json:"matched_id,omitempty"`
	Index       int     `json:"index"` // position in the candidate slice, -1 without a match
	Score       float64 `json:"score"`
	Method      Method  `json:"method"`
}

// Matched reports whether a candidate was accepted
func (r MatchResult) Matched() bool { return r.Method != MethodNone && r.Index >= 0 }

// Matcher pairs canonical addresses with candidates. The zero value is not usable; see NewMatcher.
type Matcher struct {
	score      Scorer
	thresholds Thresholds
}

// MatcherOption customizes a Matcher
type MatcherOption func(*Matcher)

// WithScorer swaps the similarity function
func WithScorer(s Scorer) MatcherOption {
	return func(m *Matcher) {
		if s != nil {
			m.score = s
		}
	}
}

// WithThresholds overrides the default bounds
func WithThresholds(t Thresholds) MatcherOption {
	return func(m *Matcher) { m.thresholds = t }
}

// NewMatcher builds a matcher; invalid thresholds panic since they come from config at startup
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{score: Similarity, thresholds: DefaultThresholds()}
	for _, o := range opts {
		o(m)
	}
	if err := m.thresholds.Validate(); err != nil {
		panic(err)
	}
	return m
}

// Thresholds returns the bounds in effect
func (m *Matcher) Thresholds() Thresholds { return m.thresholds }

// Score rates a pair with the configured scorer
func (m *Matcher) Score(a, b Normalized) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}
	return m.score(a.Text, b.Text)
}

// Classify decides the method for the best candidate. Between the bounds the pair is accepted only
// when StructuralAgree holds.
func (m *Matcher) Classify(score float64, canonical, candidate Normalized) Method {
	switch {
	case score >= m.thresholds.Strict:
		return MethodStrict
	case score >= m.thresholds.Weak && StructuralAgree(canonical, candidate):
		return MethodWeak
	default:
		return MethodNone
	}
}

// Match picks the best scoring candidate. Equal scores go to the lowest candidate id, then to
// the earlier candidate, so the result never depends on how the caller collected the slice.
func (m *Matcher) Match(canonicalID string, canonical Normalized, candidates []Candidate) MatchResult {
	res := MatchResult{CanonicalID: canonicalID, Index: -1, Method: MethodNone}
	if canonical.Empty() {
		return res
	}

	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		s := m.Score(canonical, c.Address)
		switch {
		case best < 0 || s > bestScore:
			best, bestScore = i, s
		case s == bestScore && c.ID < candidates[best].ID:
			best = i
		}
	}
	if best < 0 {
		return res
	}

	res.Score = bestScore
	res.Method = m.Classify(bestScore, canonical, candidates[best].Address)
	if res.Method != MethodNone {
		res.Index = best
		res.MatchedID = candidates[best].ID
	}
	return res
}

// StructuralAgree holds when both streets are non-empty and one contains the other, and both
// houses are non-empty and equal
func StructuralAgree(a, b Normalized) bool {
	if a.Street == "" || b.Street == "" || a.House == "" || b.House == "" {
		return false
	}
	if !strings.Contains(a.Street, b.Street) && !strings.Contains(b.Street, a.Street) {
		return false
	}
	return a.House == b.House
}
