package changelog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed rules.json
var embedded []byte

type rawRule struct {
	Category Category `json:"category"`
	Any      []string `json:"any"`
	None     []string `json:"none,omitempty"`
}

type rawRules struct {
	Version int       `json:"version"`
	Default Category  `json:"default"`
	Rules   []rawRule `json:"rules"`
}

// Rule fires when any Any keyword occurs in the folded title and no None keyword does
type Rule struct {
	Category Category
	Any      []string
	None     []string

	anyIDs  []int
	noneIDs []int
}

// RuleSet is an ordered, compiled rule list. First firing rule wins.
type RuleSet struct {
	Version int
	Default Category
	Rules   []Rule

	keywords []string
	ac       *automaton
}

// Load compiles the embedded rules.json
func Load() (*RuleSet, error) { return LoadBytes(embedded) }

// MustLoad panics when the embedded rules are broken
func MustLoad() *RuleSet {
	rs, err := Load()
	if err != nil {
		panic(err)
	}
	return rs
}

// LoadBytes compiles rules from JSON
func LoadBytes(b []byte) (*RuleSet, error) {
	var raw rawRules
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("changelog rules: %w", err)
	}
	if raw.Default == "" {
		raw.Default = CategoryOther
	}
	rules := make([]Rule, 0, len(raw.Rules))
	for i, r := range raw.Rules {
		if !r.Category.Valid() {
			return nil, fmt.Errorf("changelog rules: rule %d: unknown category %q", i, r.Category)
		}
		if len(r.Any) == 0 {
			return nil, fmt.Errorf("changelog rules: rule %d (%s): no keywords", i, r.Category)
		}
		rules = append(rules, Rule{Category: r.Category, Any: r.Any, None: r.None})
	}
	return Compile(raw.Version, raw.Default, rules)
}

// Compile folds every keyword and builds one automaton for the whole list
func Compile(version int, def Category, rules []Rule) (*RuleSet, error) {
	if !def.Valid() {
		return nil, fmt.Errorf("changelog rules: unknown default category %q", def)
	}
	rs := &RuleSet{Version: version, Default: def, ac: newAutomaton()}
	index := map[string]int{}
	intern := func(kw string) (int, error) {
		f := fold(kw)
		if f == "" {
			return 0, fmt.Errorf("changelog rules: empty keyword %q", kw)
		}
		if id, ok := index[f]; ok {
			return id, nil
		}
		id := len(rs.keywords)
		index[f] = id
		rs.keywords = append(rs.keywords, f)
		rs.ac.add(f, id)
		return id, nil
	}

	for _, r := range rules {
		c := Rule{Category: r.Category, Any: r.Any, None: r.None}
		for _, kw := range r.Any {
			id, err := intern(kw)
			if err != nil {
				return nil, err
			}
			c.anyIDs = append(c.anyIDs, id)
		}
		for _, kw := range r.None {
			id, err := intern(kw)
			if err != nil {
				return nil, err
			}
			c.noneIDs = append(c.noneIDs, id)
		}
		rs.Rules = append(rs.Rules, c)
	}
	rs.ac.build()
	return rs, nil
}

func (r *Rule) fires(hits []bool) bool {
	for _, id := range r.noneIDs {
		if hits[id] {
			return false
		}
	}
	for _, id := range r.anyIDs {
		if hits[id] {
			return true
		}
	}
	return false
}
