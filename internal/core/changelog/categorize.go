package changelog

import (
	"sync"

	"branchsync/internal/core/textnorm"
)

// Categorizer maps entry titles to categories. Safe for concurrent use.
type Categorizer struct {
	rules *RuleSet
	pool  sync.Pool // []bool hit sets sized to the keyword table
}

// NewCategorizer wraps a compiled rule set; nil loads the embedded rules
func NewCategorizer(rs *RuleSet) *Categorizer {
	if rs == nil {
		rs = MustLoad()
	}
	n := len(rs.keywords)
	c := &Categorizer{rules: rs}
	c.pool.New = func() any {
		b := make([]bool, n)
		return &b
	}
	return c
}

// Rules exposes the compiled list
func (c *Categorizer) Rules() *RuleSet { return c.rules }

// Categorize folds the title, scans it once and returns the first firing rule's category
func (c *Categorizer) Categorize(title string) Category {
	folded := fold(title)
	if folded == "" {
		return c.rules.Default
	}

	hp := c.pool.Get().(*[]bool)
	hits := *hp
	clear(hits)
	defer c.pool.Put(hp)

	c.rules.ac.scan(folded, hits)
	for i := range c.rules.Rules {
		if c.rules.Rules[i].fires(hits) {
			return c.rules.Rules[i].Category
		}
	}
	return c.rules.Default
}

func fold(s string) string { return textnorm.UnifyDashes(textnorm.Fold(s)) }
