package address

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer rates two canonical addresses in [0,1]
type Scorer func(a, b string) float64

// Similarity is the default Scorer: one minus the rune edit distance over the longer length
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
