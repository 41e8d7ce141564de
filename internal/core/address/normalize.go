// Package address canonicalizes Russian street addresses and scores how well two of them agree
package address

import (
	"strings"

	"branchsync/internal/core/textnorm"
)

// Normalized is a canonical address together with its extracted parts
type Normalized struct {
	Text   string `json:"text"`
	Street string `json:"street,omitempty"`
	House  string `json:"house,omitempty"`
}

// Empty reports whether nothing survived normalization
func (n Normalized) Empty() bool { return n.Text == "" }

// step is one stage of the pipeline
type step struct {
	name string
	fn   func(string) string
}

// pipeline order matters: expansions feed the admin strip, building notation feeds qualifier removal
var pipeline = []step{
	{"fold", fold},
	{"expand", expandAbbreviations},
	{"type-first", thoroughfareFirst},
	{"strip-admin", stripLeadingAdmin},
	{"strip-zoning", stripZoning},
	{"building", rewriteBuilding},
	{"qualifiers", dropQualifiers},
	{"tidy", tidy},
}

// maxPasses bounds the fixed point loop; real input settles in two
const maxPasses = 5

// Normalize canonicalizes raw. Running it on its own output changes nothing.
func Normalize(raw string) Normalized {
	text := NormalizeText(raw)
	return Normalized{
		Text:   text,
		Street: ExtractStreet(text),
		House:  ExtractHouse(text),
	}
}

// NormalizeText returns only the canonical string
func NormalizeText(raw string) string {
	cur := runPipeline(raw)
	for i := 1; i < maxPasses; i++ {
		next := runPipeline(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

func runPipeline(s string) string {
	for _, st := range pipeline {
		s = st.fn(s)
		if s == "" {
			return ""
		}
	}
	return s
}

// untilStable reapplies fn; adjacent matches share a boundary rune and need a second pass
func untilStable(s string, fn func(string) string) string {
	for i := 0; i < 8; i++ {
		next := fn(s)
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func fold(s string) string { return textnorm.UnifyDashes(textnorm.Fold(s)) }

func expandAbbreviations(s string) string {
	s = untilStable(s, func(in string) string {
		return reHouseMarker.ReplaceAllString(in, "${1}${2}")
	})
	for _, a := range compiledAbbreviations {
		repl := "${1}" + a.full + " ${2}"
		s = untilStable(s, func(in string) string {
			return a.re.ReplaceAllString(in, repl)
		})
	}
	return textnorm.CollapseSpaces(s)
}

// thoroughfareFirst rewrites "тестовая улица 1" as "улица тестовая 1", segment by segment
func thoroughfareFirst(s string) string {
	segs := strings.Split(s, ",")
	for i, seg := range segs {
		segs[i] = reorderSegment(strings.TrimSpace(seg))
	}
	return strings.Join(segs, ", ")
}

func reorderSegment(seg string) string {
	toks := strings.Fields(seg)
	if len(toks) < 2 {
		return seg
	}
	k := -1
	for i, t := range toks {
		if _, ok := thoroughfareSet[t]; ok {
			if k >= 0 {
				return seg // two type words, leave alone
			}
			k = i
		}
	}
	if k <= 0 {
		return seg
	}
	for _, t := range toks[k+1:] {
		if !startsWithDigit(t) {
			return seg
		}
	}
	out := make([]string, 0, len(toks))
	out = append(out, toks[k])
	out = append(out, toks[:k]...)
	out = append(out, toks[k+1:]...)
	return strings.Join(out, " ")
}

func startsWithDigit(t string) bool {
	return t != "" && t[0] >= '0' && t[0] <= '9'
}

func stripLeadingAdmin(s string) string {
	for i := 0; i < 16; i++ {
		stripped := false
		for _, re := range leadingAdmin {
			if loc := re.FindStringIndex(s); loc != nil {
				s = strings.TrimLeft(s[loc[1]:], " ,")
				stripped = true
			}
		}
		var ok bool
		if s, ok = stripCityClause(s); ok {
			stripped = true
		}
		if s, ok = dropBareLeadingSegment(s); ok {
			stripped = true
		}
		if !stripped {
			break
		}
	}
	return s
}

// stripCityClause removes a leading "город X" where X runs up to the comma,
// a thoroughfare word or a number, so "город нижний новгород" goes whole
func stripCityClause(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, "город ")
	if !ok {
		return s, false
	}
	seg, tail, hasComma := strings.Cut(rest, ",")
	toks := strings.Fields(seg)
	n := len(toks)
	for i, t := range toks {
		if _, ok := thoroughfareSet[t]; ok || startsWithDigit(t) {
			n = i
			break
		}
	}
	out := strings.Join(toks[n:], " ")
	if hasComma {
		if tail = strings.TrimSpace(tail); out != "" && tail != "" {
			out += ", " + tail
		} else if tail != "" {
			out = tail
		}
	}
	return strings.TrimLeft(out, " ,"), true
}

// dropBareLeadingSegment removes a first comma segment with no thoroughfare word and no
// number when a later segment carries a thoroughfare. Scraped listings lead with a bare
// city ("казань, улица баумана, 1") where the canonical feed writes "город казань"
func dropBareLeadingSegment(s string) (string, bool) {
	first, rest, ok := strings.Cut(s, ",")
	if !ok || segmentHasAnchor(first) {
		return s, false
	}
	for _, seg := range strings.Split(rest, ",") {
		if segmentHasThoroughfare(seg) {
			return strings.TrimLeft(rest, " ,"), true
		}
	}
	return s, false
}

func segmentHasThoroughfare(seg string) bool {
	for _, t := range strings.Fields(seg) {
		if _, ok := thoroughfareSet[t]; ok {
			return true
		}
	}
	return false
}

func segmentHasAnchor(seg string) bool {
	if segmentHasThoroughfare(seg) {
		return true
	}
	for _, r := range seg {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func stripZoning(s string) string {
	for _, re := range compiledZoning {
		s = untilStable(s, func(in string) string {
			return re.ReplaceAllString(in, "${1}${2}")
		})
	}
	return textnorm.CollapseSpaces(s)
}

func rewriteBuilding(s string) string {
	s = reInlineCorpus.ReplaceAllString(s, "$1 корп $2")
	s = reTrailingPair.ReplaceAllString(s, ", $1, корп $2")
	return s
}

func dropQualifiers(s string) string {
	for _, q := range qualifiers {
		repl := "${1}" + q.canon + " ${2}"
		s = untilStable(s, func(in string) string {
			return q.re.ReplaceAllString(in, repl)
		})
	}
	s = textnorm.CollapseSpaces(s)
	return untilStable(s, func(in string) string {
		return reQualifierClause.ReplaceAllString(in, "")
	})
}

func tidy(s string) string {
	s = rePunct.ReplaceAllString(s, " ")
	s = textnorm.CollapseSpaces(s)
	s = reCommaRuns.ReplaceAllString(s, ", ")
	return strings.Trim(s, ", ")
}
