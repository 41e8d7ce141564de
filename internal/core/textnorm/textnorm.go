// Package textnorm provides the deterministic text primitives shared by the address,
// schedule and change-log normalizers
// Pipeline order for Fold
// 1 Sanitize drops control runes and invalid UTF-8
// 2 Unicode NFC composition
// 3 Remove format chars (ZWJ, ZWNJ, BOM, soft hyphen)
// 4 Width fold fullwidth to ASCII
// 5 Russian lower-casing
// 6 Fold ё to е
// 7 Collapse whitespace to single spaces and trim
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF soft hyphen
			width.Fold,
			cases.Lower(language.Russian),
		)
	},
}

var yoFolder = strings.NewReplacer("ё", "е", "Ё", "е")

var dashFolder = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
	"﹘", "-",
	"﹣", "-",
	"－", "-",
)

// Fold returns the lower-cased, ё-folded, whitespace-collapsed form of s
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on malformed input that Sanitize already dropped
		ns = strings.ToLower(s)
	}

	return CollapseSpaces(FoldYo(ns))
}

// FoldYo maps ё to е
func FoldYo(s string) string {
	if !strings.ContainsAny(s, "ёЁ") {
		return s
	}
	return yoFolder.Replace(s)
}

// UnifyDashes maps every dash and minus variant to an ASCII hyphen
func UnifyDashes(s string) string { return dashFolder.Replace(s) }

// CollapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func CollapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsWordRune reports whether r belongs to a word for boundary checks
// Go regexp \b is ASCII only so Cyrillic callers use this instead
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
