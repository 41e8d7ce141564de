package address

import "strings"

// ExtractStreet returns the street-type word and the words that follow it.
// Without a street-type word it falls back to the text before the first comma.
func ExtractStreet(norm string) string {
	if norm == "" {
		return ""
	}
	if m := reStreet.FindStringSubmatch(norm); m != nil {
		return m[1]
	}
	head, _, _ := strings.Cut(norm, ",")
	return strings.TrimSpace(head)
}

// ExtractHouse returns the first standalone house number, an optional letter attached
func ExtractHouse(norm string) string {
	if m := reHouse.FindStringSubmatch(norm); m != nil {
		return m[1]
	}
	return ""
}
