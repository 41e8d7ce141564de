// Package snapshot diffs successive location-identity snapshots
package snapshot

import "strings"

// Branch is one published location's identity at a point in time
type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Current is a record of the run being diffed. A nil Status means published.
type Current struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Address string  `json:"address,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// Result is the set difference between two runs
type Result struct {
	Added   []Current `json:"added"`
	Removed []Branch  `json:"removed"`
}

// Empty reports whether nothing changed
func (r Result) Empty() bool { return len(r.Added) == 0 && len(r.Removed) == 0 }

// DefaultPublished are the status fragments that count as published
var DefaultPublished = []string{"опубликован", "published", "active"}

// Differ computes snapshot differences against an allow-list of published statuses
type Differ struct {
	published []string
}

// NewDiffer lower-cases the allow-list; an empty list falls back to DefaultPublished
func NewDiffer(published ...string) *Differ {
	var list []string
	for _, p := range published {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		list = DefaultPublished
	}
	return &Differ{published: list}
}

// Published reports whether a status passes the allow-list by case-insensitive substring
func (d *Differ) Published(status *string) bool {
	if status == nil {
		return true
	}
	s := strings.ToLower(*status)
	for _, p := range d.published {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Eligible reports whether a current record takes part in the diff
func (d *Differ) Eligible(c Current) bool {
	return strings.TrimSpace(c.ID) != "" && d.Published(c.Status)
}

// Diff returns eligible current records missing from previous and previous records missing from
// the eligible set. Both lists keep input order; a repeated current id is added once.
func (d *Differ) Diff(previous []Branch, current []Current) Result {
	prev := make(map[string]struct{}, len(previous))
	for _, b := range previous {
		prev[b.ID] = struct{}{}
	}

	res := Result{Added: []Current{}, Removed: []Branch{}}
	live := make(map[string]struct{}, len(current))
	for _, c := range current {
		if !d.Eligible(c) {
			continue
		}
		if _, dup := live[c.ID]; dup {
			continue
		}
		live[c.ID] = struct{}{}
		if _, ok := prev[c.ID]; !ok {
			res.Added = append(res.Added, c)
		}
	}
	for _, b := range previous {
		if _, ok := live[b.ID]; !ok {
			res.Removed = append(res.Removed, b)
		}
	}
	return res
}

// FromCurrent builds the snapshot to persist for the next run from eligible records
func (d *Differ) FromCurrent(current []Current) []Branch {
	out := make([]Branch, 0, len(current))
	seen := make(map[string]struct{}, len(current))
	for _, c := range current {
		if !d.Eligible(c) {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, Branch{ID: c.ID, Name: c.Name, Address: c.Address})
	}
	return out
}

// ToCurrent views a snapshot as current records, all published
func ToCurrent(bs []Branch) []Current {
	out := make([]Current, len(bs))
	for i, b := range bs {
		out[i] = Current{ID: b.ID, Name: b.Name, Address: b.Address}
	}
	return out
}
