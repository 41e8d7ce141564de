package snapshot

import "testing"

func str(s string) *string { return &s }

func ids[T any](xs []T, id func(T) string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = id(x)
	}
	return out
}

func currentID(c Current) string { return c.ID }
func branchID(b Branch) string { return b.ID }

func eq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiff_Basic(t *testing.T) {
	d := NewDiffer()
	prev := []Branch{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	cur := []Current{
		{ID: "2"},
		{ID: "3", Status: str("Закрыто")},
		{ID: "4", Status: str("Опубликовано")},
		{ID: "5", Status: str("hidden")},
		{ID: ""},
		{ID: "4"},
	}
	res := d.Diff(prev, cur)
	if got := ids(res.Added, currentID); !eq(got, []string{"4"}) {
		t.Fatalf("added: %v", got)
	}
	if got := ids(res.Removed, branchID); !eq(got, []string{"1", "3"}) {
		t.Fatalf("removed: %v", got)
	}
}

func TestDiff_SetAlgebra(t *testing.T) {
	d := NewDiffer()
	snap := []Branch{{ID: "a", Name: "A"}, {ID: "b"}}

	if res := d.Diff(snap, ToCurrent(snap)); !res.Empty() {
		t.Fatalf("self diff should be empty: %+v", res)
	}

	cur := []Current{{ID: "x"}, {ID: "y", Status: str("ACTIVE")}}
	res := d.Diff(nil, cur)
	if len(res.Removed) != 0 || !eq(ids(res.Added, currentID), []string{"x", "y"}) {
		t.Fatalf("diff from empty: %+v", res)
	}

	res = d.Diff([]Branch{{ID: "a"}, {ID: "x"}}, []Current{{ID: "x"}, {ID: "z"}})
	removed := map[string]bool{}
	for _, b := range res.Removed {
		removed[b.ID] = true
	}
	for _, c := range res.Added {
		if removed[c.ID] {
			t.Fatalf("%s both added and removed", c.ID)
		}
	}
}

func TestPublished(t *testing.T) {
	d := NewDiffer("Open ", "")
	if !d.Published(nil) {
		t.Fatalf("absent status is published")
	}
	if !d.Published(str("REOPENED")) {
		t.Fatalf("substring match should be case-insensitive")
	}
	if d.Published(str("published")) {
		t.Fatalf("custom list replaces defaults")
	}
	if !NewDiffer().Published(str("Опубликован")) {
		t.Fatalf("default list")
	}
}

func TestFromCurrent(t *testing.T) {
	d := NewDiffer()
	got := d.FromCurrent([]Current{
		{ID: "1", Name: "One", Address: "ул. Тестовая, 1"},
		{ID: "2", Status: str("archived")},
		{ID: "1", Name: "dup"},
	})
	if len(got) != 1 || got[0] != (Branch{ID: "1", Name: "One", Address: "ул. Тестовая, 1"}) {
		t.Fatalf("unexpected %+v", got)
	}
}
