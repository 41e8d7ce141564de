package strings

import (
	"testing"

	kit "branchsync/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()
	if got := IfEmpty(nil, []string{"GET"}); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("IfEmpty(nil) = %#v", got)
	}
	if got := IfEmpty([]int{1, 2}, []int{9}); len(got) != 2 {
		t.Fatalf("IfEmpty(non-empty) = %#v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"reconcile":    "/reconcile",
		"/changes/":    "/changes",
		"  /snapshots": "/snapshots",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { _ = MustPrefix(" / ") })
}

func TestMustString(t *testing.T) {
	t.Parallel()
	if MustString("reconcile", "name") != "reconcile" {
		t.Fatalf("MustString changed value")
	}
	kit.MustPanic(t, func() { _ = MustString("  ", "module name") })
}

func TestPointers(t *testing.T) {
	t.Parallel()
	if Ptr("") != nil || Deref(nil) != "" {
		t.Fatalf("nil handling mismatch")
	}
	if Deref(Ptr("published")) != "published" {
		t.Fatalf("round trip mismatch")
	}
	if SQLNull(" ") != nil || SQLNull("x") != "x" {
		t.Fatalf("SQLNull mismatch")
	}
}
