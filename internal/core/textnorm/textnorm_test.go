package textnorm

import "testing"

func TestFold_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity", in: "улица тестовая", out: "улица тестовая"},
		{name: "russian lower", in: "Г. МОСКВА, Ул. Тверская", out: "г. москва, ул. тверская"},
		{name: "yo fold", in: "Ёлкин проезд, ёж", out: "елкин проезд, еж"},
		{name: "decomposed yo", in: "е\u0308лки", out: "елки"},
		{name: "remove zero widths", in: "тв\u200bер\u00adская", out: "тверская"},
		{name: "width fold", in: "ＡＢＣ 12", out: "abc 12"},
		{name: "controls and invalid bytes", in: string([]byte{'a', 0x01, 0xff, 'b'}), out: "ab"},
		{name: "collapse whitespace", in: "  a\t\tb\nc   d ", out: "a b c d"},
		{name: "numero sign kept", in: "дом №5", out: "дом №5"},
		{name: "empty", in: "", out: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Fold(tc.in)
			if got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := Fold(got); again != got {
				t.Fatalf("Fold not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestUnifyDashes(t *testing.T) {
	in := "09:00–21:00 пн—вс 10:00−11:00 a‑b"
	want := "09:00-21:00 пн-вс 10:00-11:00 a-b"
	if got := UnifyDashes(in); got != want {
		t.Fatalf("UnifyDashes(%q) = %q, want %q", in, got, want)
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	want := "a b c"
	if got := CollapseSpaces(in); got != want {
		t.Fatalf("CollapseSpaces(%q) = %q, want %q", in, got, want)
	}
}

func TestSanitize_FastPath(t *testing.T) {
	in := "чистая строка"
	if got := Sanitize(in); got != in {
		t.Fatalf("Sanitize changed clean input: %q", got)
	}
	if got := Sanitize("a\u0085b"); got != "ab" {
		t.Fatalf("Sanitize C1 = %q, want %q", got, "ab")
	}
}
