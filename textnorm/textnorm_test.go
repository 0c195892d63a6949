package textnorm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases", input: "How To Place An Order?", want: "how to place an order?"},
		{name: "trims", input: "   hello   ", want: "hello"},
		{name: "collapses_spaces", input: "a    b", want: "a b"},
		{name: "collapses_tabs_and_newlines", input: "a\t\tb\nc\r\nd", want: "a b c d"},
		{name: "punctuation_only", input: "  ???  ", want: "???"},
		{name: "single_char", input: "A", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello   World",
		"  MIXED case\twith\nALL   kinds  of   space ",
		"уже нормализованный текст",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("How to place an order?")

	if len(fp) != 64 {
		t.Fatalf("Fingerprint length = %d, want 64", len(fp))
	}
	if fp != strings.ToLower(fp) {
		t.Errorf("Fingerprint not lowercase: %q", fp)
	}

	// Stable under re-normalization-equivalent inputs.
	variants := []string{
		"how to place an order?",
		"  How   to place an\torder? ",
		"HOW TO PLACE AN ORDER?",
	}
	for _, variant := range variants {
		if got := Fingerprint(variant); got != fp {
			t.Errorf("Fingerprint(%q) = %q, want %q", variant, got, fp)
		}
	}

	if Fingerprint("a different question") == fp {
		t.Error("distinct questions produced the same fingerprint")
	}

	// fingerprint(t) == fingerprint(normalize(t))
	if Fingerprint("Hello  World") != Fingerprint(Normalize("Hello  World")) {
		t.Error("Fingerprint differs between raw and normalized input")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 250)

	got := Truncate(long, 50)
	if len(got) != 50 {
		t.Errorf("Truncate length = %d, want 50", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate result %q does not end with ellipsis", got)
	}

	if got := Truncate("short", 50); got != "short" {
		t.Errorf("Truncate(short) = %q, want unchanged", got)
	}
	if got := Truncate("exact", 5); got != "exact" {
		t.Errorf("Truncate at boundary = %q, want unchanged", got)
	}
}

func TestTruncateMultibyte(t *testing.T) {
	long := strings.Repeat("п", 250)

	got := Truncate(long, 50)
	if !utf8.ValidString(got) {
		t.Fatalf("Truncate produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 50 {
		t.Errorf("Truncate rune count = %d, want 50", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate result %q does not end with ellipsis", got)
	}

	// Rune length at the limit stays untouched even though the byte
	// length exceeds it.
	exact := strings.Repeat("п", 50)
	if got := Truncate(exact, 50); got != exact {
		t.Errorf("Truncate at rune boundary = %q, want unchanged", got)
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "simple", input: "How to place an order", want: []string{"how", "to", "place", "an", "order"}},
		{name: "strips_punctuation", input: "order?", want: []string{"order"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokens(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokens(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
