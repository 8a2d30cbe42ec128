package domain

import (
	"strings"
	"testing"
)

func TestNormalizePersonKnownCodes(t *testing.T) {
	cases := map[string]string{
		"1":       "first",
		"2":       "second",
		"3":       "third",
		"first":   "first",
		"second":  "second",
		"third":   "third",
		" First ": "first",
		"THIRD":   "third",
	}
	for in, want := range cases {
		if got := NormalizePerson(in); got != want {
			t.Fatalf("NormalizePerson(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeNumberKnownCodes(t *testing.T) {
	cases := map[string]string{
		"sg":       "singular",
		"du":       "dual",
		"pl":       "plural",
		"singular": "singular",
		"dual":     "dual",
		"plural":   "plural",
		"Sg":       "singular",
		" pl":      "plural",
	}
	for in, want := range cases {
		if got := NormalizeNumber(in); got != want {
			t.Fatalf("NormalizeNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeUnknownPassesThrough(t *testing.T) {
	for _, in := range []string{"", "4", "fourth", "trial", "0", " x "} {
		if got := NormalizePerson(in); got != in {
			t.Fatalf("NormalizePerson(%q) = %q, want unchanged", in, got)
		}
		if got := NormalizeNumber(in); got != in {
			t.Fatalf("NormalizeNumber(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestNormalizeIsIdempotentOnCanonicalVocabulary(t *testing.T) {
	for _, p := range Persons {
		if NormalizePerson(NormalizePerson(p)) != p {
			t.Fatalf("person %q not a fixed point", p)
		}
	}
	for _, n := range Numbers {
		if NormalizeNumber(NormalizeNumber(n)) != n {
			t.Fatalf("number %q not a fixed point", n)
		}
	}
}

func TestPersonNumberLabel(t *testing.T) {
	if got := PersonNumberLabel("3", "sg"); got != "Third person singular" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := PersonNumberLabel("first", "du"); got != "First person dual" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestContextualFeedbackCoversParadigm(t *testing.T) {
	for _, p := range Persons {
		for _, n := range Numbers {
			msg := ContextualFeedback(p, n)
			if !strings.Contains(msg, "("+p+")") || !strings.Contains(msg, "("+n+")") {
				t.Fatalf("feedback for %s/%s missing selection: %q", p, n, msg)
			}
		}
	}
	if got := ContextualFeedback("third", "trial"); got != "Invalid selection. Try again!" {
		t.Fatalf("expected invalid selection message, got %q", got)
	}
}
