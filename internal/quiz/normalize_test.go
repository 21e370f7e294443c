package quiz

import "testing"

func TestNormalizeLineEndings(t *testing.T) {
	got := Normalize("a\r\nb\rc\nd")
	want := "a\nb\nc\nd"
	if got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeSpaceRuns(t *testing.T) {
	got := Normalize("one    two  three")
	if got != "one two three" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestNormalizeBlankLineRuns(t *testing.T) {
	// More than two consecutive blank lines collapse to exactly one.
	got := Normalize("a\n\n\n\n\nb")
	if got != "a\n\nb" {
		t.Fatalf("Normalize = %q", got)
	}
	// One or two blank lines are left alone.
	if got := Normalize("a\n\n\nb"); got != "a\n\n\nb" {
		t.Fatalf("two blank lines changed: %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"1. What is 2+2?\r\na)  3\r\nb) 4\r\n\r\n\r\n\r\nAnswer: b",
		"   spaced    out   \n\n\n\n\ntext",
		"",
		"already\nnormal\n\ntext",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
