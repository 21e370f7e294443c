package quiz

import (
	"fmt"
	"strings"
)

// Source is the narrow capability set the codec needs from any quiz-like
// value: a question text, ordered options, and an optional correct index.
// It is satisfied both by Question and by adapters over transport types
// such as a forwarded interactive poll.
type Source interface {
	QuestionText() string
	QuestionOptions() []OptionSource
	// CorrectOption reports the correct option index; ok is false when the
	// source does not expose one (e.g. an anonymized forwarded poll).
	CorrectOption() (idx int, ok bool)
}

// OptionSource is one option-like value. Anything with text qualifies.
type OptionSource interface {
	OptionText() string
}

// TextOption adapts a plain string to OptionSource.
type TextOption string

func (t TextOption) OptionText() string { return string(t) }

// OptionFrom wraps an arbitrary value as an OptionSource, falling back to
// its generic string form when it exposes nothing richer.
func OptionFrom(v any) OptionSource {
	switch o := v.(type) {
	case OptionSource:
		return o
	case string:
		return TextOption(o)
	case fmt.Stringer:
		return TextOption(o.String())
	default:
		return TextOption(fmt.Sprint(v))
	}
}

// Encode renders a quiz source into canonical text:
//
//	{number}. {stem}
//	a) first option
//	b) second option
//	Answer: b) second option
//
// number <= 0 suppresses the leading numbering token. A source without a
// correct index renders "Answer: Not provided"; the codec never guesses.
// Canonical text is itself a valid extractable block, so decoding is just
// Extract.
func Encode(src Source, number int) string {
	var b strings.Builder
	if number > 0 {
		fmt.Fprintf(&b, "%d. ", number)
	}
	b.WriteString(src.QuestionText())
	opts := src.QuestionOptions()
	for i, o := range opts {
		fmt.Fprintf(&b, "\n%s) %s", optionLetter(i), o.OptionText())
	}
	if idx, ok := src.CorrectOption(); ok && idx >= 0 && idx < len(opts) {
		fmt.Fprintf(&b, "\nAnswer: %s) %s", optionLetter(idx), opts[idx].OptionText())
	} else {
		b.WriteString("\nAnswer: Not provided")
	}
	return b.String()
}

// optionLetter maps 0 -> "a", 1 -> "b", ...
func optionLetter(i int) string {
	return string(rune('a' + i))
}

// Question satisfies Source, so accepted questions round-trip through
// Encode and Extract unchanged.

func (q Question) QuestionText() string { return q.Stem }

func (q Question) QuestionOptions() []OptionSource {
	out := make([]OptionSource, len(q.Options))
	for i, o := range q.Options {
		out[i] = TextOption(o)
	}
	return out
}

func (q Question) CorrectOption() (int, bool) { return q.CorrectIndex, true }
