// Package quiz extracts multiple-choice questions from loosely structured
// plain text and renders them back into the same canonical notation.
//
// Extraction is layered: a strict primary strategy runs per block, and two
// progressively looser fallback tiers take over only when the tier before
// them accepts nothing in the whole document. All strategies are pure
// functions; the package holds no state and is safe for concurrent use.
package quiz

import "strings"

// SkipReason classifies why a candidate block was rejected.
type SkipReason string

const (
	// Structural rejections.
	NoQuestionPattern SkipReason = "no_question_pattern"
	EmptyStem         SkipReason = "empty_stem"
	NoAnswerLine      SkipReason = "no_answer_line"
	TooFewOptions     SkipReason = "too_few_options"

	// Semantic rejections.
	DuplicateQuestion    SkipReason = "duplicate_question"
	AnswerLetterNotFound SkipReason = "answer_letter_not_found"
)

// Question is one accepted multiple-choice question. Options keep their
// document appearance order; CorrectIndex is always a valid index into
// Options. Values are never mutated after construction.
type Question struct {
	// Number is the original textual label from the source document. It is
	// not guaranteed to form a clean integer sequence.
	Number       string   `json:"number"`
	Stem         string   `json:"stem"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// SkipRecord reports one rejected block: its label (original number or a
// positional "Block N" identifier), the reason, and optional detail such as
// the option count found or the unmatched answer letter.
type SkipRecord struct {
	Label  string     `json:"label"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Result is the outcome of one extraction call. Empty input yields an empty
// Result, never an error.
type Result struct {
	Questions []Question   `json:"questions"`
	Skipped   []SkipRecord `json:"skipped"`
}

// stemKey folds whitespace so duplicate detection ignores layout noise.
func stemKey(stem string) string {
	return strings.Join(strings.Fields(stem), " ")
}
