package quiz

import (
	"regexp"
	"strings"
)

var (
	spaceRun     = regexp.MustCompile(`  +`)
	blankLineRun = regexp.MustCompile(`\n(?: ?\n){3,}`)
)

// Normalize canonicalizes raw input text: all line endings become "\n",
// runs of spaces collapse to one space, and runs of more than two blank
// lines collapse to a single blank line. Idempotent by construction.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = spaceRun.ReplaceAllString(text, " ")
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return text
}
