package quiz

import (
	"regexp"
	"strings"
)

// A question header is a line starting a new block: optional "Q" marker,
// one or more digits, then one of ".", "-", ")".
var headerLine = regexp.MustCompile(`^\s*(?:[Qq]\s*)?\d+\s*[.\-)]`)

// splitBlocks partitions normalized text into question-candidate blocks in
// document order. Text preceding the first header still becomes a block, so
// that it surfaces as a skip rather than disappearing silently.
func splitBlocks(text string) []string {
	var blocks []string
	var cur []string
	flush := func() {
		if b := strings.TrimSpace(strings.Join(cur, "\n")); b != "" {
			blocks = append(blocks, b)
		}
		cur = cur[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if headerLine.MatchString(line) {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}
