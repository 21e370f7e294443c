package quiz

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headerPrefix = regexp.MustCompile(`^\s*(?:[Qq]\s*)?(\d+)\s*[.\-)]\s*`)
	optionMarker = regexp.MustCompile(`^\s*([A-Za-z])[.)]\s*(.*)$`)
	answerMarker = regexp.MustCompile(`(?i)answers?\s*[[:punct:]]?\s*:\s*([A-Za-z])`)
)

// blockStrategy is the uniform per-block contract: a block yields either a
// Question or a SkipRecord, never both and never an error. pos is the
// zero-based block position, used to label blocks that carry no number.
// seen maps normalized stems of already accepted questions.
type blockStrategy func(block string, pos int, seen map[string]bool) (Question, *SkipRecord)

// Extract parses questions out of raw text. The primary strategy runs over
// every block first; the looser tiers are whole-document escalations, tried
// only when the tier before them accepts nothing at all. Tiers never mix
// within one document.
//
// Empty or unparseable input is not an error: it comes back as a Result
// with zero questions.
func Extract(text string) Result {
	text = strings.TrimSpace(Normalize(text))
	if text == "" {
		return Result{Questions: []Question{}, Skipped: []SkipRecord{}}
	}

	primary := runTier(splitBlocks(text), primaryAttempt)
	if len(primary.Questions) > 0 {
		return primary
	}
	if res := runTier(looseBlocks(text), looseAttempt); len(res.Questions) > 0 {
		return res
	}
	if res := harvestTemplates(text); len(res.Questions) > 0 {
		return res
	}
	// Nothing matched anywhere. The primary pass has the most precise
	// per-block diagnostics, so report its skips.
	return primary
}

func runTier(blocks []string, attempt blockStrategy) Result {
	res := Result{Questions: []Question{}, Skipped: []SkipRecord{}}
	seen := make(map[string]bool)
	for i, block := range blocks {
		q, skip := attempt(block, i, seen)
		if skip != nil {
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		seen[stemKey(q.Stem)] = true
		res.Questions = append(res.Questions, q)
	}
	return res
}

// primaryAttempt implements the strict strategy: numbered header, stem up to
// the first option marker, an explicit answer line, and an options span
// bounded by stem end and answer line. Option order is appearance order.
func primaryAttempt(block string, pos int, seen map[string]bool) (Question, *SkipRecord) {
	label := fmt.Sprintf("Block %d", pos+1)

	m := headerPrefix.FindStringSubmatchIndex(block)
	if m == nil {
		return Question{}, &SkipRecord{Label: label, Reason: NoQuestionPattern}
	}
	number := block[m[2]:m[3]]
	label = number
	rest := block[m[1]:]

	lines := strings.Split(rest, "\n")
	offsets := lineOffsets(lines)

	optLine := -1
	for i, ln := range lines {
		if optionMarker.MatchString(ln) {
			optLine = i
			break
		}
	}
	if optLine < 0 {
		return Question{}, &SkipRecord{Label: label, Reason: NoQuestionPattern}
	}

	stem := collapseWS(strings.Join(lines[:optLine], " "))
	if stem == "" {
		return Question{}, &SkipRecord{Label: label, Reason: EmptyStem}
	}
	if seen[stemKey(stem)] {
		return Question{}, &SkipRecord{Label: label, Reason: DuplicateQuestion}
	}

	ans := answerMarker.FindStringSubmatchIndex(rest)
	if ans == nil {
		return Question{}, &SkipRecord{Label: label, Reason: NoAnswerLine}
	}
	letter := rest[ans[2]:ans[3]]

	// Options live strictly between the end of the stem and the answer line.
	regionEnd := ans[0]
	if regionEnd < offsets[optLine] {
		regionEnd = offsets[optLine]
	}
	letters, texts := parseOptions(rest[offsets[optLine]:regionEnd])
	if len(texts) < 2 {
		return Question{}, &SkipRecord{
			Label:  label,
			Reason: TooFewOptions,
			Detail: fmt.Sprintf("found only %d options", len(texts)),
		}
	}

	idx := letterIndex(letters, letter)
	if idx < 0 {
		return Question{}, &SkipRecord{
			Label:  label,
			Reason: AnswerLetterNotFound,
			Detail: fmt.Sprintf("answer letter %q not among %v", strings.ToLower(letter), letters),
		}
	}

	return Question{Number: number, Stem: stem, Options: texts, CorrectIndex: idx}, nil
}

// parseOptions scans a region for repeated "<letter><sep> text" entries in
// appearance order. Lines without a marker continue the previous option.
func parseOptions(region string) (letters []string, texts []string) {
	var cur []string
	flush := func() {
		if cur != nil {
			texts = append(texts, collapseWS(strings.Join(cur, " ")))
			cur = nil
		}
	}
	for _, ln := range strings.Split(region, "\n") {
		if m := optionMarker.FindStringSubmatch(ln); m != nil {
			flush()
			letters = append(letters, strings.ToLower(m[1]))
			cur = []string{m[2]}
			continue
		}
		if cur != nil {
			cur = append(cur, ln)
		}
	}
	flush()
	return letters, texts
}

// letterIndex maps an answer letter, case-insensitively, to its position in
// the extracted option letters. Returns -1 when absent.
func letterIndex(letters []string, letter string) int {
	letter = strings.ToLower(letter)
	for i, l := range letters {
		if l == letter {
			return i
		}
	}
	return -1
}

func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	off := 0
	for i, ln := range lines {
		offsets[i] = off
		off += len(ln) + 1
	}
	return offsets
}

func collapseWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
