package quiz

import (
	"fmt"
	"regexp"
	"strings"
)

var digitLine = regexp.MustCompile(`^\s*\d`)

// looseBlocks is the tier-2 partitioning: a new block starts at a blank
// line or at any digit-prefixed line.
func looseBlocks(text string) []string {
	var blocks []string
	var cur []string
	flush := func() {
		if b := strings.TrimSpace(strings.Join(cur, "\n")); b != "" {
			blocks = append(blocks, b)
		}
		cur = cur[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if digitLine.MatchString(line) {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

// looseAttempt is the tier-2 strategy. The header number is optional, and
// options are collected from anywhere in the block rather than only from
// the span before the answer line. Options keep appearance order here too:
// re-sorting them by letter would silently change what a correct index
// means from one tier to the next.
func looseAttempt(block string, pos int, seen map[string]bool) (Question, *SkipRecord) {
	label := fmt.Sprintf("Block %d", pos+1)

	number := ""
	if m := headerPrefix.FindStringSubmatchIndex(block); m != nil {
		number = block[m[2]:m[3]]
		label = number
		block = block[m[1]:]
	}

	lines := strings.Split(block, "\n")
	optLine := -1
	for i, ln := range lines {
		if answerMarker.MatchString(ln) {
			continue
		}
		if optionMarker.MatchString(ln) {
			optLine = i
			break
		}
	}
	if optLine < 0 {
		return Question{}, &SkipRecord{Label: label, Reason: NoQuestionPattern}
	}

	var stemLines []string
	for _, ln := range lines[:optLine] {
		if answerMarker.MatchString(ln) {
			continue
		}
		stemLines = append(stemLines, ln)
	}
	stem := collapseWS(strings.Join(stemLines, " "))
	if stem == "" {
		return Question{}, &SkipRecord{Label: label, Reason: EmptyStem}
	}
	if seen[stemKey(stem)] {
		return Question{}, &SkipRecord{Label: label, Reason: DuplicateQuestion}
	}

	ans := answerMarker.FindStringSubmatch(block)
	if ans == nil {
		return Question{}, &SkipRecord{Label: label, Reason: NoAnswerLine}
	}

	var optRegion []string
	for _, ln := range lines[optLine:] {
		if answerMarker.MatchString(ln) {
			continue
		}
		optRegion = append(optRegion, ln)
	}
	letters, texts := parseOptions(strings.Join(optRegion, "\n"))
	if len(texts) < 2 {
		return Question{}, &SkipRecord{
			Label:  label,
			Reason: TooFewOptions,
			Detail: fmt.Sprintf("found only %d options", len(texts)),
		}
	}

	idx := letterIndex(letters, ans[1])
	if idx < 0 {
		return Question{}, &SkipRecord{
			Label:  label,
			Reason: AnswerLetterNotFound,
			Detail: fmt.Sprintf("answer letter %q not among %v", strings.ToLower(ans[1]), letters),
		}
	}

	return Question{Number: number, Stem: stem, Options: texts, CorrectIndex: idx}, nil
}

// docTemplate is one tier-3 whole-document pattern. The outer pattern
// captures number, stem, options blob and answer letter per question; the
// option pattern pulls individual entries out of the blob.
type docTemplate struct {
	name    string
	pattern *regexp.Regexp
	option  *regexp.Regexp
}

var templates = []docTemplate{
	{
		name:    "lower-paren",
		pattern: regexp.MustCompile(`(?m)^[ \t]*(?:[Qq][ \t]*)?(\d+)[ \t]*[.\-)][ \t]*((?:[^\n]*\n)+?)((?:[ \t]*[a-z]\)[ \t]*[^\n]*\n)+)[ \t]*(?i:answers?)[ \t]*:[ \t]*([A-Za-z])`),
		option:  regexp.MustCompile(`(?m)^[ \t]*([a-z])\)[ \t]*([^\n]*)`),
	},
	{
		name:    "upper-paren",
		pattern: regexp.MustCompile(`(?m)^[ \t]*(?:[Qq][ \t]*)?(\d+)[ \t]*[.\-)][ \t]*((?:[^\n]*\n)+?)((?:[ \t]*[A-Z]\)[ \t]*[^\n]*\n)+)[ \t]*(?i:answers?)[ \t]*:[ \t]*([A-Za-z])`),
		option:  regexp.MustCompile(`(?m)^[ \t]*([A-Z])\)[ \t]*([^\n]*)`),
	},
	{
		name:    "lower-dot",
		pattern: regexp.MustCompile(`(?m)^[ \t]*(?:[Qq][ \t]*)?(\d+)[ \t]*[.\-)][ \t]*((?:[^\n]*\n)+?)((?:[ \t]*[a-z]\.[ \t]*[^\n]*\n)+)[ \t]*(?i:answers?)[ \t]*:[ \t]*([A-Za-z])`),
		option:  regexp.MustCompile(`(?m)^[ \t]*([a-z])\.[ \t]*([^\n]*)`),
	},
}

// harvestTemplates is tier 3: each template sweeps the whole document in
// fixed order and the first one that yields anything wins. Duplicate
// detection falls back to a stem prefix, since template stems can trail
// into neighboring lines.
func harvestTemplates(text string) Result {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	for _, tpl := range templates {
		res := Result{Questions: []Question{}, Skipped: []SkipRecord{}}
		seen := make(map[string]bool)
		for _, m := range tpl.pattern.FindAllStringSubmatch(text, -1) {
			number, stem, blob, letter := m[1], collapseWS(m[2]), m[3], m[4]
			if stem == "" {
				res.Skipped = append(res.Skipped, SkipRecord{Label: number, Reason: EmptyStem})
				continue
			}
			key := stemPrefix(stem)
			if seen[key] {
				res.Skipped = append(res.Skipped, SkipRecord{Label: number, Reason: DuplicateQuestion})
				continue
			}

			var letters, texts []string
			for _, om := range tpl.option.FindAllStringSubmatch(blob, -1) {
				letters = append(letters, strings.ToLower(om[1]))
				texts = append(texts, collapseWS(om[2]))
			}
			if len(texts) < 2 {
				res.Skipped = append(res.Skipped, SkipRecord{
					Label:  number,
					Reason: TooFewOptions,
					Detail: fmt.Sprintf("found only %d options", len(texts)),
				})
				continue
			}

			idx := letterIndex(letters, letter)
			if idx < 0 {
				res.Skipped = append(res.Skipped, SkipRecord{
					Label:  number,
					Reason: AnswerLetterNotFound,
					Detail: fmt.Sprintf("answer letter %q not among %v", strings.ToLower(letter), letters),
				})
				continue
			}

			seen[key] = true
			res.Questions = append(res.Questions, Question{Number: number, Stem: stem, Options: texts, CorrectIndex: idx})
		}
		if len(res.Questions) > 0 {
			return res
		}
	}
	return Result{Questions: []Question{}, Skipped: []SkipRecord{}}
}

func stemPrefix(stem string) string {
	key := stemKey(stem)
	if len(key) > 64 {
		key = key[:64]
	}
	return key
}
