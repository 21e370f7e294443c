package quiz

import (
	"reflect"
	"testing"
)

func TestLooseTierUnnumberedQuestion(t *testing.T) {
	// No numbered header anywhere, so the primary tier accepts nothing and
	// the loose tier takes over.
	res := Extract("Capital of France?\na) Paris\nb) Lyon\nAnswer: a")
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, skipped %+v", len(res.Questions), res.Skipped)
	}
	q := res.Questions[0]
	if q.Number != "" || q.Stem != "Capital of France?" {
		t.Fatalf("got %+v", q)
	}
	if !reflect.DeepEqual(q.Options, []string{"Paris", "Lyon"}) || q.CorrectIndex != 0 {
		t.Fatalf("got %+v", q)
	}
}

func TestLooseTierAnswerBeforeOptions(t *testing.T) {
	// The strict tier only accepts options between stem and answer line;
	// the loose tier finds them anywhere in the block.
	res := Extract("Which is bigger?\nAnswer: b\na) three\nb) four")
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, skipped %+v", len(res.Questions), res.Skipped)
	}
	q := res.Questions[0]
	if q.Stem != "Which is bigger?" {
		t.Fatalf("stem = %q", q.Stem)
	}
	if !reflect.DeepEqual(q.Options, []string{"three", "four"}) || q.CorrectIndex != 1 {
		t.Fatalf("got %+v", q)
	}
}

func TestLooseTierKeepsAppearanceOrder(t *testing.T) {
	// Options out of letter order stay in appearance order; the answer
	// letter maps to the position where that letter actually appeared.
	res := Extract("Pick the vowel.\nb) k\na) e\nAnswer: a")
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, skipped %+v", len(res.Questions), res.Skipped)
	}
	q := res.Questions[0]
	if !reflect.DeepEqual(q.Options, []string{"k", "e"}) {
		t.Fatalf("options re-ordered: %v", q.Options)
	}
	if q.CorrectIndex != 1 {
		t.Fatalf("correct = %d, want 1 (appearance position of letter a)", q.CorrectIndex)
	}
}

func TestLooseTierNotMixedWithPrimary(t *testing.T) {
	// One primary acceptance means no escalation: the unnumbered second
	// question stays unparsed instead of being rescued by the loose tier.
	text := "1. Numbered?\na) x\nb) y\nAnswer: a\n\n" +
		"Unnumbered?\na) p\nb) q\nAnswer: b"
	res := Extract(text)
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1 (tiers must not mix)", len(res.Questions))
	}
	if res.Questions[0].Number != "1" {
		t.Fatalf("got %+v", res.Questions[0])
	}
}

func TestTemplateTierLowercaseParen(t *testing.T) {
	// The stem opens with an initial that looks like an option marker, so
	// the block tiers see an empty stem. Only the whole-document template
	// tier parses it.
	text := "1. A. Smith wrote which of these?\n" +
		"a) The Wealth of Nations\n" +
		"b) Das Kapital\n" +
		"Answer: a"
	res := Extract(text)
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, skipped %+v", len(res.Questions), res.Skipped)
	}
	q := res.Questions[0]
	if q.Number != "1" || q.Stem != "A. Smith wrote which of these?" {
		t.Fatalf("got %+v", q)
	}
	if !reflect.DeepEqual(q.Options, []string{"The Wealth of Nations", "Das Kapital"}) || q.CorrectIndex != 0 {
		t.Fatalf("got %+v", q)
	}
}

func TestTemplateTierUppercaseParen(t *testing.T) {
	text := "1. B. Obama served as which president?\n" +
		"A) the 44th\n" +
		"B) the 43rd\n" +
		"Answer: A"
	res := Extract(text)
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, skipped %+v", len(res.Questions), res.Skipped)
	}
	q := res.Questions[0]
	if q.Stem != "B. Obama served as which president?" || q.CorrectIndex != 0 {
		t.Fatalf("got %+v", q)
	}
}

func TestTemplateTierDuplicateByStemPrefix(t *testing.T) {
	text := "1. A. Turing proposed which test?\na) imitation game\nb) chess match\nAnswer: a\n" +
		"2. A. Turing proposed which test?\na) imitation game\nb) chess match\nAnswer: b"
	res := Extract(text)
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	foundDup := false
	for _, s := range res.Skipped {
		if s.Reason == DuplicateQuestion {
			foundDup = true
		}
	}
	if !foundDup {
		t.Fatalf("no duplicate skip recorded: %+v", res.Skipped)
	}
}
