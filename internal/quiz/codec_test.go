package quiz

import (
	"reflect"
	"testing"
)

// pollSource fakes a forwarded interactive poll: question text, option
// values of mixed richness, and a possibly missing correct index.
type pollSource struct {
	question string
	options  []any
	correct  int
	known    bool
}

func (p pollSource) QuestionText() string { return p.question }

func (p pollSource) QuestionOptions() []OptionSource {
	out := make([]OptionSource, len(p.options))
	for i, v := range p.options {
		out[i] = OptionFrom(v)
	}
	return out
}

func (p pollSource) CorrectOption() (int, bool) { return p.correct, p.known }

func TestEncodeCanonicalForm(t *testing.T) {
	src := pollSource{
		question: "Capital of France?",
		options:  []any{"Paris", "Lyon"},
		correct:  0,
		known:    true,
	}
	got := Encode(src, 0)
	want := "Capital of France?\na) Paris\nb) Lyon\nAnswer: a) Paris"
	if got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestEncodeWithDisplayNumber(t *testing.T) {
	src := pollSource{question: "Q?", options: []any{"x", "y"}, correct: 1, known: true}
	got := Encode(src, 7)
	want := "7. Q?\na) x\nb) y\nAnswer: b) y"
	if got != want {
		t.Fatalf("Encode = %q", got)
	}
}

func TestEncodeWithoutCorrectIndex(t *testing.T) {
	src := pollSource{question: "Q?", options: []any{"x", "y"}}
	got := Encode(src, 0)
	want := "Q?\na) x\nb) y\nAnswer: Not provided"
	if got != want {
		t.Fatalf("Encode = %q", got)
	}
}

type opaqueOption struct{ v string }

func (o opaqueOption) String() string { return o.v }

func TestEncodeGenericOptionValues(t *testing.T) {
	// Options exposing only a generic string form still render.
	src := pollSource{
		question: "Pick.",
		options:  []any{opaqueOption{"alpha"}, 42},
		correct:  1,
		known:    true,
	}
	got := Encode(src, 0)
	want := "Pick.\na) alpha\nb) 42\nAnswer: b) 42"
	if got != want {
		t.Fatalf("Encode = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	questions := []Question{
		{Number: "1", Stem: "What is 2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
		{Number: "12", Stem: "Longest river?", Options: []string{"Nile", "Amazon", "Yangtze", "Danube"}, CorrectIndex: 0},
		{Number: "3", Stem: "Pick the third letter of the alphabet.", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2},
	}
	for i, q := range questions {
		text := Encode(q, i+1)
		res := Extract(text)
		if len(res.Questions) != 1 {
			t.Fatalf("round trip of %q: %d questions, skipped %+v", text, len(res.Questions), res.Skipped)
		}
		got := res.Questions[0]
		if got.Stem != q.Stem {
			t.Fatalf("stem changed: %q -> %q", q.Stem, got.Stem)
		}
		if !reflect.DeepEqual(got.Options, q.Options) {
			t.Fatalf("options changed: %v -> %v", q.Options, got.Options)
		}
		if got.CorrectIndex != q.CorrectIndex {
			t.Fatalf("correct index changed: %d -> %d", q.CorrectIndex, got.CorrectIndex)
		}
	}
}

func TestRoundTripBatch(t *testing.T) {
	// A joined export of several encoded questions decodes back intact.
	qs := []Question{
		{Number: "1", Stem: "First?", Options: []string{"x", "y"}, CorrectIndex: 0},
		{Number: "2", Stem: "Second?", Options: []string{"p", "q", "r"}, CorrectIndex: 2},
	}
	text := Encode(qs[0], 1) + "\n\n" + Encode(qs[1], 2)
	res := Extract(text)
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions, skipped %+v", len(res.Questions), res.Skipped)
	}
	for i := range qs {
		if res.Questions[i].Stem != qs[i].Stem || res.Questions[i].CorrectIndex != qs[i].CorrectIndex {
			t.Fatalf("question %d changed: %+v", i, res.Questions[i])
		}
	}
}
