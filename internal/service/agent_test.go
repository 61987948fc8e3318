package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"faqagent/internal/domain"
	"faqagent/internal/fallback"
	"faqagent/internal/metrics"
	"faqagent/internal/retrieval"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

type stubGenerator struct {
	text  string
	ok    bool
	calls int
}

func (g *stubGenerator) Generate(context.Context, string) (string, bool) {
	g.calls++
	return g.text, g.ok
}

func newEngine(t *testing.T) *retrieval.Engine {
	t.Helper()
	e, err := retrieval.New(domain.NewCorpus([]domain.FAQEntry{
		{Question: "What does EVA do?", Answer: "EVA automates eligibility verification."},
	}))
	if err != nil {
		t.Fatalf("retrieval.New: %v", err)
	}
	return e
}

func newAgent(t *testing.T, gen domain.Generator) *Agent {
	t.Helper()
	return NewAgent(newEngine(t), gen, fallback.Generic{}, retrieval.DefaultThreshold, zap.NewNop())
}

func TestReply_Confident(t *testing.T) {
	gen := &stubGenerator{text: "llm", ok: true}
	a := newAgent(t, gen)

	r := a.Reply(context.Background(), "  what does eva do  ")
	if !r.Confident || r.Source != domain.SourceFAQ {
		t.Fatalf("got confident=%v source=%s", r.Confident, r.Source)
	}
	want := "EVA automates eligibility verification.\n\nMatched FAQ: “What does EVA do?”\nConfidence: 1.00"
	if r.Text != want {
		t.Errorf("text = %q, want %q", r.Text, want)
	}
	if gen.calls != 0 {
		t.Error("generator called for a confident match")
	}
	if r.ID == "" {
		t.Error("reply has no ID")
	}
}

func TestReply_GeneratorUnavailable(t *testing.T) {
	a := newAgent(t, fallback.Null{})
	r := a.Reply(context.Background(), "what is the weather today")

	if r.Confident {
		t.Error("unexpected confident reply")
	}
	if r.Source != domain.SourceGeneric {
		t.Errorf("source = %s, want generic", r.Source)
	}
	if !strings.HasPrefix(r.Text, fallback.DefaultMessage) {
		t.Errorf("text = %q, want generic message first", r.Text)
	}
	if !strings.Contains(r.Text, "Matched FAQ: “What does EVA do?”\nConfidence: 0.00") {
		t.Errorf("missing transparency hint: %q", r.Text)
	}
	if r.Match == nil || r.Match.Score != 0 {
		t.Errorf("match = %+v, want candidate with score 0", r.Match)
	}
}

func TestReply_GeneratorAnswers(t *testing.T) {
	gen := &stubGenerator{text: "It is sunny.", ok: true}
	a := newAgent(t, gen)
	r := a.Reply(context.Background(), "what is the weather today")

	if r.Source != domain.SourceLLM {
		t.Errorf("source = %s, want llm", r.Source)
	}
	if !strings.HasPrefix(r.Text, "It is sunny.\n\nMatched FAQ:") {
		t.Errorf("text = %q", r.Text)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestReply_GeneratorBlankFallsBack(t *testing.T) {
	a := newAgent(t, &stubGenerator{text: "   ", ok: true})
	r := a.Reply(context.Background(), "what is the weather today")
	if r.Source != domain.SourceGeneric {
		t.Errorf("source = %s, want generic", r.Source)
	}
}

func TestReply_NilGenerator(t *testing.T) {
	a := newAgent(t, nil)
	r := a.Reply(context.Background(), "weather")
	if r.Source != domain.SourceGeneric || r.Text == "" {
		t.Errorf("got %+v", r)
	}
}

func TestReply_Blank(t *testing.T) {
	gen := &stubGenerator{text: "llm", ok: true}
	a := newAgent(t, gen)
	for _, msg := range []string{"", "   "} {
		r := a.Reply(context.Background(), msg)
		if r.Text != EmptyPrompt || r.Source != domain.SourcePrompt || r.Match != nil {
			t.Errorf("Reply(%q) = %+v", msg, r)
		}
	}
	if gen.calls != 0 {
		t.Error("generator called for blank message")
	}
}

func TestReplyWithThreshold(t *testing.T) {
	a := newAgent(t, fallback.Null{})
	if r := a.ReplyWithThreshold(context.Background(), "what does eva do", 1.5); r.Confident {
		t.Error("threshold above 1 should never be confident")
	}
	if r := a.ReplyWithThreshold(context.Background(), "weather", 0); !r.Confident {
		t.Error("threshold 0 should accept a zero score")
	}
}

func TestAnswer_Boundary(t *testing.T) {
	a := newAgent(t, nil)
	res, confident := a.Answer("", retrieval.DefaultThreshold)
	if res != nil || confident {
		t.Errorf("Answer(\"\") = (%v, %v)", res, confident)
	}
}

func TestFormatAnswer(t *testing.T) {
	if got := FormatAnswer("plain", nil); got != "plain" {
		t.Errorf("FormatAnswer(nil) = %q", got)
	}
	m := &domain.QueryResult{Entry: domain.FAQEntry{Question: "Q?"}, Score: 0.456}
	if got := FormatAnswer("A", m); got != "A\n\nMatched FAQ: “Q?”\nConfidence: 0.46" {
		t.Errorf("FormatAnswer = %q", got)
	}
}
