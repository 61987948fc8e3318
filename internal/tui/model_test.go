package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"faqagent/internal/domain"
	"faqagent/internal/service"
)

type stubAgent struct {
	questions []string
}

func (a *stubAgent) Reply(_ context.Context, message string) service.Reply {
	a.questions = append(a.questions, message)
	if message == "" {
		return service.Reply{Text: service.EmptyPrompt, Source: domain.SourcePrompt}
	}
	return service.Reply{
		Text:      "answer to " + message,
		Match:     &domain.QueryResult{Score: 0.9},
		Confident: true,
		Source:    domain.SourceFAQ,
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func submit(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestModel_AsksAndRecordsTurn(t *testing.T) {
	agent := &stubAgent{}
	m := sized(t, New(agent, "Ask about EVA"))

	m = submit(t, m, "  what does eva do  ")

	if len(agent.questions) != 1 || agent.questions[0] != "what does eva do" {
		t.Fatalf("agent saw %q", agent.questions)
	}
	if len(m.turns) != 1 {
		t.Fatalf("turns = %d, want 1", len(m.turns))
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if m.pending {
		t.Error("still pending after reply")
	}
	if !strings.Contains(m.status, "score=0.90") {
		t.Errorf("status = %q", m.status)
	}
	view := m.View()
	if !strings.Contains(view, "answer to what does eva do") {
		t.Errorf("view missing reply:\n%s", view)
	}
}

func TestModel_BlankSubmitShowsPrompt(t *testing.T) {
	m := sized(t, New(&stubAgent{}, ""))
	m = submit(t, m, "   ")
	if len(m.turns) != 1 || m.turns[0].reply.Text != service.EmptyPrompt {
		t.Fatalf("turns = %+v", m.turns)
	}
	if strings.Contains(m.renderTurns(), "You:") {
		t.Error("blank question should not render a user line")
	}
}

func TestModel_ScrollHistory(t *testing.T) {
	m := sized(t, New(&stubAgent{}, ""))
	for i := 0; i < 20; i++ {
		m.turns = append(m.turns, turn{
			question: fmt.Sprintf("question %d", i),
			reply:    service.Reply{Text: fmt.Sprintf("answer %d", i), Source: domain.SourceFAQ},
		})
	}
	m.refresh()
	bottom := m.viewport.YOffset
	if bottom == 0 {
		t.Fatal("history should overflow the viewport")
	}

	tests := []struct {
		key  tea.KeyType
		want func(before, after int) bool
	}{
		{tea.KeyPgUp, func(b, a int) bool { return a < b }},
		{tea.KeyUp, func(b, a int) bool { return a == b-1 }},
		{tea.KeyDown, func(b, a int) bool { return a == b+1 }},
		{tea.KeyPgDown, func(b, a int) bool { return a > b }},
	}
	for _, tc := range tests {
		before := m.viewport.YOffset
		next, _ := m.Update(tea.KeyMsg{Type: tc.key})
		m = next.(Model)
		if !tc.want(before, m.viewport.YOffset) {
			t.Errorf("%v: YOffset %d -> %d", tc.key, before, m.viewport.YOffset)
		}
	}
	if m.input.Value() != "" {
		t.Errorf("scroll keys reached the input: %q", m.input.Value())
	}
}

func TestModel_ClearHistory(t *testing.T) {
	m := sized(t, New(&stubAgent{}, ""))
	m = submit(t, m, "one")
	m = submit(t, m, "two")
	if len(m.turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(m.turns))
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	if len(m.turns) != 0 {
		t.Errorf("turns after clear = %d", len(m.turns))
	}
	if !strings.Contains(m.renderTurns(), "No messages yet.") {
		t.Error("cleared view should show placeholder")
	}
}

func TestModel_IgnoresEnterWhilePending(t *testing.T) {
	m := sized(t, New(&stubAgent{}, ""))
	m.input.SetValue("first")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	m.input.SetValue("second")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("second enter while pending should be ignored")
	}
}

func TestModel_Quit(t *testing.T) {
	m := New(&stubAgent{}, "")
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		if cmd == nil {
			t.Fatalf("key %v produced no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %v did not quit", k)
		}
	}
}

func TestModel_LoadingBeforeResize(t *testing.T) {
	if got := New(&stubAgent{}, "").View(); got != "Loading..." {
		t.Errorf("View = %q", got)
	}
}
