package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"faqagent/internal/domain"
	"faqagent/internal/service"
)

// AgentPort is the TUI-facing subset of the agent service.
type AgentPort interface {
	Reply(ctx context.Context, message string) service.Reply
}

type turn struct {
	question string
	reply    service.Reply
}

type replyMsg struct {
	question string
	reply    service.Reply
}

// Model is the Bubble Tea model for the chat shell. History is display state
// only; every question is answered on its own.
type Model struct {
	agent    AgentPort
	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	welcome  string
	status   string
	pending  bool
	ready    bool
}

// New creates a chat model.
func New(agent AgentPort, welcome string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "e.g., What does EVA do?"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{agent: agent, input: ti, viewport: vp, welcome: welcome, status: statusIdle}
}

const statusIdle = "Enter to ask · pgup/pgdn to scroll · ctrl+l to clear · esc to quit"

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header + welcome, status, input box
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-ch)
		m.refresh()
		return m, nil
	case replyMsg:
		m.pending = false
		m.turns = append(m.turns, turn{question: msg.question, reply: msg.reply})
		m.status = describe(msg.reply)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case tea.KeyCtrlL:
			m.turns = nil
			m.status = statusIdle
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			if m.pending {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.pending = true
			m.status = "Thinking..."
			return m, m.ask(q)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the agent outside the update loop since a fallback call may block.
func (m Model) ask(q string) tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		return replyMsg{question: q, reply: agent.Reply(context.Background(), q)}
	}
}

// View renders the header, chat history, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Thoughtful AI Support Agent")
	welcome := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.welcome)
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + welcome + "\n" + chat + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTurns())
	m.viewport.GotoBottom()
}

func (m Model) renderTurns() string {
	if len(m.turns) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if t.question != "" {
			b.WriteString(userStyle.Render("You: "))
			b.WriteString(t.question)
			b.WriteString("\n")
		}
		b.WriteString(agentStyle.Render("Agent: "))
		b.WriteString(t.reply.Text)
	}
	return b.String()
}

func describe(r service.Reply) string {
	switch r.Source {
	case domain.SourceFAQ:
		return fmt.Sprintf("Answered from FAQ (score=%.2f)", r.Match.Score)
	case domain.SourceLLM:
		return "No confident FAQ match; answered by the language model"
	case domain.SourceGeneric:
		return "No confident FAQ match"
	default:
		return statusIdle
	}
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	agentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
