// Package tui is the terminal chat interface over the agent loop.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Carlosagamez2021/AI-Indexing/internal/agent"
)

type chatState int

const (
	chatIdle chatState = iota
	chatThinking
)

type chatModel struct {
	viewport    viewport.Model
	input       textinput.Model
	spinner     spinner.Model
	renderer    *glamour.TermRenderer
	messages    []chatMessage
	agent       *agent.Agent
	state       chatState
	width       int
	height      int
	initialized bool
}

type chatMessage struct {
	role    string
	content string
}

// answerMsg is sent when an agent turn completes.
type answerMsg struct {
	answer string
	err    error
}

func newChatModel(ag *agent.Agent) chatModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "Ask a question about your codebase..."
	ti.CharLimit = 2000
	ti.Focus()

	return chatModel{
		spinner: sp,
		input:   ti,
		agent:   ag,
		state:   chatIdle,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) initViewport(width, height int) {
	m.width = width
	m.height = height

	// Layout: viewport + status bar (1 line) + input (1 line) + gap.
	vpHeight := height - 3
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.viewport = viewport.New(width, vpHeight)
	m.viewport.SetContent(dimStyle.Render("Ask a question about your indexed codebase.\n\nCommands: /help, /clear, /exit"))

	m.input.Width = width - 4

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err == nil {
		m.renderer = r
	}

	m.initialized = true
}

func askQuestion(ag *agent.Agent, question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := ag.Ask(context.Background(), question)
		if err != nil {
			return answerMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.initViewport(msg.Width, msg.Height)
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case answerMsg:
		m.state = chatIdle
		if msg.err != nil {
			m.messages = append(m.messages, chatMessage{role: "error", content: msg.err.Error()})
		} else {
			m.messages = append(m.messages, chatMessage{role: "assistant", content: msg.answer})
		}
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.state != chatIdle {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			// Re-render viewport so the spinner frame updates.
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state != chatIdle {
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()

			switch question {
			case "/exit", "/quit":
				return m, tea.Quit
			case "/clear":
				m.messages = nil
				m.agent.Reset()
				m.viewport.SetContent(dimStyle.Render("Conversation cleared."))
				return m, nil
			case "/help":
				helpText := "Commands:\n  /clear  - clear conversation history\n  /exit   - quit\n  /help   - show this help"
				m.messages = append(m.messages, chatMessage{role: "system", content: helpText})
				m.viewport.SetContent(m.renderMessages())
				m.viewport.GotoBottom()
				return m, nil
			}

			m.messages = append(m.messages, chatMessage{role: "user", content: question})
			m.state = chatThinking
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()

			return m, tea.Batch(m.spinner.Tick, askQuestion(m.agent, question))
		}
	}

	if m.state == chatIdle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m chatModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return assistantMsgStyle.Render(content)
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return assistantMsgStyle.Render(content)
	}
	return strings.TrimRight(rendered, "\n")
}

func (m chatModel) renderMessages() string {
	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case "user":
			sb.WriteString(userMsgStyle.Render("You: ") + msg.content + "\n\n")
		case "assistant":
			sb.WriteString(m.renderMarkdown(msg.content) + "\n\n")
		case "error":
			sb.WriteString(errorStyle.Render("Error: "+msg.content) + "\n\n")
		case "system":
			sb.WriteString(dimStyle.Render(msg.content) + "\n\n")
		}
	}

	if m.state != chatIdle {
		sb.WriteString(m.spinner.View() + " " + dimStyle.Render("Thinking...") + "\n")
	}

	return sb.String()
}

func (m chatModel) View() string {
	if !m.initialized {
		return ""
	}

	statusText := "idle"
	if m.state == chatThinking {
		statusText = "thinking..."
	}
	statusBar := statusBarStyle.
		Width(m.width).
		Render(fmt.Sprintf(" aidx chat • %s", statusText))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		statusBar,
		m.input.View(),
	)
}

// Run starts the chat TUI over the given agent.
func Run(ag *agent.Agent) error {
	p := tea.NewProgram(newChatModel(ag), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
