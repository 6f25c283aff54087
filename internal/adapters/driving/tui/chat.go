// Package tui implements the terminal chat client.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driving"
)

const greeting = "Hello! Before I can answer questions about your benefits, I need a few details. What is your first name?"

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// replyMsg carries the outcome of a chat turn back into the event loop.
type replyMsg struct {
	reply *driving.ChatReply
	err   error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	chat      driving.ChatService
	sessionID string

	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	phase      domain.Phase
	status     string
	waiting    bool
	ready      bool
}

// New creates a chat model with a fresh session.
func New(chat driving.ChatService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		chat:       chat,
		sessionID:  uuid.NewString(),
		input:      ti,
		viewport:   viewport.New(0, 0),
		transcript: []string{assistantStyle.Render("assistant: ") + greeting},
		phase:      domain.PhaseIntake,
		status:     "Collecting your details.",
	}
}

// Init initialises the model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		vh := msg.Height - ih - 4
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.transcript = append(m.transcript, userStyle.Render("you: ")+text)
			m.input.SetValue("")
			m.waiting = true
			m.status = "Thinking..."
			m.refresh()
			return m, m.send(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.transcript = append(m.transcript,
				errorStyle.Render("Sorry, something went wrong. Please try again."))
			m.status = "Error: " + msg.err.Error()
			m.refresh()
			return m, nil
		}
		m.transcript = append(m.transcript,
			assistantStyle.Render("assistant: ")+msg.reply.Text)
		m.phase = msg.reply.Phase
		if m.phase == domain.PhaseQA {
			m.status = fmt.Sprintf("Answering for %s %s members.",
				msg.reply.Profile.HMOName, msg.reply.Profile.MembershipTier)
		} else {
			m.status = "Collecting your details."
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("benefik chat")
	status := statusStyle.Render(m.status)
	input := inputBoxStyle.Render(m.input.View())
	return header + "\n" + m.viewport.View() + "\n" + input + "\n" + status
}

// send runs one chat turn off the event loop.
func (m Model) send(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.chat.Handle(context.Background(), m.sessionID, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}
