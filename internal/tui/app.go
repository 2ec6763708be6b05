package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/demigods200/tipsiti-chatapp/internal/chat"
)

// Model represents the main TUI application state
type Model struct {
	app          *chat.Application
	input        textarea.Model
	history      viewport.Model
	picker       pickerModel
	showPicker   bool
	showHelp     bool
	loading      bool
	spinnerFrame int
	status       string
	help         helpModel
	windowWidth  int
	windowHeight int
	ready        bool
}

// New creates a new TUI application
func New(application *chat.Application) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.Prompt = "▍ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	return &Model{
		app:          application,
		input:        ta,
		history:      viewport.New(80, 18),
		picker:       newPickerModel(),
		help:         newHelpModel(),
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.refreshConversations())
}

// Update handles UI updates
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.input.SetWidth(msg.Width - 4)
		m.history.Width = msg.Width - 2
		m.history.Height = msg.Height - 9
		m.picker.setSize(msg.Width, msg.Height)
		m.ready = true
		m.syncHistory()
		return m, nil

	case tea.KeyMsg:
		if m.showPicker {
			return m.updatePicker(msg)
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.help.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.help.keys.Enter):
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if m.app.Session.Pending() {
				m.status = "still waiting on the previous reply"
				return m, nil
			}
			m.input.Reset()
			m.loading = true
			m.spinnerFrame = 0
			m.status = ""
			return m, tea.Batch(m.submit(text), m.spinCmd())

		case key.Matches(msg, m.help.keys.NewChat):
			m.status = ""
			return m, m.startNewConversation()

		case key.Matches(msg, m.help.keys.Conversations):
			m.picker.setItems(m.app.Index.Current())
			m.showPicker = true
			return m, m.refreshConversations()

		case key.Matches(msg, m.help.keys.Category):
			return m, m.cycleCategory()

		case key.Matches(msg, m.help.keys.Help):
			m.showHelp = true
			return m, nil
		}

	case submitDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.status = statusErrorStyle.Render(fmt.Sprintf("send failed: %v", msg.err))
		}
		m.syncHistory()
		return m, nil

	case sessionChangedMsg:
		if msg.err != nil {
			m.status = statusErrorStyle.Render(msg.err.Error())
		} else {
			m.status = msg.note
		}
		m.syncHistory()
		return m, nil

	case conversationsMsg:
		m.picker.setItems(msg.summaries)
		return m, nil

	case spinMsg:
		if m.loading {
			m.spinnerFrame++
			return m, m.spinCmd()
		}
		// A queued submit appended a user message while the reply was in
		// flight; keep the transcript current either way.
		m.syncHistory()
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.history, cmd = m.history.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.showPicker = false
		return m, nil
	case "up", "k":
		m.picker.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.picker.moveCursor(1)
		return m, nil
	case "enter":
		id, ok := m.picker.selected()
		m.showPicker = false
		if !ok {
			return m, nil
		}
		m.status = ""
		return m, m.selectConversation(id)
	case "D":
		m.showPicker = false
		return m, m.clearAllHistory()
	}
	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.showHelp {
		return m.help.View()
	}
	if m.showPicker {
		return m.picker.View()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.history.View())
	b.WriteString("\n")
	b.WriteString(inputFrameStyle.Render(m.input.View()))
	b.WriteString("\n")

	if m.loading {
		frame := spinnerFrames[m.spinnerFrame%len(spinnerFrames)]
		b.WriteString(loadingStyle.Render(fmt.Sprintf("%s Thinking...", frame)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString(m.help.Footer())
	return b.String()
}

func (m *Model) renderHeader() string {
	session := m.app.Session

	title := "tipsiti"
	if m.app.MockMode {
		title += " (mock)"
	}

	mode := "live"
	if session.Mode() == chat.ModeViewing {
		mode = fmt.Sprintf("viewing #%s", session.ActiveConversationID())
	}

	who := "guest"
	if session.Authenticated() {
		who = "signed in"
	}

	return headerStyle.Render(fmt.Sprintf("%s · %s · %s · %s", title, session.Category(), mode, who))
}

func (m *Model) syncHistory() {
	messages := m.app.Session.Messages()
	if len(messages) == 0 {
		m.history.SetContent(emptyStyle.Render("No messages yet. Say hello!"))
		return
	}

	var b strings.Builder
	width := m.history.Width
	for _, msg := range messages {
		label := assistantLabelStyle.Render("tipsiti")
		if msg.Sender == chat.SenderUser {
			label = userLabelStyle.Render("you")
		}
		age := timestampStyle.Render(chat.FormatTimestampAge(msg.Timestamp, time.Now()))
		b.WriteString(fmt.Sprintf("%s %s\n", label, age))
		b.WriteString(messageStyle.Width(width).Render(msg.Text))
		b.WriteString("\n\n")
	}
	m.history.SetContent(b.String())
	m.history.GotoBottom()
}

func (m *Model) submit(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return submitDoneMsg{err: m.app.Session.Submit(ctx, text)}
	}
}

func (m *Model) startNewConversation() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.app.Session.StartNewConversation(ctx); err != nil {
			return sessionChangedMsg{err: err}
		}
		return sessionChangedMsg{note: "started a new conversation"}
	}
}

func (m *Model) selectConversation(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return sessionChangedMsg{err: m.app.Session.SelectConversation(ctx, id)}
	}
}

func (m *Model) clearAllHistory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.app.Session.ClearAllHistory(ctx, true); err != nil {
			return sessionChangedMsg{err: err}
		}
		return sessionChangedMsg{note: "history cleared"}
	}
}

func (m *Model) cycleCategory() tea.Cmd {
	return func() tea.Msg {
		next := nextCategory(m.app.Session.Category())
		if err := m.app.Session.SetCategory(next); err != nil {
			return sessionChangedMsg{err: err}
		}
		return sessionChangedMsg{note: "category: " + next}
	}
}

func (m *Model) refreshConversations() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = m.app.Index.Refresh(ctx, m.app.Session.Credential())
		return conversationsMsg{summaries: m.app.Index.Current()}
	}
}

// spinCmd creates a command to animate the loading spinner
func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(_ time.Time) tea.Msg {
		return spinMsg{}
	})
}

func nextCategory(current string) string {
	order := []string{chat.CategoryGeneral, chat.CategoryTravel, chat.CategoryLearning, chat.CategoryCoding}
	for i, c := range order {
		if c == current {
			return order[(i+1)%len(order)]
		}
	}
	return chat.CategoryGeneral
}

type submitDoneMsg struct {
	err error
}

type sessionChangedMsg struct {
	note string
	err  error
}

type conversationsMsg struct {
	summaries []chat.ConversationSummary
}

// spinMsg is used to trigger spinner animation updates
type spinMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8FAFC")).
			Background(lipgloss.Color("#1E293B")).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#10B981"))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E2E8F0")).
			PaddingLeft(2)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true).
			Padding(1, 2)

	inputFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EF4444"))
)
