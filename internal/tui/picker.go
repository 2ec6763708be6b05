package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/demigods200/tipsiti-chatapp/internal/chat"
)

// pickerModel is the saved-conversation overlay. It renders the index
// snapshot it was given; refreshing the snapshot is the caller's job.
type pickerModel struct {
	items  []chat.ConversationSummary
	cursor int
	width  int
	height int
}

func newPickerModel() pickerModel {
	return pickerModel{width: 80, height: 24}
}

func (p *pickerModel) setSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *pickerModel) setItems(items []chat.ConversationSummary) {
	p.items = items
	if p.cursor >= len(items) {
		p.cursor = 0
	}
}

func (p *pickerModel) moveCursor(delta int) {
	if len(p.items) == 0 {
		return
	}
	p.cursor = (p.cursor + delta + len(p.items)) % len(p.items)
}

func (p *pickerModel) selected() (string, bool) {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return "", false
	}
	return p.items[p.cursor].ID, true
}

func (p pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Saved conversations"))
	b.WriteString("\n\n")

	if len(p.items) == 0 {
		b.WriteString(pickerEmptyStyle.Render("Nothing saved yet."))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, item := range p.items {
		line := fmt.Sprintf("%s  %s", item.Title, chat.FormatTimestampAge(item.UpdatedAt, now))
		if item.LastMessage != "" {
			preview := item.LastMessage
			if len(preview) > 60 {
				preview = preview[:60] + "…"
			}
			line += "\n   " + pickerPreviewStyle.Render(preview)
		}
		if i == p.cursor {
			b.WriteString(pickerCursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerFooterStyle.Render("enter open | D delete all | esc back"))
	return b.String()
}

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#F8FAFC"))

	pickerCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B82F6"))

	pickerPreviewStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#64748B"))

	pickerEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#64748B")).
				Italic(true)

	pickerFooterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#44475A")).
				Italic(true)
)
