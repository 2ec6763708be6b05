package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpModel struct {
	keys keyMap
}

func newHelpModel() helpModel {
	return helpModel{keys: defaultKeyMap()}
}

func (m helpModel) View() string {
	var b strings.Builder

	b.WriteString(helpTitleStyle.Render("tipsiti help"))
	b.WriteString("\n\n")

	b.WriteString(helpSectionStyle.Render("keys"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  send message\n", helpKeyStyle.Render("enter")))
	b.WriteString(fmt.Sprintf("  %s  new conversation (saves the current one)\n", helpKeyStyle.Render("ctrl+n")))
	b.WriteString(fmt.Sprintf("  %s  browse saved conversations\n", helpKeyStyle.Render("ctrl+o")))
	b.WriteString(fmt.Sprintf("  %s  cycle category\n", helpKeyStyle.Render("ctrl+t")))
	b.WriteString(fmt.Sprintf("  %s  quit\n", helpKeyStyle.Render("ctrl+c")))

	b.WriteString("\n")

	b.WriteString(helpSectionStyle.Render("categories"))
	b.WriteString("\n")
	b.WriteString(helpDescriptionStyle.Render("  general - everyday questions"))
	b.WriteString("\n")
	b.WriteString(helpDescriptionStyle.Render("  travel - destinations and itineraries"))
	b.WriteString("\n")
	b.WriteString(helpDescriptionStyle.Render("  learning - study help"))
	b.WriteString("\n")
	b.WriteString(helpDescriptionStyle.Render("  coding - programming questions"))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(helpDescriptionStyle.Render("  Opening a saved conversation is read-only; your live draft is kept."))
	b.WriteString("\n\n")
	b.WriteString(helpFooterStyle.Render("press any key to go back"))

	return b.String()
}

// Footer renders the one-line key hint under the input.
func (m helpModel) Footer() string {
	return helpFooterStyle.Render("enter send | ctrl+n new | ctrl+o conversations | ctrl+t category | ctrl+g help | ctrl+c quit")
}

type keyMap struct {
	Quit          key.Binding
	Enter         key.Binding
	NewChat       key.Binding
	Conversations key.Binding
	Category      key.Binding
	Help          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new conversation"),
		),
		Conversations: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "browse conversations"),
		),
		Category: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "cycle category"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
	}
}

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#BD93F9"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF79C6"))

	helpDescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6272A4"))

	helpFooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44475A")).
			Italic(true)
)
