package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the full key reference.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("swarmwatch keys")
	body := m.help.FullHelpView(m.keys.FullHelp())
	hint := styles.FaintText.Render("press any key to close")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Render(strings.Join([]string{title, "", body, "", hint}, "\n"))
	return lipgloss.Place(m.contentWidth(), max(m.height, 1), lipgloss.Center, lipgloss.Center, box)
}
