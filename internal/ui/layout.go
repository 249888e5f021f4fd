package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/swarmwatch/internal/live"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewPeers:
		return m.renderPeers()
	default:
		return m.renderTorrents()
	}
}

func (m Model) renderTorrents() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Torrents")
	if len(m.torrents) == 0 {
		msg := "No torrents"
		if m.errState.Err != nil && m.errState.Source == live.SourceTorrents {
			msg = "Torrent list unavailable"
		}
		return title + "\n" + lipgloss.Place(m.contentWidth(), m.torrentTable.Height(), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}
	return title + "\n" + m.torrentTable.View()
}

func (m Model) renderPeers() string {
	styles := m.theme.Styles()

	name := fmt.Sprintf("#%d", m.peerTorrent)
	for _, t := range m.torrents {
		if t.ID == m.peerTorrent {
			name = fmt.Sprintf("%s (#%d)", t.Name, t.ID)
			break
		}
	}
	order := ternary(m.peerView.Descending, "desc", "asc")
	title := styles.AccentText.Bold(true).Render("Peers · "+truncate(name, 48)) + "  " +
		styles.MutedText.Render(fmt.Sprintf("filter %s · sort %s %s · %d shown", m.peerView.Filter(), m.peerView.Column, order, len(m.peerRows)))

	if len(m.peerRows) == 0 {
		msg := "No peers"
		if m.peerSnap.TakenAt.IsZero() {
			msg = "Waiting for peers..."
		}
		return title + "\n" + lipgloss.Place(m.contentWidth(), m.peerTable.Height(), lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}
	return title + "\n" + m.peerTable.View()
}
