package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var active, finished int
	for _, t := range m.torrents {
		if t.Finished {
			finished++
		} else {
			active++
		}
	}

	parts := []string{
		bg.Render("swarmwatch", styles.Logo),
	}
	if m.errState.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ON", styles.SuccessText))
	}
	parts = append(parts,
		bg.Render("Torrents:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", len(m.torrents)), styles.Text),
		bg.Render("Active:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", active), styles.InfoText),
		bg.Render("Done:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", finished), styles.SuccessText),
	)
	if m.apiURL != "" && m.width >= 100 {
		parts = append(parts, bg.Render(m.apiURL, styles.FaintText))
	}
	if !m.lastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.lastUpdated.Format("15:04:05"), styles.MutedText))
	}

	return styles.Header.Width(m.contentWidth()).Render(bg.Join(parts, "  "))
}

// renderBanner shows the most recent fetch error, or nothing.
func (m Model) renderBanner() string {
	if m.errState.Err == nil {
		return ""
	}
	styles := m.theme.Styles()
	label := "ERROR"
	if m.errState.IsOffline() {
		label = "OFFLINE"
	}
	msg := fmt.Sprintf("%s %s: %s", label, m.errState.Source, m.errState.Err)
	if n := m.errState.ConsecutiveFailures; n > 1 {
		msg += fmt.Sprintf(" (%d failures)", n)
	}
	return styles.Banner.Width(m.contentWidth()).Render(truncate(msg, m.contentWidth()-2))
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var bindings []key.Binding
	switch m.currentView {
	case ViewPeers:
		bindings = m.keys.peerBindings()
	default:
		bindings = m.keys.torrentBindings()
	}

	segments := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		desc := b.Help().Desc
		if b.Help().Key == m.keys.ToggleAll.Help().Key {
			desc = ternary(m.peerView.ShowAll, "Live only", "All peers")
		}
		segments = append(segments,
			bg.Render(b.Help().Key, styles.AccentText)+bg.Render(":", styles.FaintText)+bg.Render(desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+bg.Render(":", styles.FaintText)+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.contentWidth()).Render(bg.Join(segments, "  "))
}

// renderFooter renders session totals.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if m.session == nil {
		return styles.Footer.Width(m.contentWidth()).Render(bg.Render("Waiting for session stats...", styles.MutedText))
	}
	s := m.session
	parts := []string{
		bg.Render("↓", styles.SuccessText) + bg.Space() + bg.Render(formatSpeed(&s.DownloadSpeed), styles.Text),
		bg.Render("↑", styles.InfoText) + bg.Space() + bg.Render(formatSpeed(&s.UploadSpeed), styles.Text),
		bg.Render("fetched", styles.MutedText) + bg.Space() + bg.Render(formatBytes(s.FetchedBytes), styles.Text),
		bg.Render("uploaded", styles.MutedText) + bg.Space() + bg.Render(formatBytes(s.UploadedBytes), styles.Text),
		bg.Render("uptime", styles.MutedText) + bg.Space() + bg.Render(humanizeDuration(s.Uptime()), styles.Text),
	}
	return styles.Footer.Width(m.contentWidth()).Render(bg.Join(parts, "  "))
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
