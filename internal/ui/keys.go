package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Navigation, handled by the tables
	Up   key.Binding
	Down key.Binding

	// Torrent list
	OpenPeers key.Binding

	// Peer table
	ClosePeers key.Binding
	ToggleAll  key.Binding
	CycleSort  key.Binding
	Reverse    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Theme"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Down"),
		),
		OpenPeers: key.NewBinding(
			key.WithKeys("enter", "p"),
			key.WithHelp("p/enter", "Peers"),
		),
		ClosePeers: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Back"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "All peers"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reverse"),
		),
	}
}

func (k keyMap) torrentBindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.OpenPeers, k.CycleTheme, k.Help, k.Quit}
}

func (k keyMap) peerBindings() []key.Binding {
	return []key.Binding{k.ToggleAll, k.CycleSort, k.Reverse, k.ClosePeers, k.Help, k.Quit}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.OpenPeers, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.OpenPeers},
		{k.ToggleAll, k.CycleSort, k.Reverse, k.ClosePeers},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
