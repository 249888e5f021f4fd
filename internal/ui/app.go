package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/live"
	"github.com/five82/swarmwatch/internal/prefs"
	"github.com/five82/swarmwatch/internal/state"
)

// View is the active screen.
type View int

const (
	ViewTorrents View = iota
	ViewPeers
)

const defaultRefresh = 500 * time.Millisecond

// PeerController starts and stops the peer-list job behind the peer view.
// *live.Engine implements it.
type PeerController interface {
	OpenPeers(id int, filter api.PeerFilter)
	SetPeerFilter(filter api.PeerFilter)
	ClosePeers()
}

// Options configures the UI.
type Options struct {
	Stores    *live.Stores
	Peers     PeerController
	Prefs     prefs.Prefs
	PrefsPath string        // empty uses ~/.config/swarmwatch/prefs.toml
	Refresh   time.Duration // re-read interval for per-torrent stats
	APIURL    string
	Logger    *zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	stores    *live.Stores
	peers     PeerController
	watcher   *watcher
	log       zerolog.Logger
	prefsPath string
	refresh   time.Duration
	apiURL    string

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	torrentTable table.Model
	peerTable    table.Model

	// Data state
	torrents    []torrentRow
	errState    state.ErrorState
	session     *api.SessionStats
	lastUpdated time.Time

	// Peer view state
	peerView    live.PeerView
	peerTorrent int
	peerSnap    live.PeerSnapshot
	peerRows    []live.PeerRow
}

// New creates the Bubble Tea model and subscribes it to the stores.
// Call Close when the program exits.
func New(opts Options) Model {
	stores := opts.Stores
	if stores == nil {
		stores = live.NewStores()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "ui").Logger()
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	column, ok := live.ParsePeerColumn(opts.Prefs.SortColumn)
	if !ok {
		column = live.ColumnDownloaded
	}
	theme := GetTheme(opts.Prefs.Theme)

	torrentTable := table.New(
		table.WithColumns(torrentColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	torrentTable.SetStyles(theme.TableStyles())

	peerView := live.PeerView{Column: column, Descending: opts.Prefs.Descending, ShowAll: opts.Prefs.ShowAll}
	peerTable := table.New(
		table.WithColumns(peerColumns(peerView, 80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	peerTable.SetStyles(theme.TableStyles())

	return Model{
		stores:       stores,
		peers:        opts.Peers,
		watcher:      watchStores(stores),
		log:          log,
		prefsPath:    prefsPath,
		refresh:      refresh,
		apiURL:       opts.APIURL,
		theme:        theme,
		keys:         defaultKeyMap(),
		help:         help.New(),
		currentView:  ViewTorrents,
		torrentTable: torrentTable,
		peerTable:    peerTable,
		peerView:     peerView,
	}
}

// Close unsubscribes the model from the stores.
func (m Model) Close() {
	m.watcher.stop()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.watcher.wait(),
		func() tea.Msg { return refreshMsg(time.Now()) },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case storesChangedMsg:
		m.reload()
		return m, m.watcher.wait()

	case refreshMsg:
		m.reload()
		return m, refreshCmd(m.refresh)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.torrentTable.SetStyles(m.theme.TableStyles())
		m.peerTable.SetStyles(m.theme.TableStyles())
		m.savePrefs()
		return m, nil
	}

	switch m.currentView {
	case ViewPeers:
		return m.handlePeerKey(msg)
	default:
		return m.handleTorrentKey(msg)
	}
}

func (m Model) handleTorrentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.OpenPeers) {
		if id, ok := m.selectedTorrentID(); ok {
			m.openPeers(id)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.torrentTable, cmd = m.torrentTable.Update(msg)
	return m, cmd
}

func (m Model) handlePeerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ClosePeers):
		m.closePeers()
		return m, nil

	case key.Matches(msg, m.keys.ToggleAll):
		m.peerView.ShowAll = !m.peerView.ShowAll
		if m.peers != nil {
			m.peers.SetPeerFilter(m.peerView.Filter())
		}
		// The restarted job begins with no peers and no rate history.
		m.peerSnap = live.PeerSnapshot{Active: true, TorrentID: m.peerTorrent, Filter: m.peerView.Filter()}
		m.savePrefs()
		m.syncPeerTable()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.peerView.Column = m.peerView.Column.Next()
		m.savePrefs()
		m.syncPeerTable()
		return m, nil

	case key.Matches(msg, m.keys.Reverse):
		m.peerView.Descending = !m.peerView.Descending
		m.savePrefs()
		m.syncPeerTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.peerTable, cmd = m.peerTable.Update(msg)
	return m, cmd
}

func (m *Model) openPeers(id int) {
	m.currentView = ViewPeers
	m.peerTorrent = id
	m.peerSnap = live.PeerSnapshot{Active: true, TorrentID: id, Filter: m.peerView.Filter()}
	if m.peers != nil {
		m.peers.OpenPeers(id, m.peerView.Filter())
	}
	m.syncPeerTable()
	m.peerTable.SetCursor(0)
}

func (m *Model) closePeers() {
	if m.peers != nil {
		m.peers.ClosePeers()
	}
	m.currentView = ViewTorrents
	m.peerSnap = live.PeerSnapshot{}
	m.peerRows = nil
	m.peerTable.SetRows(nil)
}

func (m Model) savePrefs() {
	p := prefs.Prefs{
		Theme:      m.theme.Name,
		SortColumn: m.peerView.Column.String(),
		Descending: m.peerView.Descending,
		ShowAll:    m.peerView.ShowAll,
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs")
	}
}

// reload copies the current store values into the model.
func (m *Model) reload() {
	m.torrents = buildTorrentRows(m.stores.Torrents.Get(), m.stores.Stats.Get, m.stores.Details.Get)
	m.errState = m.stores.Errors.Get()
	m.session = m.stores.Session.Get()

	// Snapshots for another torrent or filter belong to a view that has
	// already been replaced.
	if snap := m.stores.Peers.Get(); m.currentView == ViewPeers && m.acceptsPeers(snap) {
		m.peerSnap = snap
	}

	m.lastUpdated = time.Now()
	m.syncTorrentTable()
	m.syncPeerTable()
}

func (m Model) acceptsPeers(snap live.PeerSnapshot) bool {
	return snap.Active && snap.TorrentID == m.peerTorrent && snap.Filter == m.peerView.Filter()
}

func (m Model) selectedTorrentID() (int, bool) {
	cursor := m.torrentTable.Cursor()
	if cursor < 0 || cursor >= len(m.torrents) {
		return 0, false
	}
	return m.torrents[cursor].ID, true
}

// syncTorrentTable refreshes rows, keeping the selection on the same
// torrent id when it is still listed.
func (m *Model) syncTorrentTable() {
	selected, hadSelection := m.selectedTorrentFromRows()
	m.torrentTable.SetRows(torrentTableRows(m.torrents))
	if len(m.torrents) == 0 {
		return
	}
	if hadSelection {
		for i, r := range m.torrents {
			if r.ID == selected {
				m.torrentTable.SetCursor(i)
				return
			}
		}
	}
	m.torrentTable.SetCursor(clampCursor(m.torrentTable.Cursor(), len(m.torrents)))
}

// selectedTorrentFromRows reads the id shown in the selected table row,
// which still reflects the previous reload.
func (m Model) selectedTorrentFromRows() (int, bool) {
	row := m.torrentTable.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(row[0])
	return id, err == nil
}

func (m *Model) syncPeerTable() {
	m.peerRows = live.ArrangePeers(m.peerSnap, m.peerView)
	m.peerTable.SetColumns(peerColumns(m.peerView, m.contentWidth()))
	m.peerTable.SetRows(peerTableRows(m.peerRows))
	if len(m.peerRows) > 0 {
		m.peerTable.SetCursor(clampCursor(m.peerTable.Cursor(), len(m.peerRows)))
	}
}

func clampCursor(cursor, n int) int {
	switch {
	case cursor < 0:
		return 0
	case cursor >= n:
		return n - 1
	default:
		return cursor
	}
}

func (m *Model) resize() {
	width := m.contentWidth()
	height := m.height - 6 // header, command bar, banner, title, footer
	if height < 3 {
		height = 3
	}
	m.torrentTable.SetColumns(torrentColumns(width))
	m.torrentTable.SetWidth(width)
	m.torrentTable.SetHeight(height)
	m.peerTable.SetColumns(peerColumns(m.peerView, width))
	m.peerTable.SetWidth(width)
	m.peerTable.SetHeight(height)
	m.help.Width = width
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}
