package live

import (
	"cmp"
	"slices"
	"strings"

	"github.com/five82/swarmwatch/internal/api"
)

// PeerColumn is a sortable peer table column.
type PeerColumn int

const (
	ColumnAddress PeerColumn = iota
	ColumnState
	ColumnConnKind
	ColumnDownloaded
	ColumnRate
	peerColumnCount
)

var peerColumnNames = [...]string{
	ColumnAddress:    "address",
	ColumnState:      "state",
	ColumnConnKind:   "conn_kind",
	ColumnDownloaded: "downloaded",
	ColumnRate:       "rate",
}

func (c PeerColumn) String() string {
	if c < 0 || c >= peerColumnCount {
		return "unknown"
	}
	return peerColumnNames[c]
}

// Next cycles to the following column.
func (c PeerColumn) Next() PeerColumn {
	return (c + 1) % peerColumnCount
}

// ParsePeerColumn maps a column name back to its PeerColumn.
func ParsePeerColumn(name string) (PeerColumn, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range peerColumnNames {
		if n == name {
			return PeerColumn(i), true
		}
	}
	return ColumnDownloaded, false
}

// PeerView is the peer table's sort and filter selection.
type PeerView struct {
	Column     PeerColumn
	Descending bool
	ShowAll    bool
}

// Filter returns the peer_stats filter matching the view.
func (v PeerView) Filter() api.PeerFilter {
	if v.ShowAll {
		return api.PeerFilterAll
	}
	return api.PeerFilterLive
}

// PeerRow is one displayed peer with its derived rate.
type PeerRow struct {
	api.Peer
	Rate float64 // bytes/sec, may be negative after a counter reset
}

// ArrangePeers filters and sorts a snapshot for display. Peers in the
// not_needed state are hidden unless ShowAll is set. Equal keys keep the
// order of the API response.
func ArrangePeers(snap PeerSnapshot, view PeerView) []PeerRow {
	rows := make([]PeerRow, 0, len(snap.Peers))
	for _, p := range snap.Peers {
		if !view.ShowAll && p.State == api.PeerStateNotNeeded {
			continue
		}
		rows = append(rows, PeerRow{Peer: p, Rate: snap.Rates[p.Address]})
	}

	compare := peerComparator(view.Column)
	slices.SortStableFunc(rows, func(a, b PeerRow) int {
		c := compare(a, b)
		if view.Descending {
			return -c
		}
		return c
	})
	return rows
}

func peerComparator(col PeerColumn) func(a, b PeerRow) int {
	switch col {
	case ColumnAddress:
		return func(a, b PeerRow) int { return strings.Compare(a.Address, b.Address) }
	case ColumnState:
		return func(a, b PeerRow) int { return strings.Compare(a.State, b.State) }
	case ColumnConnKind:
		return func(a, b PeerRow) int { return strings.Compare(a.ConnKind, b.ConnKind) }
	case ColumnRate:
		return func(a, b PeerRow) int { return cmp.Compare(a.Rate, b.Rate) }
	default:
		return func(a, b PeerRow) int { return cmp.Compare(a.Counters.FetchedBytes, b.Counters.FetchedBytes) }
	}
}
