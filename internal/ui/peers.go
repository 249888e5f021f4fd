package ui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/five82/swarmwatch/internal/live"
)

var peerColumnWidths = [...]int{0, 11, 6, 12, 12, 12}

// peerColumns titles the peer table, marking the sorted column. Column
// positions follow live.PeerColumn; Uploaded is display-only.
func peerColumns(view live.PeerView, width int) []table.Column {
	titles := []string{"Address", "State", "Conn", "Downloaded", "Rate", "Uploaded"}
	arrow := " ▲"
	if view.Descending {
		arrow = " ▼"
	}
	if i := int(view.Column); i >= 0 && i < len(titles) {
		titles[i] += arrow
	}

	fixed := 0
	for _, w := range peerColumnWidths {
		fixed += w + 2
	}
	addr := width - fixed - 2
	if addr < 22 {
		addr = 22
	}
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		w := peerColumnWidths[i]
		if w == 0 {
			w = addr
		}
		cols[i] = table.Column{Title: title, Width: w}
	}
	return cols
}

func peerTableRows(rows []live.PeerRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{
			r.Address,
			r.State,
			r.ConnKind,
			formatBytes(r.Counters.FetchedBytes),
			formatRate(r.Rate),
			formatBytes(r.Counters.UploadedBytes),
		}
	}
	return out
}
