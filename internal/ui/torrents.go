package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"github.com/five82/swarmwatch/internal/api"
)

// torrentRow is one line of the torrent table.
type torrentRow struct {
	ID       int
	Name     string
	State    string
	Progress float64
	Size     uint64
	Down     string
	Up       string
	Peers    int
	ETA      string
	Finished bool
}

// buildTorrentRows joins the torrent list with whatever stats and details
// have arrived so far. Missing pieces render as placeholders.
func buildTorrentRows(list []api.TorrentSummary, stats func(int) *api.TorrentStats, details func(int) *api.TorrentDetails) []torrentRow {
	rows := make([]torrentRow, 0, len(list))
	for _, t := range list {
		row := torrentRow{ID: t.ID, Name: shortHash(t.InfoHash), State: "loading", Down: "-", Up: "-", ETA: "-"}
		if row.Name == "" {
			row.Name = fmt.Sprintf("#%d", t.ID)
		}

		if d := details(t.ID); d != nil {
			if d.Name != "" {
				row.Name = d.Name
			}
			row.Size = d.TotalLength()
		}

		if s := stats(t.ID); s != nil {
			if s.State != "" {
				row.State = s.State
			}
			if s.Error != "" {
				row.State = "error"
			}
			row.Progress = s.Progress()
			row.Finished = s.Finished()
			if s.Snapshot != nil {
				if s.Snapshot.TotalBytes > 0 {
					row.Size = s.Snapshot.TotalBytes
				}
				row.Peers = s.Snapshot.PeerStats.Live
			}
			row.Down = formatSpeed(s.DownloadSpeed)
			row.Up = formatSpeed(s.UploadSpeed)
			switch {
			case row.Finished:
				row.ETA = "done"
			case s.TimeRemaining != nil && s.TimeRemaining.HumanReadable != "":
				row.ETA = s.TimeRemaining.HumanReadable
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

var torrentColumnWidths = [...]int{5, 0, 12, 8, 10, 12, 12, 6, 12}

func torrentColumns(width int) []table.Column {
	titles := [...]string{"ID", "Name", "State", "Done", "Size", "Down", "Up", "Peers", "ETA"}
	fixed := 0
	for _, w := range torrentColumnWidths {
		fixed += w + 2 // cell padding
	}
	name := width - fixed - 2
	if name < 12 {
		name = 12
	}
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		w := torrentColumnWidths[i]
		if w == 0 {
			w = name
		}
		cols[i] = table.Column{Title: title, Width: w}
	}
	return cols
}

func torrentTableRows(rows []torrentRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		size := "-"
		if r.Size > 0 {
			size = formatBytes(r.Size)
		}
		out[i] = table.Row{
			strconv.Itoa(r.ID),
			r.Name,
			r.State,
			formatPercent(r.Progress),
			size,
			r.Down,
			r.Up,
			strconv.Itoa(r.Peers),
			r.ETA,
		}
	}
	return out
}
