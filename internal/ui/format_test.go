package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/live"
)

func TestFormatRate(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0 B/s"},
		{1536, "1.5 KiB/s"},
		{-1024, "-1.0 KiB/s"},
		{math.NaN(), "-"},
		{math.Inf(1), "-"},
		{1e30, "16 EiB/s"},
		{-1e30, "-16 EiB/s"},
		{float64(math.MaxUint64), "16 EiB/s"},
	}
	for _, tc := range cases {
		if got := formatRate(tc.in); got != tc.want {
			t.Fatalf("formatRate(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	if got := formatSpeed(nil); got != "-" {
		t.Fatalf("formatSpeed(nil) = %q, want -", got)
	}
	if got := formatSpeed(&api.Speed{Mbps: 1.5, HumanReadable: "1.50 MiB/s"}); got != "1.50 MiB/s" {
		t.Fatalf("formatSpeed = %q", got)
	}
	if got := formatSpeed(&api.Speed{Mbps: 2}); got != "2.00 MiB/s" {
		t.Fatalf("formatSpeed without label = %q", got)
	}
}

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{12 * time.Second, "12s"},
		{61 * time.Second, "1m01s"},
		{2*time.Hour + 3*time.Minute, "2h03m"},
		{49 * time.Hour, "2d01h"},
	}
	for _, tc := range cases {
		if got := humanizeDuration(tc.in); got != tc.want {
			t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  abc  ", 10); got != "abc" {
		t.Fatalf("truncate trims = %q", got)
	}
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q, want abc...", got)
	}
	if got := truncate("abcd", 2); got != "ab" {
		t.Fatalf("truncate short limit = %q, want ab", got)
	}
}

func TestBuildTorrentRows_Placeholders(t *testing.T) {
	none := func(int) *api.TorrentStats { return nil }
	noDetails := func(int) *api.TorrentDetails { return nil }

	rows := buildTorrentRows([]api.TorrentSummary{{ID: 4}, {ID: 5, InfoHash: "0123456789abcdef"}}, none, noDetails)
	if rows[0].Name != "#4" || rows[0].State != "loading" || rows[0].ETA != "-" {
		t.Fatalf("row without data = %+v", rows[0])
	}
	if rows[1].Name != "0123456789ab" {
		t.Fatalf("hash name = %q, want 12-char prefix", rows[1].Name)
	}
}

func TestBuildTorrentRows_FinishedAndError(t *testing.T) {
	stats := map[int]*api.TorrentStats{
		1: {State: "live", Snapshot: &api.StatsSnapshot{HaveBytes: 10, TotalBytes: 10}, TimeRemaining: &api.Duration{HumanReadable: "1m"}},
		2: {State: "live", Error: "disk full"},
		3: {State: "live", Snapshot: &api.StatsSnapshot{HaveBytes: 1, TotalBytes: 10}, TimeRemaining: &api.Duration{HumanReadable: "3m"}},
	}
	rows := buildTorrentRows(
		[]api.TorrentSummary{{ID: 1}, {ID: 2}, {ID: 3}},
		func(id int) *api.TorrentStats { return stats[id] },
		func(int) *api.TorrentDetails { return nil },
	)
	if !rows[0].Finished || rows[0].ETA != "done" || rows[0].Size != 10 {
		t.Fatalf("finished row = %+v", rows[0])
	}
	if rows[1].State != "error" {
		t.Fatalf("error row state = %q, want error", rows[1].State)
	}
	if rows[2].ETA != "3m" || rows[2].Finished {
		t.Fatalf("downloading row = %+v", rows[2])
	}
	if got := torrentTableRows(rows)[2][3]; got != "10.0%" {
		t.Fatalf("progress cell = %q, want 10.0%%", got)
	}
}

func TestPeerColumns_MarksSortColumn(t *testing.T) {
	cols := peerColumns(live.PeerView{Column: live.ColumnRate, Descending: true}, 120)
	if !strings.HasSuffix(cols[int(live.ColumnRate)].Title, "▼") {
		t.Fatalf("rate title = %q, want descending marker", cols[int(live.ColumnRate)].Title)
	}
	cols = peerColumns(live.PeerView{Column: live.ColumnAddress}, 120)
	if !strings.HasSuffix(cols[0].Title, "▲") {
		t.Fatalf("address title = %q, want ascending marker", cols[0].Title)
	}
	for i, c := range cols[1:] {
		if strings.ContainsAny(c.Title, "▲▼") {
			t.Fatalf("column %d %q marked but not sorted", i+1, c.Title)
		}
	}
}

func TestThemeCycle(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("missing"); got != "Dracula" {
		t.Fatalf("NextTheme(missing) = %q, want Dracula", got)
	}
	if got := GetTheme("nope").Name; got != "Dracula" {
		t.Fatalf("GetTheme fallback = %q, want Dracula", got)
	}
}
