package live

import (
	"testing"

	"github.com/five82/swarmwatch/internal/api"
)

func addresses(rows []PeerRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Address
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func peer(addr, state, kind string, fetched uint64) api.Peer {
	return api.Peer{Address: addr, State: state, ConnKind: kind, Counters: api.PeerCounters{FetchedBytes: fetched}}
}

func TestArrangePeers_DownloadedBothDirections(t *testing.T) {
	snap := PeerSnapshot{Peers: []api.Peer{
		peer("A", "live", "tcp", 100),
		peer("B", "live", "tcp", 300),
		peer("C", "live", "tcp", 200),
	}}

	desc := ArrangePeers(snap, PeerView{Column: ColumnDownloaded, Descending: true})
	if got := addresses(desc); !equalStrings(got, []string{"B", "C", "A"}) {
		t.Fatalf("descending = %v, want [B C A]", got)
	}
	asc := ArrangePeers(snap, PeerView{Column: ColumnDownloaded})
	if got := addresses(asc); !equalStrings(got, []string{"A", "C", "B"}) {
		t.Fatalf("ascending = %v, want [A C B]", got)
	}
}

func TestArrangePeers_HidesNotNeededUnlessShowAll(t *testing.T) {
	snap := PeerSnapshot{Peers: []api.Peer{
		peer("A", "live", "tcp", 100),
		peer("B", api.PeerStateNotNeeded, "tcp", 300),
		peer("C", "live", "utp", 200),
	}}
	for _, col := range []PeerColumn{ColumnAddress, ColumnState, ColumnConnKind, ColumnDownloaded, ColumnRate} {
		for _, desc := range []bool{false, true} {
			rows := ArrangePeers(snap, PeerView{Column: col, Descending: desc})
			for _, r := range rows {
				if r.State == api.PeerStateNotNeeded {
					t.Fatalf("column %v desc=%v kept not_needed peer %s", col, desc, r.Address)
				}
			}
			if len(rows) != 2 {
				t.Fatalf("column %v desc=%v rows = %d, want 2", col, desc, len(rows))
			}
		}
	}
	if rows := ArrangePeers(snap, PeerView{ShowAll: true}); len(rows) != 3 {
		t.Fatalf("ShowAll rows = %d, want 3", len(rows))
	}
}

func TestArrangePeers_TiesKeepResponseOrder(t *testing.T) {
	snap := PeerSnapshot{Peers: []api.Peer{
		peer("z", "live", "tcp", 1),
		peer("y", "live", "utp", 1),
		peer("x", "live", "tcp", 1),
	}}
	for _, desc := range []bool{false, true} {
		rows := ArrangePeers(snap, PeerView{Column: ColumnState, Descending: desc})
		if got := addresses(rows); !equalStrings(got, []string{"z", "y", "x"}) {
			t.Fatalf("desc=%v ties = %v, want response order [z y x]", desc, got)
		}
	}
	rows := ArrangePeers(snap, PeerView{Column: ColumnConnKind})
	if got := addresses(rows); !equalStrings(got, []string{"z", "x", "y"}) {
		t.Fatalf("conn_kind = %v, want [z x y]", got)
	}
}

func TestArrangePeers_RateAndAddressColumns(t *testing.T) {
	snap := PeerSnapshot{
		Peers: []api.Peer{
			peer("10.0.0.2:1", "live", "tcp", 0),
			peer("10.0.0.1:1", "live", "tcp", 0),
			peer("10.0.0.3:1", "live", "tcp", 0),
		},
		Rates: map[string]float64{"10.0.0.2:1": 50, "10.0.0.1:1": -5, "10.0.0.3:1": 700},
	}
	rows := ArrangePeers(snap, PeerView{Column: ColumnRate, Descending: true})
	if got := addresses(rows); !equalStrings(got, []string{"10.0.0.3:1", "10.0.0.2:1", "10.0.0.1:1"}) {
		t.Fatalf("rate desc = %v", got)
	}
	if rows[0].Rate != 700 || rows[2].Rate != -5 {
		t.Fatalf("rates not carried onto rows: %+v", rows)
	}
	rows = ArrangePeers(snap, PeerView{Column: ColumnAddress})
	if got := addresses(rows); !equalStrings(got, []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"}) {
		t.Fatalf("address asc = %v", got)
	}
}

func TestPeerColumn_ParseAndCycle(t *testing.T) {
	for c := ColumnAddress; c < peerColumnCount; c++ {
		got, ok := ParsePeerColumn(" " + c.String() + " ")
		if !ok || got != c {
			t.Fatalf("ParsePeerColumn(%q) = %v/%v, want %v", c.String(), got, ok, c)
		}
	}
	if _, ok := ParsePeerColumn("bogus"); ok {
		t.Fatal("ParsePeerColumn(bogus) ok = true")
	}
	if ColumnRate.Next() != ColumnAddress {
		t.Fatalf("ColumnRate.Next() = %v, want address", ColumnRate.Next())
	}
	if PeerColumn(99).String() != "unknown" {
		t.Fatal("out of range column should be unknown")
	}
	if (PeerView{ShowAll: true}).Filter() != api.PeerFilterAll || (PeerView{}).Filter() != api.PeerFilterLive {
		t.Fatal("PeerView.Filter mismatch")
	}
}
