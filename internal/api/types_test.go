package api

import (
	"encoding/json"
	"testing"
)

func TestPeerStatsResponse_PreservesOrder(t *testing.T) {
	raw := `{"extra":[1,2,{"x":null}],"peers":{"c:1":{"state":"live","conn_kind":"tcp","counters":{"fetched_bytes":3}},"a:1":{"state":"dead","conn_kind":"utp","counters":{"fetched_bytes":1}},"b:1":{"state":"live","conn_kind":"tcp","counters":{"fetched_bytes":2,"uploaded_bytes":9}}}}`
	var resp PeerStatsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	want := []string{"c:1", "a:1", "b:1"}
	if len(resp.Peers) != len(want) {
		t.Fatalf("peers = %#v, want %d", resp.Peers, len(want))
	}
	for i, addr := range want {
		if resp.Peers[i].Address != addr {
			t.Fatalf("peer %d = %q, want %q", i, resp.Peers[i].Address, addr)
		}
	}
	if resp.Peers[2].Counters.UploadedBytes != 9 || resp.Peers[1].ConnKind != "utp" {
		t.Fatalf("peer fields not decoded: %#v", resp.Peers)
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var again PeerStatsResponse
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("Unmarshal(re-encoded) returned error: %v", err)
	}
	if len(again.Peers) != 3 || again.Peers[0].Address != "c:1" {
		t.Fatalf("re-encoded order lost: %#v", again.Peers)
	}
}

func TestPeerStatsResponse_NullAndMalformed(t *testing.T) {
	var resp PeerStatsResponse
	if err := json.Unmarshal([]byte(`{"peers":null}`), &resp); err != nil {
		t.Fatalf("Unmarshal(null peers) returned error: %v", err)
	}
	if resp.Peers != nil {
		t.Fatalf("peers = %#v, want nil", resp.Peers)
	}
	for _, raw := range []string{`[]`, `{"peers":[]}`, `{"peers":{"a":1}}`} {
		if err := json.Unmarshal([]byte(raw), &resp); err == nil {
			t.Fatalf("Unmarshal(%s) returned nil error", raw)
		}
	}
}

func TestTorrentStats_Finished(t *testing.T) {
	tests := []struct {
		name  string
		stats *TorrentStats
		want  bool
	}{
		{"nil", nil, false},
		{"no snapshot", &TorrentStats{}, false},
		{"unknown total", &TorrentStats{Snapshot: &StatsSnapshot{}}, false},
		{"partial", &TorrentStats{Snapshot: &StatsSnapshot{HaveBytes: 5, TotalBytes: 10}}, false},
		{"complete", &TorrentStats{Snapshot: &StatsSnapshot{HaveBytes: 10, TotalBytes: 10}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Finished(); got != tt.want {
				t.Fatalf("Finished() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTorrentListResponse_ValidateNegativeID(t *testing.T) {
	if err := (TorrentListResponse{Torrents: []TorrentSummary{{ID: -1}}}).Validate(); err == nil {
		t.Fatal("Validate returned nil error for negative id")
	}
}
