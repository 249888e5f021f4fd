package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PeerFilter selects which peers /peer_stats returns.
type PeerFilter string

const (
	PeerFilterLive PeerFilter = "live"
	PeerFilterAll  PeerFilter = "all"
)

// Peer states reported by the engine.
const (
	PeerStateQueued     = "queued"
	PeerStateConnecting = "connecting"
	PeerStateLive       = "live"
	PeerStateDead       = "dead"
	PeerStateNotNeeded  = "not_needed"
)

// TorrentListResponse mirrors /torrents.
type TorrentListResponse struct {
	Torrents []TorrentSummary `json:"torrents"`
}

// TorrentSummary identifies one torrent managed by the engine.
type TorrentSummary struct {
	ID       int    `json:"id"`
	InfoHash string `json:"info_hash"`
}

// Validate rejects payloads the jobs cannot key on.
func (r TorrentListResponse) Validate() error {
	seen := make(map[int]struct{}, len(r.Torrents))
	for _, t := range r.Torrents {
		if t.ID < 0 {
			return fmt.Errorf("torrent %q has negative id %d", t.InfoHash, t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate torrent id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// TorrentDetails mirrors /torrents/{id}.
type TorrentDetails struct {
	InfoHash string        `json:"info_hash"`
	Name     string        `json:"name"`
	Files    []TorrentFile `json:"files"`
}

// TorrentFile is one file inside a torrent.
type TorrentFile struct {
	Name     string `json:"name"`
	Length   uint64 `json:"length"`
	Included bool   `json:"included"`
}

// TotalLength sums the length of every file.
func (d TorrentDetails) TotalLength() uint64 {
	var total uint64
	for _, f := range d.Files {
		total += f.Length
	}
	return total
}

// TorrentStats mirrors /torrents/{id}/stats/v1.
type TorrentStats struct {
	State         string         `json:"state"`
	Error         string         `json:"error"`
	Snapshot      *StatsSnapshot `json:"snapshot"`
	DownloadSpeed *Speed         `json:"download_speed"`
	UploadSpeed   *Speed         `json:"upload_speed"`
	TimeRemaining *Duration      `json:"time_remaining"`
}

// StatsSnapshot is the engine's point-in-time view of one torrent.
type StatsSnapshot struct {
	HaveBytes                 uint64         `json:"have_bytes"`
	TotalBytes                uint64         `json:"total_bytes"`
	DownloadedAndCheckedBytes uint64         `json:"downloaded_and_checked_bytes"`
	UploadedBytes             uint64         `json:"uploaded_bytes"`
	PeerStats                 AggregatePeers `json:"peer_stats"`
}

// AggregatePeers counts peers per state for one torrent.
type AggregatePeers struct {
	Queued     int `json:"queued"`
	Connecting int `json:"connecting"`
	Live       int `json:"live"`
	Seen       int `json:"seen"`
	Dead       int `json:"dead"`
	NotNeeded  int `json:"not_needed"`
}

// Speed is a transfer speed as reported by the engine.
type Speed struct {
	Mbps          float64 `json:"mbps"`
	HumanReadable string  `json:"human_readable"`
}

// Duration is a human readable estimate.
type Duration struct {
	HumanReadable string `json:"human_readable"`
}

// Finished reports whether every byte of the torrent is present. An unknown
// total never counts as finished.
func (s *TorrentStats) Finished() bool {
	if s == nil || s.Snapshot == nil {
		return false
	}
	return s.Snapshot.TotalBytes > 0 && s.Snapshot.HaveBytes >= s.Snapshot.TotalBytes
}

// Progress returns have/total in [0,1].
func (s *TorrentStats) Progress() float64 {
	if s == nil || s.Snapshot == nil || s.Snapshot.TotalBytes == 0 {
		return 0
	}
	p := float64(s.Snapshot.HaveBytes) / float64(s.Snapshot.TotalBytes)
	if p > 1 {
		return 1
	}
	return p
}

// PeerStatsResponse mirrors /torrents/{id}/peer_stats. Peers keep the order
// in which the engine listed them.
type PeerStatsResponse struct {
	Peers []Peer
}

// Peer is one peer connection keyed by its address.
type Peer struct {
	Address  string       `json:"-"`
	State    string       `json:"state"`
	ConnKind string       `json:"conn_kind"`
	Counters PeerCounters `json:"counters"`
}

// PeerCounters holds cumulative counters for one peer.
type PeerCounters struct {
	FetchedBytes  uint64 `json:"fetched_bytes"`
	UploadedBytes uint64 `json:"uploaded_bytes"`
}

// UnmarshalJSON decodes the peers object while preserving key order.
func (r *PeerStatsResponse) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	r.Peers = nil
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}
		if key != "peers" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("skip %q: %w", key, err)
			}
			continue
		}
		peers, err := decodePeers(dec)
		if err != nil {
			return err
		}
		r.Peers = peers
	}
	return expectDelim(dec, '}')
}

// MarshalJSON encodes peers back into an address-keyed object.
func (r PeerStatsResponse) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"peers":{`)
	for i, p := range r.Peers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Address)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// Validate rejects empty or repeated peer addresses.
func (r PeerStatsResponse) Validate() error {
	seen := make(map[string]struct{}, len(r.Peers))
	for _, p := range r.Peers {
		if p.Address == "" {
			return fmt.Errorf("peer with empty address")
		}
		if _, dup := seen[p.Address]; dup {
			return fmt.Errorf("duplicate peer %q", p.Address)
		}
		seen[p.Address] = struct{}{}
	}
	return nil
}

func decodePeers(dec *json.Decoder) ([]Peer, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read peers: %w", err)
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("peers: expected object, got %v", tok)
	}
	var peers []Peer
	for dec.More() {
		addr, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var p Peer
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode peer %q: %w", addr, err)
		}
		p.Address = addr
		peers = append(peers, p)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return peers, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read %q: %w", want, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// SessionStats mirrors /stats.
type SessionStats struct {
	DownloadSpeed Speed   `json:"download_speed"`
	UploadSpeed   Speed   `json:"upload_speed"`
	FetchedBytes  uint64  `json:"fetched_bytes"`
	UploadedBytes uint64  `json:"uploaded_bytes"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Uptime returns the session uptime as a duration.
func (s SessionStats) Uptime() time.Duration {
	if s.UptimeSeconds <= 0 {
		return 0
	}
	return time.Duration(s.UptimeSeconds * float64(time.Second))
}
