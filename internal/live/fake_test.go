package live

import (
	"context"
	"errors"
	"sync"

	"github.com/five82/swarmwatch/internal/api"
)

var errBoom = errors.New("boom")

// fakeAPI is a scripted api.Fetcher.
type fakeAPI struct {
	mu sync.Mutex

	torrents []api.TorrentSummary
	listErr  error

	stats    map[int][]api.TorrentStats // consumed in order; last entry repeats
	statsErr error

	detailsFailures map[int]int
	details         map[int]api.TorrentDetails

	peers       []api.Peer
	peersErr    error
	peerFilters []api.PeerFilter

	session    api.SessionStats
	sessionErr error

	calls map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		stats:           make(map[int][]api.TorrentStats),
		detailsFailures: make(map[int]int),
		details:         make(map[int]api.TorrentDetails),
		calls:           make(map[string]int),
	}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) setTorrents(ids ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.torrents = nil
	for _, id := range ids {
		f.torrents = append(f.torrents, api.TorrentSummary{ID: id, InfoHash: "hash"})
	}
}

func (f *fakeAPI) ListTorrents(ctx context.Context) (api.TorrentListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.listErr != nil {
		return api.TorrentListResponse{}, f.listErr
	}
	return api.TorrentListResponse{Torrents: append([]api.TorrentSummary(nil), f.torrents...)}, nil
}

func (f *fakeAPI) TorrentDetails(ctx context.Context, id int) (api.TorrentDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["details"]++
	if f.detailsFailures[id] > 0 {
		f.detailsFailures[id]--
		return api.TorrentDetails{}, &api.Error{Path: "/torrents", Status: 404}
	}
	return f.details[id], nil
}

func (f *fakeAPI) TorrentStats(ctx context.Context, id int) (api.TorrentStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["stats"]++
	if f.statsErr != nil {
		return api.TorrentStats{}, f.statsErr
	}
	queue := f.stats[id]
	if len(queue) == 0 {
		return api.TorrentStats{}, nil
	}
	next := queue[0]
	if len(queue) > 1 {
		f.stats[id] = queue[1:]
	}
	return next, nil
}

func (f *fakeAPI) PeerStats(ctx context.Context, id int, filter api.PeerFilter) (api.PeerStatsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["peers"]++
	f.peerFilters = append(f.peerFilters, filter)
	if f.peersErr != nil {
		return api.PeerStatsResponse{}, f.peersErr
	}
	return api.PeerStatsResponse{Peers: append([]api.Peer(nil), f.peers...)}, nil
}

func (f *fakeAPI) SessionStats(ctx context.Context) (api.SessionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["session"]++
	if f.sessionErr != nil {
		return api.SessionStats{}, f.sessionErr
	}
	return f.session, nil
}
