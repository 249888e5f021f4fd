package live

import (
	"context"
	"time"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/ratewindow"
	"github.com/five82/swarmwatch/internal/schedule"
)

// PeerSnapshot is one peer-list poll merged with the derived rates.
type PeerSnapshot struct {
	Active    bool // a peer view is open
	TorrentID int
	Filter    api.PeerFilter
	Peers     []api.Peer         // response order
	Rates     map[string]float64 // bytes/sec keyed by peer address
	TakenAt   time.Time
}

type peerJob struct {
	torrentID int
	filter    api.PeerFilter
	handle    *schedule.Handle
}

// OpenPeers starts the peer-list job for torrent id, replacing any peer job
// already running. Rate history starts empty for every new job, and an error
// left by the previous peer job is cleared.
func (e *Engine) OpenPeers(id int, filter api.PeerFilter) {
	if filter == "" {
		filter = api.PeerFilterLive
	}
	e.mu.Lock()
	prev := e.peers
	e.peers = nil
	e.mu.Unlock()
	if prev != nil {
		prev.handle.Cancel()
	}
	e.stores.Errors.Clear(SourcePeers)

	// Publish the empty view before the first poll can land.
	e.stores.Peers.Set(PeerSnapshot{Active: true, TorrentID: id, Filter: filter})

	e.mu.Lock()
	e.peers = &peerJob{
		torrentID: id,
		filter:    filter,
		handle:    schedule.Adaptive(e.context(), 0, e.peersOp(id, filter, ratewindow.New())),
	}
	e.mu.Unlock()
	e.log.Debug().Int("torrent", id).Str("filter", string(filter)).Msg("peer view opened")
}

// SetPeerFilter restarts the open peer job with filter. It does nothing when
// no peer view is open or the filter is unchanged.
func (e *Engine) SetPeerFilter(filter api.PeerFilter) {
	e.mu.Lock()
	cur := e.peers
	e.mu.Unlock()
	if cur == nil || cur.filter == filter {
		return
	}
	e.OpenPeers(cur.torrentID, filter)
}

// ClosePeers cancels the peer job and clears the peer snapshot along with
// any error the job reported.
func (e *Engine) ClosePeers() {
	e.mu.Lock()
	cur := e.peers
	e.peers = nil
	e.mu.Unlock()
	if cur == nil {
		return
	}
	cur.handle.Cancel()
	e.stores.Peers.Set(PeerSnapshot{})
	e.stores.Errors.Clear(SourcePeers)
	e.log.Debug().Int("torrent", cur.torrentID).Msg("peer view closed")
}

// PeerView reports which torrent and filter the open peer job is polling.
func (e *Engine) PeerView() (id int, filter api.PeerFilter, open bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.peers == nil {
		return 0, "", false
	}
	return e.peers.torrentID, e.peers.filter, true
}

func (e *Engine) peersOp(id int, filter api.PeerFilter, window *ratewindow.Window) schedule.Operation {
	return func(ctx context.Context) time.Duration {
		resp, err := e.client.PeerStats(ctx, id, filter)
		if ctx.Err() != nil {
			return 0
		}
		guard := publisher(ctx)
		if err != nil {
			e.log.Warn().Err(err).Int("torrent", id).Msg("peer stats poll failed")
			e.stores.Errors.ReportIf(guard, SourcePeers, err)
			return e.intervals.Peers
		}
		e.stores.Errors.ClearIf(guard, SourcePeers)
		e.stores.Peers.SetIf(guard, derivePeerSnapshot(id, filter, resp.Peers, window, e.now()))
		return e.intervals.Peers
	}
}

// derivePeerSnapshot feeds every peer's counter into window, reads back the
// rates, then forgets peers absent from this response.
func derivePeerSnapshot(id int, filter api.PeerFilter, peers []api.Peer, window *ratewindow.Window, now time.Time) PeerSnapshot {
	present := make(map[string]struct{}, len(peers))
	for _, p := range peers {
		window.Record(p.Address, now, float64(p.Counters.FetchedBytes))
		present[p.Address] = struct{}{}
	}
	rates := make(map[string]float64, len(peers))
	for _, p := range peers {
		rates[p.Address] = window.Rate(p.Address)
	}
	for _, key := range window.Keys() {
		if _, ok := present[key]; !ok {
			window.Forget(key)
		}
	}
	return PeerSnapshot{
		Active:    true,
		TorrentID: id,
		Filter:    filter,
		Peers:     peers,
		Rates:     rates,
		TakenAt:   now,
	}
}
