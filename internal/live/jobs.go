package live

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/schedule"
	"github.com/five82/swarmwatch/internal/state"
)

// pollTorrents refreshes the torrent list. The cadence does not change on
// failure; the error is surfaced through the error store instead.
func (e *Engine) pollTorrents(ctx context.Context) time.Duration {
	resp, err := e.client.ListTorrents(ctx)
	if ctx.Err() != nil {
		return 0
	}
	guard := publisher(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("torrent list poll failed")
		e.stores.Errors.ReportIf(guard, SourceTorrents, err)
		return e.intervals.TorrentList
	}
	e.stores.Errors.ClearIf(guard, SourceTorrents)
	e.stores.Torrents.SetIf(guard, resp.Torrents)
	return e.intervals.TorrentList
}

// syncTracked starts jobs for torrents that appeared in the list and stops
// jobs for torrents that left it.
func (e *Engine) syncTracked(torrents []api.TorrentSummary) {
	present := make(map[int]struct{}, len(torrents))
	for _, t := range torrents {
		present[t.ID] = struct{}{}
		e.Track(t.ID)
	}
	for _, id := range e.Tracked() {
		if _, ok := present[id]; !ok {
			e.Untrack(id)
		}
	}
}

// Track starts the stats job and details bootstrap for id. Tracking an id
// twice is a no-op.
func (e *Engine) Track(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tracked[id]; ok {
		return
	}
	ctx := e.context()
	if ctx.Err() != nil {
		return
	}
	statsSlot := e.stores.Stats.Slot(id)
	detailsSlot := e.stores.Details.Slot(id)

	jobs := &torrentJobs{
		stats: schedule.Adaptive(ctx, 0, e.statsOp(id, statsSlot)),
		details: schedule.RetryUntilSuccess(ctx, e.intervals.DetailsRetry, e.detailsOp(id), func(d api.TorrentDetails) {
			detailsSlot.Set(&d)
			e.log.Debug().Int("torrent", id).Int("files", len(d.Files)).Msg("torrent details loaded")
		}),
	}
	e.tracked[id] = jobs
	e.log.Debug().Int("torrent", id).Msg("tracking torrent")
}

// Untrack stops the jobs for id and drops its per-torrent state, including
// any error its stats job raised. An open peer view for id is closed.
func (e *Engine) Untrack(id int) {
	e.mu.Lock()
	jobs, ok := e.tracked[id]
	delete(e.tracked, id)
	var peers *peerJob
	if e.peers != nil && e.peers.torrentID == id {
		peers = e.peers
		e.peers = nil
	}
	e.mu.Unlock()

	if !ok {
		return
	}
	jobs.stats.Cancel()
	jobs.details.Cancel()
	e.stores.Stats.Delete(id)
	e.stores.Details.Delete(id)
	e.stores.Errors.Clear(statsSource(id))
	if peers != nil {
		peers.handle.Cancel()
		e.stores.Peers.Set(PeerSnapshot{})
		e.stores.Errors.Clear(SourcePeers)
	}
	e.log.Debug().Int("torrent", id).Msg("stopped tracking torrent")
}

// Tracked lists tracked torrent ids in ascending order.
func (e *Engine) Tracked() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]int, 0, len(e.tracked))
	for id := range e.tracked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func statsSource(id int) string {
	return "stats/" + strconv.Itoa(id)
}

// statsOp polls one torrent's stats: fast while it is downloading, slow once
// every byte is present, and the error interval after a failed poll.
func (e *Engine) statsOp(id int, slot *state.Store[*api.TorrentStats]) schedule.Operation {
	source := statsSource(id)
	return func(ctx context.Context) time.Duration {
		stats, err := e.client.TorrentStats(ctx, id)
		if ctx.Err() != nil {
			return 0
		}
		guard := publisher(ctx)
		if err != nil {
			e.log.Warn().Err(err).Int("torrent", id).Msg("stats poll failed")
			e.stores.Errors.ReportIf(guard, source, err)
			return e.intervals.StatsError
		}
		e.stores.Errors.ClearIf(guard, source)
		slot.SetIf(guard, &stats)
		return e.statsInterval(&stats)
	}
}

func (e *Engine) statsInterval(stats *api.TorrentStats) time.Duration {
	if stats.Finished() {
		return e.intervals.StatsSlow
	}
	return e.intervals.StatsFast
}

// detailsOp fetches torrent details. Failures only mean the metadata is not
// there yet; they are logged and retried.
func (e *Engine) detailsOp(id int) func(context.Context) (api.TorrentDetails, error) {
	return func(ctx context.Context) (api.TorrentDetails, error) {
		details, err := e.client.TorrentDetails(ctx, id)
		if err != nil {
			ev := e.log.Debug()
			if !errors.Is(err, api.ErrNotReady) {
				ev = e.log.Warn()
			}
			ev.Err(err).Int("torrent", id).Msg("torrent details unavailable, retrying")
			return api.TorrentDetails{}, err
		}
		return details, nil
	}
}

// pollSession refreshes session-wide totals.
func (e *Engine) pollSession(ctx context.Context) time.Duration {
	stats, err := e.client.SessionStats(ctx)
	if ctx.Err() != nil {
		return 0
	}
	guard := publisher(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("session stats poll failed")
		e.stores.Errors.ReportIf(guard, SourceSession, err)
		return e.intervals.SessionError
	}
	e.stores.Errors.ClearIf(guard, SourceSession)
	e.stores.Session.SetIf(guard, &stats)
	return e.intervals.Session
}
