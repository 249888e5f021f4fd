package live

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/schedule"
	"github.com/five82/swarmwatch/internal/state"
)

// Error sources reported to Stores.Errors.
const (
	SourceTorrents = "torrents"
	SourceSession  = "session"
	SourcePeers    = "peers"
)

// Intervals configures job cadence.
type Intervals struct {
	TorrentList  time.Duration
	StatsFast    time.Duration
	StatsSlow    time.Duration
	StatsError   time.Duration
	DetailsRetry time.Duration
	Peers        time.Duration
	Session      time.Duration
	SessionError time.Duration
}

// DefaultIntervals returns the cadence used when nothing is configured.
func DefaultIntervals() Intervals {
	return Intervals{
		TorrentList:  500 * time.Millisecond,
		StatsFast:    500 * time.Millisecond,
		StatsSlow:    10 * time.Second,
		StatsError:   5 * time.Second,
		DetailsRetry: time.Second,
		Peers:        time.Second,
		Session:      time.Second,
		SessionError: 5 * time.Second,
	}
}

func (i Intervals) withDefaults() Intervals {
	d := DefaultIntervals()
	pick := func(v, def time.Duration) time.Duration {
		if v <= 0 {
			return def
		}
		return v
	}
	return Intervals{
		TorrentList:  pick(i.TorrentList, d.TorrentList),
		StatsFast:    pick(i.StatsFast, d.StatsFast),
		StatsSlow:    pick(i.StatsSlow, d.StatsSlow),
		StatsError:   pick(i.StatsError, d.StatsError),
		DetailsRetry: pick(i.DetailsRetry, d.DetailsRetry),
		Peers:        pick(i.Peers, d.Peers),
		Session:      pick(i.Session, d.Session),
		SessionError: pick(i.SessionError, d.SessionError),
	}
}

// Stores are the values the jobs publish. Values are replaced wholesale and
// must not be mutated by readers.
type Stores struct {
	Torrents *state.Store[[]api.TorrentSummary]
	Stats    *state.Slots[int, *api.TorrentStats]
	Details  *state.Slots[int, *api.TorrentDetails]
	Peers    *state.Store[PeerSnapshot]
	Session  *state.Store[*api.SessionStats]
	Errors   *state.Errors
}

// NewStores returns empty stores.
func NewStores() *Stores {
	return &Stores{
		Torrents: &state.Store[[]api.TorrentSummary]{},
		Stats:    state.NewSlots[int, *api.TorrentStats](),
		Details:  state.NewSlots[int, *api.TorrentDetails](),
		Peers:    &state.Store[PeerSnapshot]{},
		Session:  &state.Store[*api.SessionStats]{},
		Errors:   state.NewErrors(),
	}
}

// Options configure an Engine.
type Options struct {
	Intervals Intervals
	Logger    *zerolog.Logger // nil disables logging
	Stores    *Stores         // nil creates fresh stores
}

// Engine owns the sync jobs and the stores they write.
type Engine struct {
	client    api.Fetcher
	stores    *Stores
	intervals Intervals
	log       zerolog.Logger
	now       func() time.Time

	mu          sync.Mutex
	ctx         context.Context
	stop        context.CancelFunc
	list        *schedule.Handle
	session     *schedule.Handle
	tracked     map[int]*torrentJobs
	peers       *peerJob
	unsubscribe func()
}

type torrentJobs struct {
	stats   *schedule.Handle
	details *schedule.Handle
}

// New builds an Engine. Jobs do not run until Start.
func New(client api.Fetcher, opts Options) *Engine {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	stores := opts.Stores
	if stores == nil {
		stores = NewStores()
	}
	return &Engine{
		client:    client,
		stores:    stores,
		intervals: opts.Intervals.withDefaults(),
		log:       logger.With().Str("component", "live").Logger(),
		now:       time.Now,
		tracked:   make(map[int]*torrentJobs),
	}
}

// Stores returns the stores written by the jobs.
func (e *Engine) Stores() *Stores {
	return e.stores
}

// Intervals returns the effective cadence.
func (e *Engine) Intervals() Intervals {
	return e.intervals
}

// Start launches the torrent-list and session jobs and begins tracking the
// torrents the list reports. It returns immediately; jobs stop when ctx is
// cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.list != nil {
		return
	}
	e.ctx, e.stop = context.WithCancel(ctx)
	e.unsubscribe = e.stores.Torrents.Subscribe(e.syncTracked)
	e.list = schedule.Adaptive(e.ctx, 0, e.pollTorrents)
	e.session = schedule.Adaptive(e.ctx, 0, e.pollSession)
	e.log.Info().Dur("torrent_list", e.intervals.TorrentList).Dur("session", e.intervals.Session).Msg("sync engine started")
}

// Stop cancels every job started by the engine.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	handles := []*schedule.Handle{e.list, e.session}
	for id, jobs := range e.tracked {
		handles = append(handles, jobs.stats, jobs.details)
		delete(e.tracked, id)
	}
	if e.peers != nil {
		handles = append(handles, e.peers.handle)
		e.peers = nil
	}
	e.list, e.session = nil, nil
	if e.stop != nil {
		e.stop()
	}
	e.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
	e.log.Info().Msg("sync engine stopped")
}

// publisher guards store writes with the job that owns ctx, so a cancelled
// job cannot overwrite what its canceller published.
func publisher(ctx context.Context) state.Guard {
	return func(write func()) bool { return schedule.Publish(ctx, write) }
}

func (e *Engine) context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}
