package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/swarmwatch/internal/api"
	"github.com/five82/swarmwatch/internal/live"
	"github.com/five82/swarmwatch/internal/state"
)

// storesChangedMsg asks the model to re-read the stores.
type storesChangedMsg struct{}

// refreshMsg drives the periodic re-read that picks up per-torrent stats,
// which live in slots the UI does not subscribe to.
type refreshMsg time.Time

// watcher turns store notifications into at most one pending wakeup.
// Store callbacks run on job goroutines, so notify never blocks.
type watcher struct {
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once
	unsubs []func()
}

func watchStores(s *live.Stores) *watcher {
	w := &watcher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	w.unsubs = append(w.unsubs,
		s.Torrents.Subscribe(func([]api.TorrentSummary) { w.notify() }),
		s.Peers.Subscribe(func(live.PeerSnapshot) { w.notify() }),
		s.Session.Subscribe(func(*api.SessionStats) { w.notify() }),
		s.Errors.Subscribe(func(state.ErrorState) { w.notify() }),
	)
	return w
}

func (w *watcher) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// wait returns a command that delivers the next wakeup. It yields nil once
// the watcher is stopped.
func (w *watcher) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.wake:
			return storesChangedMsg{}
		case <-w.done:
			return nil
		}
	}
}

func (w *watcher) stop() {
	w.once.Do(func() {
		for _, unsubscribe := range w.unsubs {
			unsubscribe()
		}
		close(w.done)
	})
}

func refreshCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}
