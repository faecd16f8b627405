package host

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"dota-review-tracker/internal/constants"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Listener receives every event together with the snapshot current at the
// time the event arrived.
type Listener func(ctx context.Context, event Event, snap Snapshot)

type dispatch struct {
	event Event
	snap  Snapshot
}

// Adapter caches host info and fans events out to listeners. Listeners run
// one at a time on the dispatch goroutine, in registration order.
type Adapter struct {
	host   Host
	logger zerolog.Logger

	mu        sync.RWMutex
	snap      Snapshot
	listeners []Listener

	queue chan dispatch
	done  chan struct{}
	once  sync.Once
}

func NewAdapter(h Host, logger zerolog.Logger) *Adapter {
	return &Adapter{
		host:   h,
		logger: logger.With().Str("component", "host").Logger(),
		queue:  make(chan dispatch, constants.EventQueueSize),
		done:   make(chan struct{}),
	}
}

func (a *Adapter) Available() bool {
	return a.host.Available()
}

func (a *Adapter) AddListener(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

func (a *Adapter) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snap := a.snap
	snap.Roster = slices.Clone(a.snap.Roster)
	return snap
}

func (a *Adapter) HandleInfo(update InfoUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch update.Category {
	case CategoryRoster:
		a.snap.Roster = slices.Clone(update.Roster)
	case CategoryMatchInfo:
		if update.MatchInfo.MatchID != a.snap.MatchInfo.MatchID {
			a.snap.Winner = ""
		}
		a.snap.MatchInfo = *update.MatchInfo
	case CategoryMe:
		a.snap.Me = *update.Me
	}
	a.snap.UpdatedAt = time.Now().UTC()

	a.logger.Debug().Str("category", update.Category).Msg("info updated")
	return nil
}

// HandleEvent queues the event for dispatch. It blocks while the queue is
// full and fails once the adapter has stopped.
func (a *Adapter) HandleEvent(event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now().UTC()
	}

	a.mu.Lock()
	switch event.Name {
	case EventMatchStateChanged:
		a.snap.State = event.MatchState
	case EventMatchEnded:
		a.snap.Winner = event.Winner
	}
	snap := a.snap
	snap.Roster = slices.Clone(a.snap.Roster)
	a.mu.Unlock()

	select {
	case a.queue <- dispatch{event: event, snap: snap}:
		return nil
	case <-a.done:
		return errors.New("host adapter stopped")
	}
}

// Run drives the host and the dispatch loop until ctx is done.
func (a *Adapter) Run(ctx context.Context) error {
	defer a.once.Do(func() { close(a.done) })

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.host.Run(gctx, a)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case d := <-a.queue:
				a.dispatch(gctx, d)
			}
		}
	})

	return g.Wait()
}

func (a *Adapter) dispatch(ctx context.Context, d dispatch) {
	a.mu.RLock()
	listeners := slices.Clone(a.listeners)
	a.mu.RUnlock()

	a.logger.Info().
		Str("event", d.event.Name).
		Str("state", d.event.MatchState).
		Str("match_id", d.snap.MatchInfo.MatchID).
		Int("listeners", len(listeners)).
		Msg("dispatching host event")

	for _, l := range listeners {
		l(ctx, d.event, d.snap)
	}
}
