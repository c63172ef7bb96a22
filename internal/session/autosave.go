package session

import (
	"context"
	"time"

	"github.com/jpl-au/devise/internal/event"
	"github.com/jpl-au/devise/internal/kv"
)

// DefaultAutosaveInterval is used when workspace.autosave_seconds is unset.
const DefaultAutosaveInterval = 30 * time.Second

// Autosave persists the session on a fixed interval and once more on
// shutdown, so a crash loses at most one interval of tab churn. It also
// listens for session changes and flags the session dirty, skipping
// writes on quiet intervals.
type Autosave struct {
	manager  *Manager
	store    *kv.Store
	interval time.Duration

	dirty  chan struct{} // buffered, len 1
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutosave wires an autosaver to the manager's bus. An interval of
// zero or less falls back to DefaultAutosaveInterval.
func NewAutosave(manager *Manager, store *kv.Store, bus *event.Bus, interval time.Duration) *Autosave {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	a := &Autosave{
		manager:  manager,
		store:    store,
		interval: interval,
		dirty:    make(chan struct{}, 1),
	}
	bus.Subscribe(func(e event.Event) {
		if e.EventType() == event.TypeSessionChanged {
			select {
			case a.dirty <- struct{}{}:
			default:
			}
		}
	})
	return a
}

// Start launches the background save loop.
func (a *Autosave) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	go a.run(ctx)
}

// Stop ends the loop and performs a final save.
func (a *Autosave) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
		<-a.done
	}
	return a.manager.Persist(ctx, a.store)
}

func (a *Autosave) run(ctx context.Context) {
	defer close(a.done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case <-a.dirty:
				// Best effort; the write failure is already logged.
				_ = a.manager.Persist(ctx, a.store)
			default:
			}
		}
	}
}
