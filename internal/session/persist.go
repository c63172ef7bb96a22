package session

import (
	"context"
	"errors"
	"time"

	"github.com/jpl-au/devise/internal/kv"
	"github.com/jpl-au/devise/internal/log"
)

// tabsKey is the kv key holding the persisted session.
const tabsKey = "session.tabs"

// PageResolver answers whether a page id still exists. Satisfied by the
// hierarchy service.
type PageResolver interface {
	PageExists(ctx context.Context, pageID string) (bool, error)
}

// persistedSession is the kv-serialized form of the tab list.
type persistedSession struct {
	Tabs     []persistedTab `json:"tabs"`
	ActiveID string         `json:"active_id,omitempty"`
	SavedAt  time.Time      `json:"saved_at"`
}

type persistedTab struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Kind   Kind   `json:"kind"`
	PageID string `json:"page_id,omitempty"`
	Route  string `json:"route,omitempty"`
}

// Persist writes the ordered tab list and active tab id to the kv store.
// Dirty flags and access times are deliberately not persisted; a restored
// session starts clean.
func (m *Manager) Persist(ctx context.Context, store *kv.Store) error {
	m.mu.Lock()
	ps := persistedSession{SavedAt: m.now().UTC()}
	for _, t := range m.tabs {
		ps.Tabs = append(ps.Tabs, persistedTab{
			ID: t.ID, Title: t.Title, Kind: t.Kind, PageID: t.PageID, Route: t.Route,
		})
		if t.Active {
			ps.ActiveID = t.ID
		}
	}
	m.mu.Unlock()

	err := store.Set(ctx, tabsKey, ps)
	log.Event("session:persist", "persist").Detail("tabs", len(ps.Tabs)).Write(err)
	return err
}

// Restore replaces the tab list with the last persisted session. Tabs
// whose bound page no longer resolves are dropped without surfacing an
// error; when the persisted active tab was dropped (or never marked),
// the first remaining tab becomes active. Restore itself never fails:
// a missing or unreadable session restores to an empty list.
func (m *Manager) Restore(ctx context.Context, store *kv.Store, pages PageResolver) {
	var ps persistedSession
	if err := store.Get(ctx, tabsKey, &ps); err != nil {
		if !errors.Is(err, kv.ErrNoValue) {
			log.Event("session:restore", "restore").Write(err)
		}
		return
	}

	var tabs []*Tab
	dropped := 0
	for _, pt := range ps.Tabs {
		if pt.Kind == KindPage {
			ok, err := pages.PageExists(ctx, pt.PageID)
			if err != nil || !ok {
				dropped++
				if err != nil {
					log.Event("session:restore", "restore").Entity("page", pt.PageID).Write(err)
				}
				continue
			}
		}
		tabs = append(tabs, &Tab{
			ID:           pt.ID,
			Title:        pt.Title,
			Kind:         pt.Kind,
			PageID:       pt.PageID,
			Route:        pt.Route,
			LastAccessed: m.now().UTC(),
		})
	}

	m.mu.Lock()
	for _, t := range tabs {
		m.seq++
		t.seq = m.seq
	}
	m.tabs = tabs
	active := -1
	for i, t := range m.tabs {
		if t.ID == ps.ActiveID {
			active = i
			break
		}
	}
	if active < 0 && len(m.tabs) > 0 {
		active = 0
	}
	if active >= 0 {
		m.activate(m.tabs[active])
	}
	m.mu.Unlock()

	log.Event("session:restore", "restore").
		Detail("restored", len(tabs)).Detail("dropped", dropped).Write(nil)
	m.changed()
}
