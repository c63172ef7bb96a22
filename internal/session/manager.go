package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpl-au/devise/internal/event"
	"github.com/jpl-au/devise/internal/log"
)

// DefaultMaxTabs is the tab capacity used when the config does not set
// workspace.max_tabs.
const DefaultMaxTabs = 20

// ErrTabNotFound is returned when a tab id does not resolve to an open tab.
var ErrTabNotFound = errors.New("tab not found")

// Manager owns the ordered open-tab list. All methods are safe for
// concurrent use. Invariants held under the lock: at most one tab per
// bound page id, at most maxTabs tabs, and exactly one active tab while
// the list is non-empty. Events are published after the lock is
// released, so subscribers may call back into the manager.
type Manager struct {
	bus     *event.Bus
	maxTabs int

	mu   sync.Mutex
	tabs []*Tab
	seq  int64

	now func() time.Time // swapped in tests
}

// NewManager creates an empty manager with the given capacity. A
// maxTabs of zero or less falls back to DefaultMaxTabs.
func NewManager(bus *event.Bus, maxTabs int) *Manager {
	if maxTabs <= 0 {
		maxTabs = DefaultMaxTabs
	}
	return &Manager{bus: bus, maxTabs: maxTabs, now: time.Now}
}

// Subscribe registers the manager's handlers on the bus: page deletions
// close the tabs bound to them, page renames refresh tab titles.
func (m *Manager) Subscribe(bus *event.Bus) {
	bus.Subscribe(func(e event.Event) {
		switch ev := e.(type) {
		case event.PagesDeletedEvent:
			m.closePages(ev.PageIDs)
		case event.PageEvent:
			if !ev.Created {
				m.renamePage(ev.PageID, ev.Title)
			}
		}
	})
}

// Open opens a tab for the descriptor and returns its id. Opening a page
// that already has a tab switches to that tab instead of creating a
// second one. When the list is at capacity, the tab with the oldest
// last-accessed time is evicted first, insertion order breaking ties.
// The opened tab becomes active.
func (m *Manager) Open(d Descriptor) (string, error) {
	m.mu.Lock()

	if !d.Kind.Valid() {
		m.mu.Unlock()
		return "", errors.New("unknown tab kind")
	}
	if d.Kind == KindPage {
		if d.PageID == "" {
			m.mu.Unlock()
			return "", errors.New("page tab requires a page id")
		}
		for _, t := range m.tabs {
			if t.Kind == KindPage && t.PageID == d.PageID {
				m.activate(t)
				m.mu.Unlock()
				m.changed()
				return t.ID, nil
			}
		}
	}

	if len(m.tabs) >= m.maxTabs {
		m.evictOldest()
	}

	m.seq++
	t := &Tab{
		ID:           uuid.NewString(),
		Title:        d.Title,
		Kind:         d.Kind,
		PageID:       d.PageID,
		Route:        d.Route,
		LastAccessed: m.now().UTC(),
		seq:          m.seq,
	}
	m.tabs = append(m.tabs, t)
	m.activate(t)
	m.mu.Unlock()

	log.Event("session:open", "open").Entity("tab", t.ID).Detail("kind", string(t.Kind)).Write(nil)
	m.changed()
	return t.ID, nil
}

// Close removes the tab. Closing the active tab activates the tab now at
// the same list position, or the new last tab when the closed one was
// last. Closing an unknown id fails with ErrTabNotFound.
func (m *Manager) Close(tabID string) error {
	m.mu.Lock()

	i := m.indexOf(tabID)
	if i < 0 {
		m.mu.Unlock()
		return ErrTabNotFound
	}
	wasActive := m.tabs[i].Active
	m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)
	if wasActive && len(m.tabs) > 0 {
		if i >= len(m.tabs) {
			i = len(m.tabs) - 1
		}
		m.activate(m.tabs[i])
	}
	m.mu.Unlock()

	m.changed()
	return nil
}

// CloseOthers reduces the list to just the given tab and keeps it active.
func (m *Manager) CloseOthers(tabID string) error {
	m.mu.Lock()

	i := m.indexOf(tabID)
	if i < 0 {
		m.mu.Unlock()
		return ErrTabNotFound
	}
	kept := m.tabs[i]
	m.tabs = []*Tab{kept}
	m.activate(kept)
	m.mu.Unlock()

	m.changed()
	return nil
}

// CloseAll empties the tab list; no tab is active afterwards.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	m.tabs = nil
	m.mu.Unlock()
	m.changed()
}

// SwitchTo activates the tab and refreshes its last-accessed time.
func (m *Manager) SwitchTo(tabID string) error {
	m.mu.Lock()

	i := m.indexOf(tabID)
	if i < 0 {
		m.mu.Unlock()
		return ErrTabNotFound
	}
	m.activate(m.tabs[i])
	m.mu.Unlock()

	m.changed()
	return nil
}

// Reorder moves the tab at from to position to. Identity, active
// ownership and dirty flags are untouched; only list order changes.
func (m *Manager) Reorder(from, to int) error {
	m.mu.Lock()

	if from < 0 || from >= len(m.tabs) || to < 0 || to >= len(m.tabs) {
		m.mu.Unlock()
		return errors.New("tab index out of range")
	}
	if from == to {
		m.mu.Unlock()
		return nil
	}
	t := m.tabs[from]
	m.tabs = append(m.tabs[:from], m.tabs[from+1:]...)
	m.tabs = append(m.tabs[:to], append([]*Tab{t}, m.tabs[to:]...)...)
	m.mu.Unlock()

	m.changed()
	return nil
}

// Next cyclically activates the tab after the active one. No-op with one
// tab or none.
func (m *Manager) Next() { m.step(1) }

// Previous cyclically activates the tab before the active one.
func (m *Manager) Previous() { m.step(-1) }

func (m *Manager) step(delta int) {
	m.mu.Lock()

	if len(m.tabs) <= 1 {
		m.mu.Unlock()
		return
	}
	cur := m.activeIndex()
	if cur < 0 {
		cur = 0
	}
	next := (cur + delta + len(m.tabs)) % len(m.tabs)
	m.activate(m.tabs[next])
	m.mu.Unlock()

	m.changed()
}

// Rename updates a tab's display title.
func (m *Manager) Rename(tabID, title string) error {
	m.mu.Lock()

	i := m.indexOf(tabID)
	if i < 0 {
		m.mu.Unlock()
		return ErrTabNotFound
	}
	m.tabs[i].Title = title
	m.mu.Unlock()

	m.changed()
	return nil
}

// MarkDirty toggles a tab's unsaved-changes flag.
func (m *Manager) MarkDirty(tabID string, dirty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(tabID)
	if i < 0 {
		return ErrTabNotFound
	}
	m.tabs[i].Dirty = dirty
	return nil
}

// Tabs returns a snapshot of the ordered tab list.
func (m *Manager) Tabs() []Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Active returns a copy of the active tab, or nil when the list is empty.
func (m *Manager) Active() *Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.activeIndex(); i >= 0 {
		t := *m.tabs[i]
		return &t
	}
	return nil
}

// Count returns the number of open tabs.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tabs)
}

// closePages removes every tab bound to one of the deleted pages.
// Called from the bus when a hierarchy cascade removes pages.
func (m *Manager) closePages(pageIDs []string) {
	if len(pageIDs) == 0 {
		return
	}
	doomed := make(map[string]bool, len(pageIDs))
	for _, id := range pageIDs {
		doomed[id] = true
	}

	m.mu.Lock()
	kept := m.tabs[:0]
	removedActive := false
	for _, t := range m.tabs {
		if t.Kind == KindPage && doomed[t.PageID] {
			if t.Active {
				removedActive = true
			}
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == len(m.tabs) {
		m.mu.Unlock()
		return
	}
	m.tabs = kept
	if removedActive && len(m.tabs) > 0 {
		m.activate(m.tabs[0])
	}
	m.mu.Unlock()

	m.changed()
}

// renamePage refreshes the title of the tab bound to the page, if open.
func (m *Manager) renamePage(pageID, title string) {
	m.mu.Lock()
	for _, t := range m.tabs {
		if t.Kind == KindPage && t.PageID == pageID && t.Title != title {
			t.Title = title
			m.mu.Unlock()
			m.changed()
			return
		}
	}
	m.mu.Unlock()
}

// evictOldest drops the tab with the smallest last-accessed time,
// insertion order breaking ties. Caller holds the lock.
func (m *Manager) evictOldest() {
	if len(m.tabs) == 0 {
		return
	}
	oldest := 0
	for i, t := range m.tabs[1:] {
		o := m.tabs[oldest]
		if t.LastAccessed.Before(o.LastAccessed) ||
			(t.LastAccessed.Equal(o.LastAccessed) && t.seq < o.seq) {
			oldest = i + 1
		}
	}
	evicted := m.tabs[oldest]
	wasActive := evicted.Active
	m.tabs = append(m.tabs[:oldest], m.tabs[oldest+1:]...)
	log.Event("session:evict", "close").Entity("tab", evicted.ID).Write(nil)
	if wasActive && len(m.tabs) > 0 {
		m.activate(m.tabs[0])
	}
}

// activate makes t the sole active tab and bumps its last-accessed time.
// Caller holds the lock.
func (m *Manager) activate(t *Tab) {
	for _, other := range m.tabs {
		other.Active = false
	}
	t.Active = true
	t.LastAccessed = m.now().UTC()
}

func (m *Manager) activeIndex() int {
	for i, t := range m.tabs {
		if t.Active {
			return i
		}
	}
	return -1
}

func (m *Manager) indexOf(tabID string) int {
	for i, t := range m.tabs {
		if t.ID == tabID {
			return i
		}
	}
	return -1
}

func (m *Manager) snapshot() []Tab {
	out := make([]Tab, len(m.tabs))
	for i, t := range m.tabs {
		out[i] = *t
	}
	return out
}

func (m *Manager) changed() {
	if m.bus != nil {
		m.bus.Publish(event.SessionChangedEvent{})
	}
}
