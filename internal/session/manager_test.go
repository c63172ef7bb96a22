package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/devise/internal/event"
	"github.com/jpl-au/devise/internal/session"
)

func pageTab(n int) session.Descriptor {
	return session.Descriptor{
		Kind:   session.KindPage,
		PageID: fmt.Sprintf("page-%d", n),
		Title:  fmt.Sprintf("Page %d", n),
	}
}

func tabIDs(tabs []session.Tab) []string {
	out := make([]string, len(tabs))
	for i, t := range tabs {
		out[i] = t.ID
	}
	return out
}

// --- Open ---

func TestManager_OpenActivates(t *testing.T) {
	m := session.NewManager(nil, 0)

	id1, err := m.Open(pageTab(1))
	require.NoError(t, err)
	id2, err := m.Open(pageTab(2))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Count())
	active := m.Active()
	require.NotNil(t, active)
	assert.Equal(t, id2, active.ID)

	tabs := m.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, id1, tabs[0].ID)
	assert.False(t, tabs[0].Active)
	assert.True(t, tabs[1].Active)
}

func TestManager_OpenSamePageIsIdempotent(t *testing.T) {
	m := session.NewManager(nil, 0)

	id1, err := m.Open(pageTab(1))
	require.NoError(t, err)
	id2, err := m.Open(pageTab(2))
	require.NoError(t, err)

	// Re-opening page 1 switches back to its existing tab
	again, err := m.Open(pageTab(1))
	require.NoError(t, err)
	assert.Equal(t, id1, again)
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, id1, m.Active().ID)
	_ = id2
}

func TestManager_OpenFixedViews(t *testing.T) {
	m := session.NewManager(nil, 0)

	_, err := m.Open(session.Descriptor{Kind: session.KindDashboard, Title: "Dashboard"})
	require.NoError(t, err)
	_, err = m.Open(session.Descriptor{Kind: session.KindSearch, Title: "Search"})
	require.NoError(t, err)

	// Fixed views are not deduplicated by page id
	_, err = m.Open(session.Descriptor{Kind: session.KindDashboard, Title: "Dashboard"})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Count())

	_, err = m.Open(session.Descriptor{Kind: session.Kind("widget")})
	assert.Error(t, err)

	_, err = m.Open(session.Descriptor{Kind: session.KindPage})
	assert.Error(t, err)
}

// --- Eviction ---

func TestManager_EvictsOldestAtCapacity(t *testing.T) {
	m := session.NewManager(nil, session.DefaultMaxTabs)

	var first string
	for i := 1; i <= session.DefaultMaxTabs; i++ {
		id, err := m.Open(pageTab(i))
		require.NoError(t, err)
		if i == 1 {
			first = id
		}
	}
	assert.Equal(t, session.DefaultMaxTabs, m.Count())

	// The 21st open evicts the least recently used tab (the first) and
	// becomes active.
	newest, err := m.Open(pageTab(session.DefaultMaxTabs + 1))
	require.NoError(t, err)
	assert.Equal(t, session.DefaultMaxTabs, m.Count())
	assert.Equal(t, newest, m.Active().ID)
	assert.NotContains(t, tabIDs(m.Tabs()), first)
}

func TestManager_SwitchProtectsFromEviction(t *testing.T) {
	m := session.NewManager(nil, 3)

	id1, err := m.Open(pageTab(1))
	require.NoError(t, err)
	id2, err := m.Open(pageTab(2))
	require.NoError(t, err)
	_, err = m.Open(pageTab(3))
	require.NoError(t, err)

	// Touch tab 1; tab 2 is now the least recently used
	require.NoError(t, m.SwitchTo(id1))

	_, err = m.Open(pageTab(4))
	require.NoError(t, err)
	ids := tabIDs(m.Tabs())
	assert.Contains(t, ids, id1)
	assert.NotContains(t, ids, id2)
}

// --- Close ---

func TestManager_CloseActivatesSuccessor(t *testing.T) {
	m := session.NewManager(nil, 0)

	a, err := m.Open(pageTab(1))
	require.NoError(t, err)
	b, err := m.Open(pageTab(2))
	require.NoError(t, err)
	c, err := m.Open(pageTab(3))
	require.NoError(t, err)

	// Activate the first tab, then close it: the tab now at the same
	// position (b) becomes active.
	require.NoError(t, m.SwitchTo(a))
	require.NoError(t, m.Close(a))
	assert.Equal(t, b, m.Active().ID)

	// Closing the last tab while active falls back to its predecessor
	require.NoError(t, m.SwitchTo(c))
	require.NoError(t, m.Close(c))
	assert.Equal(t, b, m.Active().ID)
	assert.Equal(t, 1, m.Count())
}

func TestManager_CloseInactiveKeepsActive(t *testing.T) {
	m := session.NewManager(nil, 0)

	a, err := m.Open(pageTab(1))
	require.NoError(t, err)
	b, err := m.Open(pageTab(2))
	require.NoError(t, err)

	require.NoError(t, m.Close(a))
	assert.Equal(t, b, m.Active().ID)

	assert.ErrorIs(t, m.Close("missing"), session.ErrTabNotFound)
}

func TestManager_CloseOthersAndCloseAll(t *testing.T) {
	m := session.NewManager(nil, 0)

	_, err := m.Open(pageTab(1))
	require.NoError(t, err)
	b, err := m.Open(pageTab(2))
	require.NoError(t, err)
	_, err = m.Open(pageTab(3))
	require.NoError(t, err)

	require.NoError(t, m.CloseOthers(b))
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, b, m.Active().ID)

	m.CloseAll()
	assert.Equal(t, 0, m.Count())
	assert.Nil(t, m.Active())
}

// --- Navigation ---

func TestManager_NextPreviousCycle(t *testing.T) {
	m := session.NewManager(nil, 0)

	a, err := m.Open(pageTab(1))
	require.NoError(t, err)
	b, err := m.Open(pageTab(2))
	require.NoError(t, err)
	c, err := m.Open(pageTab(3))
	require.NoError(t, err)

	// c is active; Next wraps to a
	m.Next()
	assert.Equal(t, a, m.Active().ID)
	m.Next()
	assert.Equal(t, b, m.Active().ID)

	m.Previous()
	assert.Equal(t, a, m.Active().ID)
	m.Previous()
	assert.Equal(t, c, m.Active().ID)
}

func TestManager_Reorder(t *testing.T) {
	m := session.NewManager(nil, 0)

	a, err := m.Open(pageTab(1))
	require.NoError(t, err)
	b, err := m.Open(pageTab(2))
	require.NoError(t, err)
	c, err := m.Open(pageTab(3))
	require.NoError(t, err)
	require.NoError(t, m.MarkDirty(a, true))

	require.NoError(t, m.Reorder(0, 2))
	tabs := m.Tabs()
	assert.Equal(t, []string{b, c, a}, tabIDs(tabs))

	// Membership, active ownership and dirty flags survive the reorder
	assert.Equal(t, c, m.Active().ID)
	assert.True(t, tabs[2].Dirty)

	assert.Error(t, m.Reorder(0, 5))
	assert.NoError(t, m.Reorder(1, 1))
}

// --- Flags ---

func TestManager_MarkDirtyAndRename(t *testing.T) {
	m := session.NewManager(nil, 0)

	id, err := m.Open(pageTab(1))
	require.NoError(t, err)

	require.NoError(t, m.MarkDirty(id, true))
	assert.True(t, m.Tabs()[0].Dirty)
	require.NoError(t, m.MarkDirty(id, false))
	assert.False(t, m.Tabs()[0].Dirty)

	require.NoError(t, m.Rename(id, "New Title"))
	assert.Equal(t, "New Title", m.Tabs()[0].Title)

	assert.ErrorIs(t, m.MarkDirty("missing", true), session.ErrTabNotFound)
	assert.ErrorIs(t, m.Rename("missing", "x"), session.ErrTabNotFound)
}

// --- Bus integration ---

func TestManager_ClosesTabsOfDeletedPages(t *testing.T) {
	bus := event.NewBus()
	m := session.NewManager(bus, 0)
	m.Subscribe(bus)

	a, err := m.Open(pageTab(1))
	require.NoError(t, err)
	_, err = m.Open(pageTab(2))
	require.NoError(t, err)
	c, err := m.Open(pageTab(3))
	require.NoError(t, err)

	// Delete the pages behind b and c while c is active: both tabs
	// close and the first remaining tab becomes active.
	bus.Publish(event.PagesDeletedEvent{PageIDs: []string{"page-2", "page-3"}})

	tabs := m.Tabs()
	require.Len(t, tabs, 1)
	assert.Equal(t, a, tabs[0].ID)
	assert.Equal(t, a, m.Active().ID)
	_ = c
}

func TestManager_RefreshesTitleOnPageRename(t *testing.T) {
	bus := event.NewBus()
	m := session.NewManager(bus, 0)
	m.Subscribe(bus)

	_, err := m.Open(pageTab(1))
	require.NoError(t, err)

	bus.Publish(event.PageEvent{PageID: "page-1", Title: "Renamed"})
	assert.Equal(t, "Renamed", m.Tabs()[0].Title)

	// Created events do not touch titles
	bus.Publish(event.PageEvent{PageID: "page-1", Title: "Other", Created: true})
	assert.Equal(t, "Renamed", m.Tabs()[0].Title)
}

func TestManager_PublishesSessionChanged(t *testing.T) {
	bus := event.NewBus()
	m := session.NewManager(bus, 0)

	changed := 0
	bus.Subscribe(func(e event.Event) {
		if e.EventType() == event.TypeSessionChanged {
			changed++
			// Subscribers may call back into the manager: events fire
			// outside the lock.
			m.Count()
		}
	})

	id, err := m.Open(pageTab(1))
	require.NoError(t, err)
	require.NoError(t, m.Close(id))
	assert.Equal(t, 2, changed)
}
