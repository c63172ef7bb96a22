// Package session manages the ordered list of open workspace tabs: a
// bounded, LRU-evicting set of views onto pages or fixed application
// surfaces, persisted across restarts through the workspace kv store.
package session

import "time"

// Kind identifies what a tab is showing.
type Kind string

const (
	KindPage      Kind = "page"
	KindDashboard Kind = "dashboard"
	KindSearch    Kind = "search"
	KindSettings  Kind = "settings"
)

// Valid reports whether k is a recognised tab kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPage, KindDashboard, KindSearch, KindSettings:
		return true
	}
	return false
}

// Descriptor names what a new tab should show. PageID is required when
// Kind is KindPage and ignored otherwise; Route selects the fixed view
// for the other kinds (empty means the kind's default route).
type Descriptor struct {
	Kind   Kind
	PageID string
	Route  string
	Title  string
}

// Tab is a single open workspace view.
type Tab struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Kind         Kind      `json:"kind"`
	PageID       string    `json:"page_id,omitempty"`
	Route        string    `json:"route,omitempty"`
	Dirty        bool      `json:"has_unsaved_changes"`
	Active       bool      `json:"is_active"`
	LastAccessed time.Time `json:"last_accessed"`

	seq int64 // insertion order, breaks last-accessed ties on eviction
}
