package session

import "sync"

// FetchGuard hands out per-tab generation tokens so slow page loads
// can't clobber a newer one. An editor begins a fetch, loads the page,
// then asks whether its token is still current before applying the
// result; switching tabs or re-opening bumps the generation and strands
// the older fetch.
type FetchGuard struct {
	mu  sync.Mutex
	gen map[string]uint64 // tab id -> current generation
}

// NewFetchGuard returns an empty guard.
func NewFetchGuard() *FetchGuard {
	return &FetchGuard{gen: make(map[string]uint64)}
}

// Begin starts a new fetch for the tab and returns its token. Any token
// issued earlier for the same tab becomes stale.
func (f *FetchGuard) Begin(tabID string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen[tabID]++
	return f.gen[tabID]
}

// Current reports whether token is still the latest fetch for the tab.
// A false return means the result should be discarded.
func (f *FetchGuard) Current(tabID string, token uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen[tabID] == token
}

// Forget clears the tab's generation state, typically on tab close.
func (f *FetchGuard) Forget(tabID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.gen, tabID)
}
