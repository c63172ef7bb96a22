// Package graph owns the directed Page→Page link graph. It keeps two
// in-memory indexes - by source and by target - on top of the links table
// so forward and backward queries are O(1) amortised rather than full
// scans. Both indexes and the store row are updated under one lock per
// operation, so a forward query and a backward query never disagree.
//
// The graph learns about page deletion from the hierarchy's
// PagesDeletedEvent; the store rows are already gone by then (same
// transaction as the page cascade), so the handler only prunes memory.
package graph

import (
	"context"
	"sync"

	"github.com/jpl-au/devise/internal/event"
	"github.com/jpl-au/devise/internal/log"
	"github.com/jpl-au/devise/internal/store"
)

// Graph provides link and backlink queries over the durable store.
type Graph struct {
	store *store.SQLiteStore
	bus   *event.Bus

	mu       sync.RWMutex
	bySource map[string][]store.PageLink // creation order per source
	byTarget map[string][]store.PageLink
}

// New creates a graph and loads the indexes from the store. Subscribe the
// returned graph to the hierarchy's bus via Subscribe so page cascades
// reach it.
func New(ctx context.Context, s *store.SQLiteStore, bus *event.Bus) (*Graph, error) {
	g := &Graph{
		store:    s,
		bus:      bus,
		bySource: make(map[string][]store.PageLink),
		byTarget: make(map[string][]store.PageLink),
	}
	if err := g.load(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// Subscribe registers the graph's cascade handler on the bus.
func (g *Graph) Subscribe(bus *event.Bus) {
	bus.Subscribe(func(e event.Event) {
		if del, ok := e.(event.PagesDeletedEvent); ok {
			g.removePages(del.PageIDs)
		}
	})
}

// load rebuilds both indexes from the links table. ListAllLinks returns
// creation order, so per-page slices come out ordered without sorting.
func (g *Graph) load(ctx context.Context) error {
	links, err := g.store.ListAllLinks(ctx)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bySource = make(map[string][]store.PageLink, len(links))
	g.byTarget = make(map[string][]store.PageLink, len(links))
	for _, l := range links {
		g.bySource[l.SourceID] = append(g.bySource[l.SourceID], l)
		g.byTarget[l.TargetID] = append(g.byTarget[l.TargetID], l)
	}
	return nil
}

// Create adds a directed link. Self-links are rejected; duplicate
// (source, target, text) tuples are allowed as parallel edges, each with
// its own id.
func (g *Graph) Create(ctx context.Context, sourceID, targetID, text string, typ store.LinkType) (*store.PageLink, error) {
	l, err := g.store.CreateLink(ctx, sourceID, targetID, text, typ)
	log.Event("graph:create_link", "link").Entity("link", linkID(l)).
		Detail("source", sourceID).Detail("target", targetID).Write(err)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.bySource[l.SourceID] = append(g.bySource[l.SourceID], *l)
	g.byTarget[l.TargetID] = append(g.byTarget[l.TargetID], *l)
	g.mu.Unlock()

	g.bus.Publish(event.LinkEvent{LinkID: l.ID, SourceID: l.SourceID, TargetID: l.TargetID, Created: true})
	return l, nil
}

// Unlink removes a link by id. Fails with store.ErrNotFound when the id
// does not resolve.
func (g *Graph) Unlink(ctx context.Context, id string) error {
	l, err := g.store.GetLink(ctx, id)
	if err != nil {
		log.Event("graph:unlink", "unlink").Entity("link", id).Write(err)
		return err
	}
	err = g.store.DeleteLink(ctx, id)
	log.Event("graph:unlink", "unlink").Entity("link", id).Write(err)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.bySource[l.SourceID] = dropLink(g.bySource[l.SourceID], id)
	g.byTarget[l.TargetID] = dropLink(g.byTarget[l.TargetID], id)
	g.mu.Unlock()

	g.bus.Publish(event.LinkEvent{LinkID: id, SourceID: l.SourceID, TargetID: l.TargetID})
	return nil
}

// Outgoing returns the links whose source is pageID, ordered by creation
// time ascending (insertion order breaking ties). The returned slice is a
// copy; callers may retain it.
func (g *Graph) Outgoing(pageID string) []store.PageLink {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyLinks(g.bySource[pageID])
}

// Backlinks returns every link whose target is pageID, regardless of
// which page created it or in which order links were created elsewhere.
func (g *Graph) Backlinks(pageID string) []store.PageLink {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyLinks(g.byTarget[pageID])
}

// removePages prunes every link whose source or target is one of the
// deleted pages, in both indexes. The store rows were removed by the
// hierarchy cascade already.
func (g *Graph) removePages(pageIDs []string) {
	if len(pageIDs) == 0 {
		return
	}
	doomed := make(map[string]bool, len(pageIDs))
	for _, id := range pageIDs {
		doomed[id] = true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range pageIDs {
		delete(g.bySource, id)
		delete(g.byTarget, id)
	}
	// Links pointing at a deleted page from a surviving one (and vice
	// versa) still sit in the other index.
	for src, links := range g.bySource {
		g.bySource[src] = dropDoomed(links, doomed)
	}
	for tgt, links := range g.byTarget {
		g.byTarget[tgt] = dropDoomed(links, doomed)
	}
}

func dropLink(links []store.PageLink, id string) []store.PageLink {
	out := links[:0]
	for _, l := range links {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func dropDoomed(links []store.PageLink, doomed map[string]bool) []store.PageLink {
	out := links[:0]
	for _, l := range links {
		if !doomed[l.SourceID] && !doomed[l.TargetID] {
			out = append(out, l)
		}
	}
	return out
}

func copyLinks(links []store.PageLink) []store.PageLink {
	if len(links) == 0 {
		return nil
	}
	out := make([]store.PageLink, len(links))
	copy(out, links)
	return out
}

func linkID(l *store.PageLink) string {
	if l == nil {
		return ""
	}
	return l.ID
}
