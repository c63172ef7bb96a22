// Package workspace assembles a running devise workspace: the durable
// store, the ephemeral kv store, the event bus, and the services wired
// on top of them. Commands open a Workspace, use the services, and close
// it; the wiring order here is what keeps the in-memory indexes (link
// graph, tab list) consistent with the store.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jpl-au/devise/internal/ai"
	"github.com/jpl-au/devise/internal/config"
	"github.com/jpl-au/devise/internal/event"
	"github.com/jpl-au/devise/internal/graph"
	"github.com/jpl-au/devise/internal/hierarchy"
	"github.com/jpl-au/devise/internal/kv"
	"github.com/jpl-au/devise/internal/log"
	"github.com/jpl-au/devise/internal/repo"
	"github.com/jpl-au/devise/internal/search"
	"github.com/jpl-au/devise/internal/session"
	"github.com/jpl-au/devise/internal/store"
)

// Workspace is a fully wired devise instance.
type Workspace struct {
	Config    *config.Config
	Store     *store.SQLiteStore
	KV        *kv.Store
	Bus       *event.Bus
	Hierarchy *hierarchy.Service
	Graph     *graph.Graph
	Session   *session.Manager
	Search    *search.Service
	Analyzer  ai.Analyzer

	autosave *session.Autosave
}

// Open discovers the workspace, opens both databases and wires the
// services together. The session is restored from its last persisted
// state; tabs bound to pages deleted since then are dropped.
func Open(ctx context.Context) (*Workspace, error) {
	deviseDir, err := repo.DiscoverDir()
	if err != nil {
		return nil, err
	}
	return OpenDir(ctx, deviseDir)
}

// OpenDir opens the workspace rooted at a specific .devise directory.
func OpenDir(ctx context.Context, deviseDir string) (*Workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(deviseDir); err == nil {
		log.SetWorkspace(abs)
	}

	s, err := store.Open(filepath.Join(deviseDir, repo.DBFile))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := s.Init(); err != nil {
		s.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}

	k, err := kv.Open(repo.WorkspaceDBPath(deviseDir))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open workspace db: %w", err)
	}

	bus := event.NewBus()

	h := hierarchy.New(s, bus, hierarchy.Limits{
		MaxTitle:   cfg.MaxTitle(),
		MaxContent: int64(cfg.MaxContent()),
	})

	g, err := graph.New(ctx, s, bus)
	if err != nil {
		s.Close()
		k.Close()
		return nil, fmt.Errorf("load link graph: %w", err)
	}
	g.Subscribe(bus)

	m := session.NewManager(bus, cfg.MaxTabs())
	m.Subscribe(bus)
	m.Restore(ctx, k, h)

	ws := &Workspace{
		Config:    cfg,
		Store:     s,
		KV:        k,
		Bus:       bus,
		Hierarchy: h,
		Graph:     g,
		Session:   m,
		Search:    search.New(s, k),
		Analyzer:  ai.NewHeuristic(),
	}
	return ws, nil
}

// StartAutosave begins periodic session persistence. Close performs the
// final save whether or not autosave ran.
func (w *Workspace) StartAutosave(ctx context.Context) {
	interval := time.Duration(w.Config.AutosaveSeconds()) * time.Second
	w.autosave = session.NewAutosave(w.Session, w.KV, w.Bus, interval)
	w.autosave.Start(ctx)
}

// Close persists the session and closes both databases. The first error
// wins but every resource is released.
func (w *Workspace) Close(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}

	if w.autosave != nil {
		keep(w.autosave.Stop(ctx))
	} else {
		keep(w.Session.Persist(ctx, w.KV))
	}
	keep(w.Store.Checkpoint(ctx))
	keep(w.KV.Close())
	keep(w.Store.Close())
	return firstErr
}
