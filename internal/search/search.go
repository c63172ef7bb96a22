// Package search wraps the store's lexical page search with result
// presentation (snippets and matched terms) and remembers what the user
// searched for: a capped recent-query history and named saved searches,
// both kept in the workspace kv store.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/jpl-au/devise/internal/ai"
	"github.com/jpl-au/devise/internal/kv"
	"github.com/jpl-au/devise/internal/log"
	"github.com/jpl-au/devise/internal/store"
)

const (
	historyKey = "search.history"
	savedKey   = "search.saved"

	// maxHistory caps the recent-query list.
	maxHistory = 50
)

// ErrNoSavedSearch is returned when a saved-search name does not resolve.
var ErrNoSavedSearch = errors.New("no saved search with that name")

// Result is one search hit with presentation fields filled in.
type Result struct {
	Page         store.Page `json:"page"`
	Snippet      string     `json:"snippet"`
	MatchedTerms []string   `json:"matched_terms,omitempty"`
}

// SavedSearch is a named, reusable query.
type SavedSearch struct {
	Name       string    `json:"name"`
	Query      string    `json:"query"`
	NotebookID string    `json:"notebook_id,omitempty"`
	Tag        string    `json:"tag,omitempty"`
	SavedAt    time.Time `json:"saved_at"`
}

// Service runs searches and manages history and saved searches.
type Service struct {
	store *store.SQLiteStore
	kv    *kv.Store
}

// New creates a search service. The kv store may be nil, in which case
// history and saved searches are disabled and Search still works.
func New(s *store.SQLiteStore, k *kv.Store) *Service {
	return &Service{store: s, kv: k}
}

// Search runs a lexical search and decorates each hit with a snippet
// around the first match and the query terms that occur in the page.
// Non-empty queries are appended to the history.
func (s *Service) Search(ctx context.Context, query string, opts store.SearchOptions) ([]Result, error) {
	pages, err := s.store.SearchPages(ctx, query, opts)
	log.Event("search:query", "search").Detail("query", query).Detail("hits", len(pages)).Write(err)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(pages))
	for i, p := range pages {
		results[i] = Result{
			Page:         p,
			Snippet:      ai.Snippet(p.Content, query),
			MatchedTerms: ai.MatchedTerms(p.Title+" "+p.Content, query),
		}
	}

	if query != "" {
		s.recordHistory(ctx, query)
	}
	return results, nil
}

// History returns recent queries, newest first.
func (s *Service) History(ctx context.Context) ([]string, error) {
	if s.kv == nil {
		return nil, nil
	}
	var history []string
	if err := s.kv.Get(ctx, historyKey, &history); err != nil {
		if errors.Is(err, kv.ErrNoValue) {
			return nil, nil
		}
		return nil, err
	}
	return history, nil
}

// ClearHistory forgets all recent queries.
func (s *Service) ClearHistory(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	return s.kv.Delete(ctx, historyKey)
}

// Save stores a named search, replacing any previous one with the same
// name.
func (s *Service) Save(ctx context.Context, saved SavedSearch) error {
	if s.kv == nil {
		return errors.New("saved searches require a workspace")
	}
	saved.SavedAt = time.Now().UTC()

	list, err := s.Saved(ctx)
	if err != nil {
		return err
	}
	out := list[:0]
	for _, ss := range list {
		if ss.Name != saved.Name {
			out = append(out, ss)
		}
	}
	out = append(out, saved)
	return s.kv.Set(ctx, savedKey, out)
}

// Saved lists all saved searches in save order.
func (s *Service) Saved(ctx context.Context) ([]SavedSearch, error) {
	if s.kv == nil {
		return nil, nil
	}
	var list []SavedSearch
	if err := s.kv.Get(ctx, savedKey, &list); err != nil {
		if errors.Is(err, kv.ErrNoValue) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

// RunSaved executes the saved search with the given name.
func (s *Service) RunSaved(ctx context.Context, name string) ([]Result, error) {
	list, err := s.Saved(ctx)
	if err != nil {
		return nil, err
	}
	for _, ss := range list {
		if ss.Name == name {
			return s.Search(ctx, ss.Query, store.SearchOptions{
				NotebookID: ss.NotebookID,
				Tag:        ss.Tag,
			})
		}
	}
	return nil, ErrNoSavedSearch
}

// DeleteSaved removes a saved search by name; unknown names are a no-op.
func (s *Service) DeleteSaved(ctx context.Context, name string) error {
	list, err := s.Saved(ctx)
	if err != nil || len(list) == 0 {
		return err
	}
	out := list[:0]
	for _, ss := range list {
		if ss.Name != name {
			out = append(out, ss)
		}
	}
	return s.kv.Set(ctx, savedKey, out)
}

// recordHistory prepends query to the history, dropping any earlier
// occurrence and trimming to maxHistory. Failures are logged, not
// surfaced: history is a convenience, never a reason to fail a search.
func (s *Service) recordHistory(ctx context.Context, query string) {
	if s.kv == nil {
		return
	}
	history, err := s.History(ctx)
	if err != nil {
		log.Event("search:history", "persist").Write(err)
		return
	}
	next := make([]string, 0, len(history)+1)
	next = append(next, query)
	for _, q := range history {
		if q != query {
			next = append(next, q)
		}
	}
	if len(next) > maxHistory {
		next = next[:maxHistory]
	}
	if err := s.kv.Set(ctx, historyKey, next); err != nil {
		log.Event("search:history", "persist").Write(err)
	}
}
