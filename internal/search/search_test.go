package search_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/devise/internal/kv"
	"github.com/jpl-au/devise/internal/search"
	"github.com/jpl-au/devise/internal/store"
)

// setupSearch creates a search service over temporary durable and kv
// stores, with one notebook of pages to search.
func setupSearch(t *testing.T) (*search.Service, string, func()) {
	t.Helper()
	ctx := context.Background()

	tmpDir, err := os.MkdirTemp("", "devise-search-test-*")
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())

	k, err := kv.Open(filepath.Join(tmpDir, "workspace.db"))
	require.NoError(t, err)

	n, err := s.CreateNotebook(ctx, "NB", "", "")
	require.NoError(t, err)
	pages := []store.CreatePageParams{
		{NotebookID: n.ID, Title: "Release checklist", Content: "verify the deployment pipeline before release"},
		{NotebookID: n.ID, Title: "Retro notes", Content: "the deployment was smooth", Tags: []string{"work"}},
		{NotebookID: n.ID, Title: "Groceries", Content: "eggs and bread"},
	}
	for _, p := range pages {
		_, err := s.CreatePage(ctx, p)
		require.NoError(t, err)
	}

	cleanup := func() {
		k.Close()
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return search.New(s, k), n.ID, cleanup
}

func TestSearch_DecoratesResults(t *testing.T) {
	svc, _, cleanup := setupSearch(t)
	defer cleanup()

	results, err := svc.Search(context.Background(), "deployment", store.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.Contains(t, r.Snippet, "deployment")
		assert.Equal(t, []string{"deployment"}, r.MatchedTerms)
	}
}

func TestSearch_FilterOptions(t *testing.T) {
	svc, notebookID, cleanup := setupSearch(t)
	defer cleanup()
	ctx := context.Background()

	results, err := svc.Search(ctx, "deployment", store.SearchOptions{Tag: "work"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Retro notes", results[0].Page.Title)

	results, err = svc.Search(ctx, "deployment", store.SearchOptions{NotebookID: notebookID, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = svc.Search(ctx, "nonexistent", store.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_HistoryDedupesAndOrders(t *testing.T) {
	svc, _, cleanup := setupSearch(t)
	defer cleanup()
	ctx := context.Background()

	for _, q := range []string{"first", "second", "first"} {
		_, err := svc.Search(ctx, q, store.SearchOptions{})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, history)

	// Empty queries are never recorded
	_, err = svc.Search(ctx, "", store.SearchOptions{})
	require.NoError(t, err)
	history, err = svc.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, history)

	require.NoError(t, svc.ClearHistory(ctx))
	history, err = svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSearch_HistoryCapped(t *testing.T) {
	svc, _, cleanup := setupSearch(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 55; i++ {
		_, err := svc.Search(ctx, fmt.Sprintf("query-%d", i), store.SearchOptions{})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 50)
	assert.Equal(t, "query-54", history[0])
	assert.Equal(t, "query-5", history[49])
}

func TestSearch_SavedSearches(t *testing.T) {
	svc, _, cleanup := setupSearch(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, search.SavedSearch{Name: "deploys", Query: "deployment"}))
	require.NoError(t, svc.Save(ctx, search.SavedSearch{Name: "food", Query: "eggs"}))

	results, err := svc.RunSaved(ctx, "deploys")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Saving under the same name replaces the query
	require.NoError(t, svc.Save(ctx, search.SavedSearch{Name: "deploys", Query: "eggs"}))
	list, err := svc.Saved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	results, err = svc.RunSaved(ctx, "deploys")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Groceries", results[0].Page.Title)

	_, err = svc.RunSaved(ctx, "unknown")
	assert.ErrorIs(t, err, search.ErrNoSavedSearch)

	require.NoError(t, svc.DeleteSaved(ctx, "deploys"))
	list, err = svc.Saved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "food", list[0].Name)
}

func TestSearch_WithoutWorkspaceKV(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "devise-search-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)
	ctx := context.Background()

	s, err := store.Open(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Init())

	svc := search.New(s, nil)
	_, err = svc.Search(ctx, "anything", store.SearchOptions{})
	require.NoError(t, err)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.Error(t, svc.Save(ctx, search.SavedSearch{Name: "x", Query: "y"}))
}
