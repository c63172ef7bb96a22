package hierarchy_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/devise/internal/event"
	"github.com/jpl-au/devise/internal/hierarchy"
	"github.com/jpl-au/devise/internal/store"
	"github.com/jpl-au/devise/internal/validate"
)

// setupService creates a hierarchy service over a temporary store with a
// bus, recording every published event. Returns the service, the event
// slice pointer and a cleanup function.
func setupService(t *testing.T) (*hierarchy.Service, *[]event.Event, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "devise-hierarchy-test-*")
	require.NoError(t, err)

	s, err := store.Open(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Init())

	bus := event.NewBus()
	var events []event.Event
	bus.Subscribe(func(e event.Event) { events = append(events, e) })

	svc := hierarchy.New(s, bus, hierarchy.Limits{MaxTitle: 200, MaxContent: 1 << 20})

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return svc, &events, cleanup
}

func eventsOfType(events []event.Event, typ event.Type) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.EventType() == typ {
			out = append(out, e)
		}
	}
	return out
}

// --- Validation ---

func TestService_CreateNotebookValidates(t *testing.T) {
	svc, _, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.CreateNotebook(ctx, "   ", "", "")
	assert.ErrorIs(t, err, validate.ErrInvalidTitle)

	_, err = svc.CreateNotebook(ctx, "NB", "", "not-a-color")
	assert.ErrorIs(t, err, validate.ErrInvalidColor)

	n, err := svc.CreateNotebook(ctx, "  Trimmed  ", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", n.Title)
	assert.Equal(t, hierarchy.DefaultColor, n.Color)
}

func TestService_CreatePageValidatesTags(t *testing.T) {
	svc, _, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	n, err := svc.CreateNotebook(ctx, "NB", "", "")
	require.NoError(t, err)

	_, err = svc.CreatePage(ctx, store.CreatePageParams{
		NotebookID: n.ID, Title: "p", Tags: []string{"bad tag"},
	})
	assert.ErrorIs(t, err, validate.ErrInvalidTag)

	p, err := svc.CreatePage(ctx, store.CreatePageParams{
		NotebookID: n.ID, Title: "p", Tags: []string{"Work", "work", "ideas"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "ideas"}, p.Tags)
}

func TestService_ContainmentMapsToInvalidHierarchy(t *testing.T) {
	svc, _, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	n1, err := svc.CreateNotebook(ctx, "NB1", "", "")
	require.NoError(t, err)
	n2, err := svc.CreateNotebook(ctx, "NB2", "", "")
	require.NoError(t, err)

	sec, err := svc.CreateSection(ctx, n1.ID, "S", "")
	require.NoError(t, err)

	// Section from another notebook
	_, err = svc.CreatePage(ctx, store.CreatePageParams{
		NotebookID: n2.ID, SectionID: &sec.ID, Title: "stray",
	})
	assert.ErrorIs(t, err, validate.ErrInvalidHierarchy)

	// Cycle via move
	a, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n1.ID, Title: "a"})
	require.NoError(t, err)
	b, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n1.ID, ParentPageID: &a.ID, Title: "b"})
	require.NoError(t, err)

	_, err = svc.MovePage(ctx, a.ID, nil, &b.ID)
	assert.ErrorIs(t, err, validate.ErrInvalidHierarchy)
}

// --- Events ---

func TestService_DeleteNotebookPublishesCascade(t *testing.T) {
	svc, events, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	n, err := svc.CreateNotebook(ctx, "NB", "", "")
	require.NoError(t, err)
	a, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n.ID, Title: "a"})
	require.NoError(t, err)
	b, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n.ID, ParentPageID: &a.ID, Title: "b"})
	require.NoError(t, err)

	*events = nil
	require.NoError(t, svc.DeleteNotebook(ctx, n.ID))

	deleted := eventsOfType(*events, event.TypeNotebookDeleted)
	require.Len(t, deleted, 1)
	nd := deleted[0].(event.NotebookDeletedEvent)
	assert.Equal(t, n.ID, nd.NotebookID)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, nd.PageIDs)

	pages := eventsOfType(*events, event.TypePagesDeleted)
	require.Len(t, pages, 1)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, pages[0].(event.PagesDeletedEvent).PageIDs)
}

func TestService_DeletePageWithoutCascadeStillPublishes(t *testing.T) {
	svc, events, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	n, err := svc.CreateNotebook(ctx, "NB", "", "")
	require.NoError(t, err)
	p, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n.ID, Title: "p"})
	require.NoError(t, err)

	*events = nil
	require.NoError(t, svc.DeletePage(ctx, p.ID))

	pages := eventsOfType(*events, event.TypePagesDeleted)
	require.Len(t, pages, 1)
	assert.Equal(t, []string{p.ID}, pages[0].(event.PagesDeletedEvent).PageIDs)

	// Absent id: no-op, no event
	*events = nil
	require.NoError(t, svc.DeletePage(ctx, p.ID))
	assert.Empty(t, eventsOfType(*events, event.TypePagesDeleted))
}

func TestService_UpdatePagePublishesTitle(t *testing.T) {
	svc, events, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	n, err := svc.CreateNotebook(ctx, "NB", "", "")
	require.NoError(t, err)
	p, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n.ID, Title: "old"})
	require.NoError(t, err)

	*events = nil
	title := "new"
	_, err = svc.UpdatePage(ctx, p.ID, store.PageUpdate{Title: &title})
	require.NoError(t, err)

	updated := eventsOfType(*events, event.TypePageUpdated)
	require.Len(t, updated, 1)
	pe := updated[0].(event.PageEvent)
	assert.Equal(t, p.ID, pe.PageID)
	assert.Equal(t, "new", pe.Title)
}

// --- Reorder ---

func TestService_Reorder(t *testing.T) {
	svc, events, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	n, err := svc.CreateNotebook(ctx, "NB", "", "")
	require.NoError(t, err)
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		p, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n.ID, Title: title})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	*events = nil
	require.NoError(t, svc.Reorder(ctx, hierarchy.KindPage, ids[2], 0))

	tree, err := svc.GetHierarchy(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, tree.Pages, 3)
	assert.Equal(t, ids[2], tree.Pages[0].Page.ID)
	assert.Equal(t, ids[0], tree.Pages[1].Page.ID)
	assert.Equal(t, ids[1], tree.Pages[2].Page.ID)

	require.Len(t, eventsOfType(*events, event.TypeHierarchyMoved), 1)

	err = svc.Reorder(ctx, hierarchy.Kind("widget"), ids[0], 0)
	assert.Error(t, err)
}

// --- End to end ---

func TestService_ProjectScenario(t *testing.T) {
	svc, _, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	n, err := svc.CreateNotebook(ctx, "Projects", "", "")
	require.NoError(t, err)
	sec, err := svc.CreateSection(ctx, n.ID, "Q3", "")
	require.NoError(t, err)
	plan, err := svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n.ID, SectionID: &sec.ID, Title: "Plan"})
	require.NoError(t, err)
	_, err = svc.CreatePage(ctx, store.CreatePageParams{NotebookID: n.ID, ParentPageID: &plan.ID, Title: "Budget"})
	require.NoError(t, err)

	tree, err := svc.GetHierarchy(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, tree.Sections, 1)
	require.Len(t, tree.Sections[0].Pages, 1)
	assert.Equal(t, "Plan", tree.Sections[0].Pages[0].Page.Title)
	require.Len(t, tree.Sections[0].Pages[0].Children, 1)
	assert.Equal(t, "Budget", tree.Sections[0].Pages[0].Children[0].Page.Title)
}
