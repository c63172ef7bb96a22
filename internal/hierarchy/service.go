// Package hierarchy provides the containment-tree operations over the
// durable store: notebook/section/page CRUD, cascade deletion, sibling
// ordering and the ordered tree snapshot. It validates input at its entry
// points, maps store-level containment failures onto the error taxonomy,
// and publishes change events for the link graph, the session manager and
// any presentation layer.
package hierarchy

import (
	"context"
	"fmt"

	"github.com/jpl-au/devise/internal/event"
	"github.com/jpl-au/devise/internal/log"
	"github.com/jpl-au/devise/internal/store"
	"github.com/jpl-au/devise/internal/validate"
)

// DefaultColor is applied when a notebook or section is created without
// an explicit colour.
const DefaultColor = "#3B82F6"

// Limits caps entity sizes. Zero values disable the corresponding check.
type Limits struct {
	MaxTitle   int
	MaxContent int64
}

// Service owns the containment tree. All mutation of notebooks, sections
// and pages goes through it; other components read via its operations and
// react to its events.
type Service struct {
	store  *store.SQLiteStore
	bus    *event.Bus
	limits Limits
}

// New creates a hierarchy service over the given store. bus may be nil
// for callers that don't need change notifications (tests, one-shot
// commands).
func New(s *store.SQLiteStore, bus *event.Bus, limits Limits) *Service {
	return &Service{store: s, bus: bus, limits: limits}
}

// --- Notebooks ---

// CreateNotebook creates a notebook at the end of the notebook list.
func (s *Service) CreateNotebook(ctx context.Context, title, description, color string) (*store.Notebook, error) {
	title, err := validate.Title(title, s.limits.MaxTitle)
	if err != nil {
		return nil, err
	}
	color, err = normalColor(color)
	if err != nil {
		return nil, err
	}
	n, err := s.store.CreateNotebook(ctx, title, description, color)
	log.Event("hierarchy:create_notebook", "create").Entity("notebook", idOf(n)).Write(err)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(event.NotebookEvent{NotebookID: n.ID, Title: n.Title, Created: true})
	return n, nil
}

// GetNotebook returns a notebook by id.
func (s *Service) GetNotebook(ctx context.Context, id string) (*store.Notebook, error) {
	return s.store.GetNotebook(ctx, id)
}

// ListNotebooks returns all notebooks in display order.
func (s *Service) ListNotebooks(ctx context.Context) ([]store.Notebook, error) {
	return s.store.ListNotebooks(ctx)
}

// UpdateNotebook applies the non-nil fields of upd.
func (s *Service) UpdateNotebook(ctx context.Context, id string, upd store.NotebookUpdate) (*store.Notebook, error) {
	if err := s.validateUpdate(upd.Title, upd.Color); err != nil {
		return nil, err
	}
	n, err := s.store.UpdateNotebook(ctx, id, upd)
	log.Event("hierarchy:update_notebook", "update").Entity("notebook", id).Write(err)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(event.NotebookEvent{NotebookID: n.ID, Title: n.Title})
	return n, nil
}

// DeleteNotebook removes a notebook and everything it contains: sections,
// pages with their sub-page subtrees, and every link whose source or
// target was deleted. Deleting an absent id is a no-op success.
func (s *Service) DeleteNotebook(ctx context.Context, id string) error {
	pageIDs, err := s.store.DeleteNotebook(ctx, id)
	log.Event("hierarchy:delete_notebook", "delete").Entity("notebook", id).
		Detail("pages", len(pageIDs)).Write(err)
	if err != nil {
		return err
	}
	s.bus.Publish(event.NotebookDeletedEvent{NotebookID: id, PageIDs: pageIDs})
	if len(pageIDs) > 0 {
		s.bus.Publish(event.PagesDeletedEvent{PageIDs: pageIDs})
	}
	return nil
}

// --- Sections ---

// CreateSection creates a section at the end of the notebook's sections.
func (s *Service) CreateSection(ctx context.Context, notebookID, title, color string) (*store.Section, error) {
	title, err := validate.Title(title, s.limits.MaxTitle)
	if err != nil {
		return nil, err
	}
	color, err = normalColor(color)
	if err != nil {
		return nil, err
	}
	sec, err := s.store.CreateSection(ctx, notebookID, title, color)
	log.Event("hierarchy:create_section", "create").Entity("section", idOfSec(sec)).Detail("notebook", notebookID).Write(err)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(event.SectionEvent{SectionID: sec.ID, NotebookID: sec.NotebookID, Title: sec.Title, Created: true})
	return sec, nil
}

// GetSection returns a section by id.
func (s *Service) GetSection(ctx context.Context, id string) (*store.Section, error) {
	return s.store.GetSection(ctx, id)
}

// UpdateSection applies the non-nil fields of upd.
func (s *Service) UpdateSection(ctx context.Context, id string, upd store.SectionUpdate) (*store.Section, error) {
	if err := s.validateUpdate(upd.Title, upd.Color); err != nil {
		return nil, err
	}
	sec, err := s.store.UpdateSection(ctx, id, upd)
	log.Event("hierarchy:update_section", "update").Entity("section", id).Write(err)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(event.SectionEvent{SectionID: sec.ID, NotebookID: sec.NotebookID, Title: sec.Title})
	return sec, nil
}

// DeleteSection removes a section, its pages and their subtrees.
// Deleting an absent id is a no-op success.
func (s *Service) DeleteSection(ctx context.Context, id string) error {
	pageIDs, err := s.store.DeleteSection(ctx, id)
	log.Event("hierarchy:delete_section", "delete").Entity("section", id).
		Detail("pages", len(pageIDs)).Write(err)
	if err != nil {
		return err
	}
	s.bus.Publish(event.SectionDeletedEvent{SectionID: id, PageIDs: pageIDs})
	if len(pageIDs) > 0 {
		s.bus.Publish(event.PagesDeletedEvent{PageIDs: pageIDs})
	}
	return nil
}

// --- Pages ---

// CreatePage creates a page at the end of its sibling scope. Fails with
// ErrNotFound when the notebook does not resolve and ErrInvalidHierarchy
// when the section or parent page lies outside the notebook.
func (s *Service) CreatePage(ctx context.Context, params store.CreatePageParams) (*store.Page, error) {
	var err error
	params.Title, err = validate.Title(params.Title, s.limits.MaxTitle)
	if err != nil {
		return nil, err
	}
	if err := validate.Content(params.Content, s.limits.MaxContent); err != nil {
		return nil, err
	}
	params.Tags, err = validate.Tags(params.Tags)
	if err != nil {
		return nil, err
	}

	p, err := s.store.CreatePage(ctx, params)
	log.Event("hierarchy:create_page", "create").Entity("page", idOfPage(p)).Detail("notebook", params.NotebookID).Write(err)
	if err != nil {
		return nil, mapContainment(err)
	}
	s.bus.Publish(event.PageEvent{PageID: p.ID, NotebookID: p.NotebookID, Title: p.Title, Created: true})
	return p, nil
}

// GetPage returns a page by id.
func (s *Service) GetPage(ctx context.Context, id string) (*store.Page, error) {
	return s.store.GetPage(ctx, id)
}

// PageExists reports whether a page id resolves. The session manager uses
// this to validate tab bindings during restore.
func (s *Service) PageExists(ctx context.Context, id string) (bool, error) {
	return s.store.PageExists(ctx, id)
}

// UpdatePage applies the non-nil fields of upd and bumps updated_at. A
// title change reaches open tabs through the published event.
func (s *Service) UpdatePage(ctx context.Context, id string, upd store.PageUpdate) (*store.Page, error) {
	if upd.Title != nil {
		t, err := validate.Title(*upd.Title, s.limits.MaxTitle)
		if err != nil {
			return nil, err
		}
		upd.Title = &t
	}
	if upd.Content != nil {
		if err := validate.Content(*upd.Content, s.limits.MaxContent); err != nil {
			return nil, err
		}
	}
	if upd.Tags != nil {
		tags, err := validate.Tags(*upd.Tags)
		if err != nil {
			return nil, err
		}
		upd.Tags = &tags
	}

	p, err := s.store.UpdatePage(ctx, id, upd)
	log.Event("hierarchy:update_page", "update").Entity("page", id).Write(err)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(event.PageEvent{PageID: p.ID, NotebookID: p.NotebookID, Title: p.Title})
	return p, nil
}

// MovePage rehomes a page to a new section and/or parent within its
// notebook. Fails with ErrInvalidHierarchy when the destination lies
// outside the notebook or would make the page its own ancestor.
func (s *Service) MovePage(ctx context.Context, id string, sectionID, parentPageID *string) (*store.Page, error) {
	p, err := s.store.MovePage(ctx, id, sectionID, parentPageID)
	log.Event("hierarchy:move_page", "move").Entity("page", id).Write(err)
	if err != nil {
		return nil, mapContainment(err)
	}
	s.bus.Publish(event.PageEvent{PageID: p.ID, NotebookID: p.NotebookID, Title: p.Title})
	return p, nil
}

// DeletePage removes a page, its descendant sub-pages and every link
// referencing them. Deleting an absent id is a no-op success.
func (s *Service) DeletePage(ctx context.Context, id string) error {
	pageIDs, err := s.store.DeletePage(ctx, id)
	log.Event("hierarchy:delete_page", "delete").Entity("page", id).
		Detail("cascade", len(pageIDs)).Write(err)
	if err != nil {
		return err
	}
	if len(pageIDs) > 0 {
		s.bus.Publish(event.PagesDeletedEvent{PageIDs: pageIDs})
	}
	return nil
}

// --- Tree and ordering ---

// GetHierarchy returns the ordered tree snapshot of a notebook in a
// single read. The snapshot is a projection: mutating it does not affect
// stored state.
func (s *Service) GetHierarchy(ctx context.Context, notebookID string) (*store.NotebookTree, error) {
	return s.store.GetHierarchy(ctx, notebookID)
}

// Kind names an entity kind for Reorder.
type Kind string

const (
	KindNotebook Kind = "notebook"
	KindSection  Kind = "section"
	KindPage     Kind = "page"
)

// Reorder moves an entity to newIndex within its sibling scope, shifting
// the siblings strictly between the old and new position by one. Indices
// stay contiguous, so ties are impossible.
func (s *Service) Reorder(ctx context.Context, kind Kind, id string, newIndex int) error {
	var err error
	switch kind {
	case KindNotebook:
		err = s.store.ReorderNotebook(ctx, id, newIndex)
	case KindSection:
		err = s.store.ReorderSection(ctx, id, newIndex)
	case KindPage:
		err = s.store.ReorderPage(ctx, id, newIndex)
	default:
		err = fmt.Errorf("unknown entity kind %q", kind)
	}
	log.Event("hierarchy:reorder", "reorder").Entity(string(kind), id).
		Detail("index", newIndex).Write(err)
	if err != nil {
		return err
	}
	s.bus.Publish(event.ReorderEvent{Kind: string(kind), ID: id, NewIndex: newIndex})
	return nil
}

// --- helpers ---

// validateUpdate checks the optional title/color fields shared by
// notebook and section updates, normalising them in place.
func (s *Service) validateUpdate(title, color *string) error {
	if title != nil {
		t, err := validate.Title(*title, s.limits.MaxTitle)
		if err != nil {
			return err
		}
		*title = t
	}
	if color != nil {
		c, err := validate.Color(*color)
		if err != nil {
			return err
		}
		if c == "" {
			c = DefaultColor
		}
		*color = c
	}
	return nil
}

// normalColor validates a colour and applies the default when empty.
func normalColor(c string) (string, error) {
	c, err := validate.Color(c)
	if err != nil {
		return "", err
	}
	if c == "" {
		return DefaultColor, nil
	}
	return c, nil
}

// mapContainment converts store containment/cycle failures onto
// validate.ErrInvalidHierarchy, keeping the store decoupled from the
// service-level taxonomy.
func mapContainment(err error) error {
	if store.ErrOutsideNotebook(err) || store.ErrInvalidParent(err) {
		return fmt.Errorf("%w: %v", validate.ErrInvalidHierarchy, err)
	}
	return err
}

// idOf returns the id of a possibly-nil notebook for audit logging.
func idOf(n *store.Notebook) string {
	if n == nil {
		return ""
	}
	return n.ID
}

func idOfSec(sec *store.Section) string {
	if sec == nil {
		return ""
	}
	return sec.ID
}

func idOfPage(p *store.Page) string {
	if p == nil {
		return ""
	}
	return p.ID
}
