// Package event defines the change notifications the core components
// publish and the bus that delivers them.
//
// Design: Events are fire-and-forget notifications, not approval requests.
// Subscribers cannot block or veto operations - they observe after the
// fact. The core holds canonical state; any presentation layer subscribes
// to re-render without the core knowing it exists. The link graph and the
// session manager also subscribe, to prune their in-memory state when
// pages disappear or get renamed.

package event

// Type identifies the kind of event.
type Type string

const (
	TypeNotebookCreated Type = "notebook:created"
	TypeNotebookUpdated Type = "notebook:updated"
	TypeNotebookDeleted Type = "notebook:deleted"
	TypeSectionCreated  Type = "section:created"
	TypeSectionUpdated  Type = "section:updated"
	TypeSectionDeleted  Type = "section:deleted"
	TypePageCreated     Type = "page:created"
	TypePageUpdated     Type = "page:updated"
	TypePagesDeleted    Type = "pages:deleted"
	TypeLinkCreated     Type = "link:created"
	TypeLinkRemoved     Type = "link:removed"
	TypeSessionChanged  Type = "session:changed"
	TypeHierarchyMoved  Type = "hierarchy:reordered"
)

// Event is the base interface for all events.
type Event interface {
	EventType() Type
}

// NotebookEvent is fired after a notebook create or update.
type NotebookEvent struct {
	NotebookID string
	Title      string
	Created    bool // true=created, false=updated
}

func (e NotebookEvent) EventType() Type {
	if e.Created {
		return TypeNotebookCreated
	}
	return TypeNotebookUpdated
}

// NotebookDeletedEvent is fired after a notebook cascade delete. PageIDs
// lists every page removed by the cascade.
type NotebookDeletedEvent struct {
	NotebookID string
	PageIDs    []string
}

func (e NotebookDeletedEvent) EventType() Type { return TypeNotebookDeleted }

// SectionEvent is fired after a section create or update.
type SectionEvent struct {
	SectionID  string
	NotebookID string
	Title      string
	Created    bool
}

func (e SectionEvent) EventType() Type {
	if e.Created {
		return TypeSectionCreated
	}
	return TypeSectionUpdated
}

// SectionDeletedEvent is fired after a section cascade delete.
type SectionDeletedEvent struct {
	SectionID  string
	NotebookID string
	PageIDs    []string
}

func (e SectionDeletedEvent) EventType() Type { return TypeSectionDeleted }

// PageEvent is fired after a page create or update. Title carries the
// page's current title so open tabs can refresh their labels without a
// store round-trip.
type PageEvent struct {
	PageID     string
	NotebookID string
	Title      string
	Created    bool
}

func (e PageEvent) EventType() Type {
	if e.Created {
		return TypePageCreated
	}
	return TypePageUpdated
}

// PagesDeletedEvent is fired after any cascade that removed pages,
// whether triggered by a page, section or notebook delete. PageIDs lists
// every removed page so subscribers can prune in one pass.
type PagesDeletedEvent struct {
	PageIDs []string
}

func (e PagesDeletedEvent) EventType() Type { return TypePagesDeleted }

// LinkEvent is fired after a link is created or removed.
type LinkEvent struct {
	LinkID   string
	SourceID string
	TargetID string
	Created  bool
}

func (e LinkEvent) EventType() Type {
	if e.Created {
		return TypeLinkCreated
	}
	return TypeLinkRemoved
}

// ReorderEvent is fired after a sibling reorder of any entity kind.
type ReorderEvent struct {
	Kind     string // "notebook", "section", "page"
	ID       string
	NewIndex int
}

func (e ReorderEvent) EventType() Type { return TypeHierarchyMoved }

// SessionChangedEvent is fired after any mutation of the open tab list.
type SessionChangedEvent struct{}

func (e SessionChangedEvent) EventType() Type { return TypeSessionChanged }
