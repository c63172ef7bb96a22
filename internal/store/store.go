// Package store defines hierarchy persistence types and the SQLite-backed
// durable store. The store is the sole source of truth for notebooks,
// sections, pages and page links; services keep only derived in-memory
// indexes on top of it.
package store

import (
	"encoding/json"
	"time"
)

// Notebook is a top-level container for a knowledge domain.
type Notebook struct {
	ID          string // UUID
	Title       string
	Description string // optional, empty when unset
	Color       string // display colour, #RRGGBB
	OrderIndex  int    // position among notebooks, contiguous from 0
	CreatedAt   int64  // Unix timestamp of creation
	UpdatedAt   int64  // Unix timestamp of last mutation
}

// Section is a named grouping of pages within a notebook.
type Section struct {
	ID         string
	NotebookID string
	Title      string
	Color      string
	OrderIndex int // position among the notebook's sections
	CreatedAt  int64
	UpdatedAt  int64
}

// Page is a content-bearing node. It belongs to exactly one notebook,
// optionally to one section, and optionally to a parent page (sub-pages).
// The parent relation is a forest within the notebook: no page is its own
// ancestor.
type Page struct {
	ID           string
	NotebookID   string
	SectionID    *string // nil when the page sits directly under the notebook
	ParentPageID *string // nil for top-level pages
	Title        string
	Content      string   // opaque text blob; rendering is someone else's job
	Tags         []string // normalised, duplicate-free
	OrderIndex   int      // position among siblings (same section/parent scope)
	CreatedAt    int64
	UpdatedAt    int64
}

// LinkType categorises a page link.
type LinkType string

const (
	LinkManual    LinkType = "manual"
	LinkAuto      LinkType = "auto"
	LinkReference LinkType = "reference"
	LinkRelated   LinkType = "related"
)

// Valid reports whether t is a known link type.
func (t LinkType) Valid() bool {
	switch t {
	case LinkManual, LinkAuto, LinkReference, LinkRelated:
		return true
	}
	return false
}

// PageLink is a directed, typed edge between two pages. Parallel edges
// with identical (source, target, text) are permitted; each carries its
// own id. Self-links are rejected at validation.
type PageLink struct {
	ID        string
	SourceID  string
	TargetID  string
	Text      string // display text for the link
	Type      LinkType
	CreatedAt int64
	rowOrder  int64 // rowid, insertion-order tiebreak for equal timestamps
}

// RowOrder exposes the insertion sequence for deterministic ordering when
// created_at timestamps collide (second granularity).
func (l *PageLink) RowOrder() int64 { return l.rowOrder }

// NotebookJSON is the API-friendly representation of a Notebook with
// RFC3339 timestamps.
type NotebookJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	OrderIndex  int    `json:"order_index"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ToJSON converts a Notebook to its API representation.
func (n *Notebook) ToJSON() NotebookJSON {
	return NotebookJSON{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Color:       n.Color,
		OrderIndex:  n.OrderIndex,
		CreatedAt:   stamp(n.CreatedAt),
		UpdatedAt:   stamp(n.UpdatedAt),
	}
}

// SectionJSON is the API-friendly representation of a Section.
type SectionJSON struct {
	ID         string `json:"id"`
	NotebookID string `json:"notebook_id"`
	Title      string `json:"title"`
	Color      string `json:"color"`
	OrderIndex int    `json:"order_index"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ToJSON converts a Section to its API representation.
func (s *Section) ToJSON() SectionJSON {
	return SectionJSON{
		ID:         s.ID,
		NotebookID: s.NotebookID,
		Title:      s.Title,
		Color:      s.Color,
		OrderIndex: s.OrderIndex,
		CreatedAt:  stamp(s.CreatedAt),
		UpdatedAt:  stamp(s.UpdatedAt),
	}
}

// PageJSON is the API-friendly representation of a Page. Content can be
// omitted for listings where it isn't needed.
type PageJSON struct {
	ID           string   `json:"id"`
	NotebookID   string   `json:"notebook_id"`
	SectionID    string   `json:"section_id,omitempty"`
	ParentPageID string   `json:"parent_page_id,omitempty"`
	Title        string   `json:"title"`
	Content      string   `json:"content,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	OrderIndex   int      `json:"order_index"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ToJSON converts a Page to its API representation. The content parameter
// controls whether page content is included, allowing efficient listings.
func (p *Page) ToJSON(content bool) PageJSON {
	j := PageJSON{
		ID:         p.ID,
		NotebookID: p.NotebookID,
		Title:      p.Title,
		Tags:       p.Tags,
		OrderIndex: p.OrderIndex,
		CreatedAt:  stamp(p.CreatedAt),
		UpdatedAt:  stamp(p.UpdatedAt),
	}
	if p.SectionID != nil {
		j.SectionID = *p.SectionID
	}
	if p.ParentPageID != nil {
		j.ParentPageID = *p.ParentPageID
	}
	if content {
		j.Content = p.Content
	}
	return j
}

// LinkJSON is the API-friendly representation of a PageLink.
type LinkJSON struct {
	ID        string `json:"id"`
	SourceID  string `json:"source_page_id"`
	TargetID  string `json:"target_page_id"`
	Text      string `json:"link_text,omitempty"`
	Type      string `json:"link_type"`
	CreatedAt string `json:"created_at"`
}

// ToJSON converts a PageLink to its API representation.
func (l *PageLink) ToJSON() LinkJSON {
	return LinkJSON{
		ID:        l.ID,
		SourceID:  l.SourceID,
		TargetID:  l.TargetID,
		Text:      l.Text,
		Type:      string(l.Type),
		CreatedAt: stamp(l.CreatedAt),
	}
}

func stamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// MarshalJSON encodes a value with indentation for human-readable CLI
// and MCP output. Use this instead of json.Marshal when the output will
// be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// NotebookUpdate carries optional field updates for a notebook. Nil fields
// are left unchanged.
type NotebookUpdate struct {
	Title       *string
	Description *string
	Color       *string
}

// SectionUpdate carries optional field updates for a section.
type SectionUpdate struct {
	Title *string
	Color *string
}

// PageUpdate carries optional field updates for a page.
type PageUpdate struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// CreatePageParams collects the inputs for page creation. SectionID and
// ParentPageID are optional; when ParentPageID is set the page becomes a
// sub-page and its sibling scope is the parent's children.
type CreatePageParams struct {
	NotebookID   string
	SectionID    *string
	ParentPageID *string
	Title        string
	Content      string
	Tags         []string
}

// Stats provides aggregate store statistics for operational visibility.
type Stats struct {
	Notebooks      int64 `json:"notebooks"`
	Sections       int64 `json:"sections"`
	Pages          int64 `json:"pages"`
	SubPages       int64 `json:"sub_pages"`
	Links          int64 `json:"links"`
	OldestNotebook int64 `json:"oldest_notebook,omitempty"` // Unix timestamp, 0 if none
	NewestPage     int64 `json:"newest_page,omitempty"`     // Unix timestamp of latest page write
}
