// hierarchy.go builds the ordered tree snapshot of a notebook.
//
// The store keeps pages flat; this file reconstructs the nested view by
// grouping children by parent and sorting each level by order_index
// (arena + index pattern). The snapshot is a pure projection: mutating it
// never touches stored state.

package store

import (
	"context"
	"fmt"
	"sort"
)

// PageTree is a page with its ordered sub-pages.
type PageTree struct {
	Page     Page       `json:"page"`
	Children []PageTree `json:"children,omitempty"`
}

// SectionTree is a section with its ordered top-level pages.
type SectionTree struct {
	Section Section    `json:"section"`
	Pages   []PageTree `json:"pages,omitempty"`
}

// NotebookTree is the full ordered snapshot of a notebook: its sections
// (each with their pages and sub-page trees) plus the pages that sit
// directly under the notebook without a section.
type NotebookTree struct {
	Notebook Notebook      `json:"notebook"`
	Sections []SectionTree `json:"sections,omitempty"`
	Pages    []PageTree    `json:"pages,omitempty"` // sectionless root pages
}

// GetHierarchy returns the ordered tree snapshot of a notebook in a single
// read. Fails with ErrNotFound when the notebook does not resolve.
func (s *SQLiteStore) GetHierarchy(ctx context.Context, notebookID string) (*NotebookTree, error) {
	n, err := s.GetNotebook(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	sections, err := s.ListSections(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	pages, err := s.ListPages(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	return buildTree(*n, sections, pages), nil
}

// buildTree assembles the nested snapshot from flat rows.
func buildTree(n Notebook, sections []Section, pages []Page) *NotebookTree {
	// Index children by parent page id; roots by section (or "" for none).
	children := make(map[string][]Page)
	rootsBySection := make(map[string][]Page)
	for _, p := range pages {
		if p.ParentPageID != nil {
			children[*p.ParentPageID] = append(children[*p.ParentPageID], p)
			continue
		}
		key := ""
		if p.SectionID != nil {
			key = *p.SectionID
		}
		rootsBySection[key] = append(rootsBySection[key], p)
	}

	var subtree func(p Page) PageTree
	subtree = func(p Page) PageTree {
		kids := children[p.ID]
		sortByOrder(kids)
		t := PageTree{Page: p}
		for _, k := range kids {
			t.Children = append(t.Children, subtree(k))
		}
		return t
	}

	forest := func(roots []Page) []PageTree {
		sortByOrder(roots)
		var out []PageTree
		for _, r := range roots {
			out = append(out, subtree(r))
		}
		return out
	}

	tree := &NotebookTree{Notebook: n}
	for _, sec := range sections {
		tree.Sections = append(tree.Sections, SectionTree{
			Section: sec,
			Pages:   forest(rootsBySection[sec.ID]),
		})
	}
	tree.Pages = forest(rootsBySection[""])
	return tree
}

func sortByOrder(pages []Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].OrderIndex < pages[j].OrderIndex
	})
}

// AncestorChain returns the ids from the page's parent up to its root,
// for breadcrumb display. The chain always terminates: the parent
// relation is kept acyclic by CreatePage/MovePage.
func (s *SQLiteStore) AncestorChain(ctx context.Context, pageID string) ([]string, error) {
	var chain []string
	current := pageID
	for {
		p, err := s.GetPage(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("ancestor chain of %s: %w", pageID, err)
		}
		if p.ParentPageID == nil {
			return chain, nil
		}
		chain = append(chain, *p.ParentPageID)
		current = *p.ParentPageID
	}
}
