// pages.go implements page CRUD, sub-page containment and ordering.
//
// Pages are stored flat, keyed by id, carrying section_id/parent_page_id
// and order_index; nested views are reconstructed on demand (hierarchy.go).
// This keeps cascade deletion a plain index scan and avoids recursive
// ownership in memory.
//
// Sibling scope: pages compare order_index only against pages with the
// same (notebook_id, section_id, parent_page_id) triple. The "IS ?"
// comparisons below are NULL-safe, so the same statements cover pages at
// the notebook root, in a section, or under a parent page.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const pageCols = `id, notebook_id, section_id, parent_page_id, title, content, tags, order_index, created_at, updated_at`

const pageScopeWhere = `notebook_id = ? AND section_id IS ? AND parent_page_id IS ?`

// CreatePage inserts a page at the end of its sibling scope.
//
// Containment rules enforced here:
//   - the notebook must exist (ErrNotFound)
//   - a section, when given, must belong to the same notebook
//   - a parent page, when given, must belong to the same notebook
//
// A freshly generated id cannot close a parent cycle, so no cycle check is
// needed at creation; MovePage performs the ancestor walk.
func (s *SQLiteStore) CreatePage(ctx context.Context, params CreatePageParams) (*Page, error) {
	now := time.Now().Unix()
	p := &Page{
		ID:           genID(),
		NotebookID:   params.NotebookID,
		SectionID:    params.SectionID,
		ParentPageID: params.ParentPageID,
		Title:        params.Title,
		Content:      params.Content,
		Tags:         params.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, err
	}

	err = s.Tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM notebooks WHERE id = ?`, "notebook "+params.NotebookID, params.NotebookID); err != nil {
			return err
		}
		if params.SectionID != nil {
			if err := requireContainment(ctx, tx,
				`SELECT 1 FROM sections WHERE id = ? AND notebook_id = ?`,
				"section "+*params.SectionID, *params.SectionID, params.NotebookID); err != nil {
				return err
			}
		}
		if params.ParentPageID != nil {
			if err := requireContainment(ctx, tx,
				`SELECT 1 FROM pages WHERE id = ? AND notebook_id = ?`,
				"parent page "+*params.ParentPageID, *params.ParentPageID, params.NotebookID); err != nil {
				return err
			}
		}

		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE `+pageScopeWhere,
			p.NotebookID, p.SectionID, p.ParentPageID).Scan(&p.OrderIndex); err != nil {
			return fmt.Errorf("count siblings: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pages (id, notebook_id, section_id, parent_page_id, title, content, tags, order_index, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.NotebookID, p.SectionID, p.ParentPageID, p.Title, p.Content, tags, p.OrderIndex, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPage returns a page by id, or ErrNotFound.
func (s *SQLiteStore) GetPage(ctx context.Context, id string) (*Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageCols+` FROM pages WHERE id = ?`, id)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan page: %w", err)
	}
	return p, nil
}

// PageExists reports whether a page id resolves. Used by the session
// manager to validate tab bindings without loading content.
func (s *SQLiteStore) PageExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM pages WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("page exists %s: %w", id, err)
	}
	return true, nil
}

// ListPages returns all pages of a notebook, ordered by sibling scope then
// order_index. Callers grouping into a tree only rely on per-scope order.
func (s *SQLiteStore) ListPages(ctx context.Context, notebookID string) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pageCols+` FROM pages WHERE notebook_id = ?
		ORDER BY section_id, parent_page_id, order_index
	`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()
	return scanPages(rows)
}

// UpdatePage applies the non-nil fields of upd and bumps updated_at.
func (s *SQLiteStore) UpdatePage(ctx context.Context, id string, upd PageUpdate) (*Page, error) {
	p, err := s.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Tags != nil {
		p.Tags = *upd.Tags
	}
	p.UpdatedAt = time.Now().Unix()

	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE pages SET title = ?, content = ?, tags = ?, updated_at = ? WHERE id = ?
	`, p.Title, p.Content, tags, p.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update page %s: %w", id, err)
	}
	return p, nil
}

// MovePage rehomes a page to a new section and/or parent page within its
// notebook, appending it to the end of the destination sibling scope.
//
// The destination parent must not be the page itself or any of its
// descendants; that would make the page its own ancestor. The ancestor
// walk runs inside the transaction so a concurrent move cannot slip a
// cycle past the check.
func (s *SQLiteStore) MovePage(ctx context.Context, id string, sectionID, parentPageID *string) (*Page, error) {
	var moved *Page
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+pageCols+` FROM pages WHERE id = ?`, id)
		p, err := scanPage(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("page %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("scan page: %w", err)
		}

		if sectionID != nil {
			if err := requireContainment(ctx, tx,
				`SELECT 1 FROM sections WHERE id = ? AND notebook_id = ?`,
				"section "+*sectionID, *sectionID, p.NotebookID); err != nil {
				return err
			}
		}
		if parentPageID != nil {
			if err := requireContainment(ctx, tx,
				`SELECT 1 FROM pages WHERE id = ? AND notebook_id = ?`,
				"parent page "+*parentPageID, *parentPageID, p.NotebookID); err != nil {
				return err
			}
			if err := checkNoCycle(ctx, tx, id, *parentPageID); err != nil {
				return err
			}
		}

		// Close the gap in the old scope.
		if _, err := tx.ExecContext(ctx, `
			UPDATE pages SET order_index = order_index - 1
			WHERE `+pageScopeWhere+` AND order_index > ?
		`, p.NotebookID, p.SectionID, p.ParentPageID, p.OrderIndex); err != nil {
			return fmt.Errorf("renumber old siblings: %w", err)
		}

		p.SectionID = sectionID
		p.ParentPageID = parentPageID
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE `+pageScopeWhere+` AND id != ?`,
			p.NotebookID, p.SectionID, p.ParentPageID, id).Scan(&p.OrderIndex); err != nil {
			return fmt.Errorf("count destination siblings: %w", err)
		}
		p.UpdatedAt = time.Now().Unix()

		if _, err := tx.ExecContext(ctx, `
			UPDATE pages SET section_id = ?, parent_page_id = ?, order_index = ?, updated_at = ? WHERE id = ?
		`, p.SectionID, p.ParentPageID, p.OrderIndex, p.UpdatedAt, id); err != nil {
			return fmt.Errorf("move page %s: %w", id, err)
		}
		moved = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// DeletePage removes a page, its descendant sub-pages and every link
// referencing any of them. Returns the deleted page ids (root first is not
// guaranteed). Absent ids are a no-op success.
func (s *SQLiteStore) DeletePage(ctx context.Context, id string) ([]string, error) {
	var pageIDs []string
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+pageCols+` FROM pages WHERE id = ?`, id)
		p, err := scanPage(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil // already absent
		}
		if err != nil {
			return fmt.Errorf("scan page: %w", err)
		}

		pageIDs, err = collectIDs(ctx, tx, `
			WITH RECURSIVE doomed(id) AS (
				SELECT ?
				UNION
				SELECT p.id FROM pages p JOIN doomed d ON p.parent_page_id = d.id
			)
			SELECT id FROM doomed
		`, id)
		if err != nil {
			return err
		}

		if err := deletePageSet(ctx, tx, pageIDs); err != nil {
			return err
		}
		// Close the gap among the deleted page's former siblings.
		if _, err := tx.ExecContext(ctx, `
			UPDATE pages SET order_index = order_index - 1
			WHERE `+pageScopeWhere+` AND order_index > ?
		`, p.NotebookID, p.SectionID, p.ParentPageID, p.OrderIndex); err != nil {
			return fmt.Errorf("renumber siblings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pageIDs, nil
}

// ReorderPage moves a page within its sibling scope.
func (s *SQLiteStore) ReorderPage(ctx context.Context, id string, newIndex int) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+pageCols+` FROM pages WHERE id = ?`, id)
		p, err := scanPage(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("page %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("scan page: %w", err)
		}
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE `+pageScopeWhere,
			p.NotebookID, p.SectionID, p.ParentPageID).Scan(&count); err != nil {
			return fmt.Errorf("count siblings: %w", err)
		}
		newIndex = clampIndex(newIndex, count)
		if newIndex == p.OrderIndex {
			return nil
		}
		if err := shiftRange(ctx, tx, `pages`, pageScopeWhere,
			[]any{p.NotebookID, p.SectionID, p.ParentPageID}, p.OrderIndex, newIndex); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE pages SET order_index = ?, updated_at = ? WHERE id = ?
		`, newIndex, time.Now().Unix(), id); err != nil {
			return fmt.Errorf("reorder page %s: %w", id, err)
		}
		return nil
	})
}

// checkNoCycle walks the ancestor chain of newParent and fails if it
// passes through pageID. ErrNotFound cannot occur here: newParent was
// containment-checked by the caller.
func checkNoCycle(ctx context.Context, tx *sql.Tx, pageID, newParent string) error {
	if pageID == newParent {
		return fmt.Errorf("page %s cannot be its own parent: %w", pageID, errInvalidParent)
	}
	current := newParent
	for {
		var parent sql.NullString
		err := tx.QueryRowContext(ctx, `SELECT parent_page_id FROM pages WHERE id = ?`, current).Scan(&parent)
		if err != nil {
			return fmt.Errorf("walk ancestors of %s: %w", newParent, err)
		}
		if !parent.Valid {
			return nil // reached a root
		}
		if parent.String == pageID {
			return fmt.Errorf("page %s is an ancestor of %s: %w", pageID, newParent, errInvalidParent)
		}
		current = parent.String
	}
}

// errInvalidParent marks cycle violations; the service layer maps it onto
// validate.ErrInvalidHierarchy for callers.
var errInvalidParent = errors.New("parent would close a cycle")

// ErrInvalidParent reports whether err is a parent-cycle violation.
func ErrInvalidParent(err error) bool {
	return errors.Is(err, errInvalidParent)
}

// errOutsideNotebook marks containment violations (section or parent page
// from another notebook).
var errOutsideNotebook = errors.New("entity outside notebook")

// ErrOutsideNotebook reports whether err is a containment violation.
func ErrOutsideNotebook(err error) bool {
	return errors.Is(err, errOutsideNotebook)
}

// requireContainment fails when the id does not resolve inside the target
// notebook. It distinguishes "absent entirely" (errOutsideNotebook with a
// wrapped ErrNotFound reads wrong, so both map to containment failure; the
// service reports InvalidHierarchy either way per the containment rule).
func requireContainment(ctx context.Context, tx *sql.Tx, query, what string, args ...any) error {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, errOutsideNotebook)
	}
	if err != nil {
		return fmt.Errorf("lookup %s: %w", what, err)
	}
	return nil
}

// deletePageSet removes the given pages and every link touching them.
// No-op for an empty set.
func deletePageSet(ctx context.Context, tx *sql.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	in := `(` + placeholders(len(ids)) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	linkArgs := append(append([]any{}, args...), args...)
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM links WHERE source_page_id IN `+in+` OR target_page_id IN `+in, linkArgs...); err != nil {
		return fmt.Errorf("cascade links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE id IN `+in, args...); err != nil {
		return fmt.Errorf("cascade pages: %w", err)
	}
	return nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func scanPage(sc scanner) (*Page, error) {
	var p Page
	var section, parent sql.NullString
	var tags string
	err := sc.Scan(&p.ID, &p.NotebookID, &section, &parent, &p.Title, &p.Content, &tags, &p.OrderIndex, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if section.Valid {
		p.SectionID = &section.String
	}
	if parent.Valid {
		p.ParentPageID = &parent.String
	}
	p.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPages(rows *sql.Rows) ([]Page, error) {
	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}
