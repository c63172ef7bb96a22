// sections.go implements section CRUD and ordering within a notebook.
//
// A section belongs to exactly one notebook; its order_index is contiguous
// among the notebook's sections. Deleting a section cascades to the pages
// assigned to it and their sub-page subtrees.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const sectionCols = `id, notebook_id, title, color, order_index, created_at, updated_at`

// CreateSection inserts a section at the end of the notebook's section
// list. Fails with ErrNotFound if the notebook does not resolve.
func (s *SQLiteStore) CreateSection(ctx context.Context, notebookID, title, color string) (*Section, error) {
	now := time.Now().Unix()
	sec := &Section{
		ID:         genID(),
		NotebookID: notebookID,
		Title:      title,
		Color:      color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM notebooks WHERE id = ?`, "notebook "+notebookID, notebookID); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections WHERE notebook_id = ?`, notebookID).Scan(&sec.OrderIndex); err != nil {
			return fmt.Errorf("count sections: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sections (id, notebook_id, title, color, order_index, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, sec.ID, sec.NotebookID, sec.Title, sec.Color, sec.OrderIndex, sec.CreatedAt, sec.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert section: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// GetSection returns a section by id, or ErrNotFound.
func (s *SQLiteStore) GetSection(ctx context.Context, id string) (*Section, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sectionCols+` FROM sections WHERE id = ?`, id)
	sec, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan section: %w", err)
	}
	return sec, nil
}

// ListSections returns the notebook's sections in order_index order.
func (s *SQLiteStore) ListSections(ctx context.Context, notebookID string) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sectionCols+` FROM sections WHERE notebook_id = ? ORDER BY order_index
	`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var out []Section
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, *sec)
	}
	return out, rows.Err()
}

// UpdateSection applies the non-nil fields of upd and bumps updated_at.
func (s *SQLiteStore) UpdateSection(ctx context.Context, id string, upd SectionUpdate) (*Section, error) {
	sec, err := s.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		sec.Title = *upd.Title
	}
	if upd.Color != nil {
		sec.Color = *upd.Color
	}
	sec.UpdatedAt = time.Now().Unix()

	_, err = s.db.ExecContext(ctx, `
		UPDATE sections SET title = ?, color = ?, updated_at = ? WHERE id = ?
	`, sec.Title, sec.Color, sec.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update section %s: %w", id, err)
	}
	return sec, nil
}

// DeleteSection removes a section and cascades: the pages assigned to it,
// their sub-page subtrees, and every link referencing one of those pages.
// Returns the deleted page ids. Absent ids are a no-op success.
func (s *SQLiteStore) DeleteSection(ctx context.Context, id string) ([]string, error) {
	var pageIDs []string
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var notebookID string
		var orderIndex int
		err := tx.QueryRowContext(ctx, `SELECT notebook_id, order_index FROM sections WHERE id = ?`, id).
			Scan(&notebookID, &orderIndex)
		if errors.Is(err, sql.ErrNoRows) {
			return nil // already absent
		}
		if err != nil {
			return fmt.Errorf("lookup section %s: %w", id, err)
		}

		// Pages directly in the section plus every descendant sub-page.
		pageIDs, err = collectIDs(ctx, tx, `
			WITH RECURSIVE doomed(id) AS (
				SELECT id FROM pages WHERE section_id = ?
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
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete section: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE sections SET order_index = order_index - 1
			WHERE notebook_id = ? AND order_index > ?
		`, notebookID, orderIndex); err != nil {
			return fmt.Errorf("renumber sections: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pageIDs, nil
}

// ReorderSection moves a section within its notebook.
func (s *SQLiteStore) ReorderSection(ctx context.Context, id string, newIndex int) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		var notebookID string
		var oldIndex, count int
		err := tx.QueryRowContext(ctx, `SELECT notebook_id, order_index FROM sections WHERE id = ?`, id).
			Scan(&notebookID, &oldIndex)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("section %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lookup section %s: %w", id, err)
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections WHERE notebook_id = ?`, notebookID).Scan(&count); err != nil {
			return fmt.Errorf("count sections: %w", err)
		}
		newIndex = clampIndex(newIndex, count)
		if newIndex == oldIndex {
			return nil
		}
		if err := shiftRange(ctx, tx, `sections`, `notebook_id = ?`, []any{notebookID}, oldIndex, newIndex); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE sections SET order_index = ?, updated_at = ? WHERE id = ?
		`, newIndex, time.Now().Unix(), id); err != nil {
			return fmt.Errorf("reorder section %s: %w", id, err)
		}
		return nil
	})
}

func scanSection(sc scanner) (*Section, error) {
	var sec Section
	err := sc.Scan(&sec.ID, &sec.NotebookID, &sec.Title, &sec.Color, &sec.OrderIndex, &sec.CreatedAt, &sec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

// requireRow fails with ErrNotFound (labelled with what) when the query
// returns no row. Used for existence checks inside transactions.
func requireRow(ctx context.Context, tx *sql.Tx, query, what string, args ...any) error {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup %s: %w", what, err)
	}
	return nil
}
