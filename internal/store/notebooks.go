// notebooks.go implements notebook CRUD and ordering.
//
// Ordering invariant: order_index is unique and contiguous (0..n-1) across
// notebooks. Creation appends at the end; deletion closes the gap; reorder
// shifts the notebooks strictly between the old and new position by one.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const notebookCols = `id, title, description, color, order_index, created_at, updated_at`

// CreateNotebook inserts a notebook at the end of the notebook list.
func (s *SQLiteStore) CreateNotebook(ctx context.Context, title, description, color string) (*Notebook, error) {
	now := time.Now().Unix()
	n := &Notebook{
		ID:          genID(),
		Title:       title,
		Description: description,
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM notebooks`).Scan(&n.OrderIndex); err != nil {
			return fmt.Errorf("count notebooks: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notebooks (id, title, description, color, order_index, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, n.ID, n.Title, nilIfEmpty(n.Description), n.Color, n.OrderIndex, n.CreatedAt, n.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert notebook: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetNotebook returns a notebook by id, or ErrNotFound.
func (s *SQLiteStore) GetNotebook(ctx context.Context, id string) (*Notebook, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+notebookCols+` FROM notebooks WHERE id = ?`, id)
	n, err := scanNotebook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notebook %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan notebook: %w", err)
	}
	return n, nil
}

// ListNotebooks returns all notebooks in order_index order.
func (s *SQLiteStore) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+notebookCols+` FROM notebooks ORDER BY order_index`)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var out []Notebook
	for rows.Next() {
		n, err := scanNotebook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// UpdateNotebook applies the non-nil fields of upd and bumps updated_at.
func (s *SQLiteStore) UpdateNotebook(ctx context.Context, id string, upd NotebookUpdate) (*Notebook, error) {
	n, err := s.GetNotebook(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Description != nil {
		n.Description = *upd.Description
	}
	if upd.Color != nil {
		n.Color = *upd.Color
	}
	n.UpdatedAt = time.Now().Unix()

	_, err = s.db.ExecContext(ctx, `
		UPDATE notebooks SET title = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ?
	`, n.Title, nilIfEmpty(n.Description), n.Color, n.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("update notebook %s: %w", id, err)
	}
	return n, nil
}

// DeleteNotebook removes a notebook and cascades: all of its sections, all
// of its pages (including sub-page subtrees) and every link whose source or
// target was one of those pages. Returns the ids of the deleted pages so
// in-memory indexes (link graph, open tabs) can be pruned.
//
// Deleting an absent id is a no-op success; cascade code paths don't need
// to distinguish "already gone" from "just deleted".
func (s *SQLiteStore) DeleteNotebook(ctx context.Context, id string) ([]string, error) {
	var pageIDs []string
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var orderIndex int
		err := tx.QueryRowContext(ctx, `SELECT order_index FROM notebooks WHERE id = ?`, id).Scan(&orderIndex)
		if errors.Is(err, sql.ErrNoRows) {
			return nil // already absent
		}
		if err != nil {
			return fmt.Errorf("lookup notebook %s: %w", id, err)
		}

		pageIDs, err = collectIDs(ctx, tx, `SELECT id FROM pages WHERE notebook_id = ?`, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM links
			WHERE source_page_id IN (SELECT id FROM pages WHERE notebook_id = ?)
			   OR target_page_id IN (SELECT id FROM pages WHERE notebook_id = ?)
		`, id, id); err != nil {
			return fmt.Errorf("cascade links: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE notebook_id = ?`, id); err != nil {
			return fmt.Errorf("cascade pages: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE notebook_id = ?`, id); err != nil {
			return fmt.Errorf("cascade sections: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM notebooks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete notebook: %w", err)
		}
		// Close the ordering gap
		if _, err := tx.ExecContext(ctx, `
			UPDATE notebooks SET order_index = order_index - 1 WHERE order_index > ?
		`, orderIndex); err != nil {
			return fmt.Errorf("renumber notebooks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pageIDs, nil
}

// ReorderNotebook moves a notebook to newIndex, shifting the notebooks
// strictly between the old and new position by one. newIndex is clamped
// to the valid range.
func (s *SQLiteStore) ReorderNotebook(ctx context.Context, id string, newIndex int) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		var oldIndex, count int
		err := tx.QueryRowContext(ctx, `SELECT order_index FROM notebooks WHERE id = ?`, id).Scan(&oldIndex)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("notebook %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lookup notebook %s: %w", id, err)
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM notebooks`).Scan(&count); err != nil {
			return fmt.Errorf("count notebooks: %w", err)
		}
		newIndex = clampIndex(newIndex, count)
		if newIndex == oldIndex {
			return nil
		}
		if err := shiftRange(ctx, tx, `notebooks`, ``, nil, oldIndex, newIndex); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE notebooks SET order_index = ?, updated_at = ? WHERE id = ?
		`, newIndex, time.Now().Unix(), id); err != nil {
			return fmt.Errorf("reorder notebook %s: %w", id, err)
		}
		return nil
	})
}

func scanNotebook(sc scanner) (*Notebook, error) {
	var n Notebook
	var desc sql.NullString
	err := sc.Scan(&n.ID, &n.Title, &desc, &n.Color, &n.OrderIndex, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		n.Description = desc.String
	}
	return &n, nil
}

// collectIDs runs a single-column id query and returns the results.
func collectIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("collect ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// clampIndex restricts a target position to [0, count-1].
func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}

// shiftRange renumbers the siblings strictly between oldIndex and newIndex
// by one to make room for the moved row. scopeWhere narrows the sibling
// scope ("" for notebooks, which have a single global scope); scopeArgs
// supplies its placeholders.
func shiftRange(ctx context.Context, tx *sql.Tx, table, scopeWhere string, scopeArgs []any, oldIndex, newIndex int) error {
	var cond string
	var args []any
	if newIndex > oldIndex {
		cond = `order_index > ? AND order_index <= ?`
		args = []any{oldIndex, newIndex}
	} else {
		cond = `order_index >= ? AND order_index < ?`
		args = []any{newIndex, oldIndex}
	}
	delta := -1
	if newIndex < oldIndex {
		delta = 1
	}

	query := fmt.Sprintf(`UPDATE %s SET order_index = order_index + %d WHERE %s`, table, delta, cond)
	if scopeWhere != "" {
		query += ` AND ` + scopeWhere
		args = append(args, scopeArgs...)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("shift %s order: %w", table, err)
	}
	return nil
}

// nilIfEmpty returns nil for empty strings so optional text columns store
// NULL rather than "".
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
