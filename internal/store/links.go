// links.go implements persistence for the directed page link graph.
//
// Links are hard rows, deleted when either endpoint page goes away (see
// deletePageSet). Parallel edges with identical (source, target, text) are
// permitted; the graph treats them as distinct links with their own ids.
// The in-memory forward/backward indexes live in the graph package; this
// file only owns the rows.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jpl-au/devise/internal/validate"
)

const linkCols = `id, source_page_id, target_page_id, link_text, link_type, created_at, rowid`

// CreateLink inserts a directed edge between two existing pages. Fails
// with validate.ErrInvalidLink on self-links and ErrNotFound when either
// endpoint does not resolve.
func (s *SQLiteStore) CreateLink(ctx context.Context, sourceID, targetID, text string, typ LinkType) (*PageLink, error) {
	if err := validate.Link(sourceID, targetID); err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown link type %q", typ)
	}

	l := &PageLink{
		ID:        genID(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Text:      text,
		Type:      typ,
		CreatedAt: time.Now().Unix(),
	}

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, `SELECT 1 FROM pages WHERE id = ?`, "source page "+sourceID, sourceID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, `SELECT 1 FROM pages WHERE id = ?`, "target page "+targetID, targetID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO links (id, source_page_id, target_page_id, link_text, link_type, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, l.ID, l.SourceID, l.TargetID, l.Text, string(l.Type), l.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert link: %w", err)
		}
		l.rowOrder, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("link rowid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetLink returns a link by id, or ErrNotFound.
func (s *SQLiteStore) GetLink(ctx context.Context, id string) (*PageLink, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkCols+` FROM links WHERE id = ?`, id)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("link %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan link: %w", err)
	}
	return l, nil
}

// DeleteLink removes a link by id. Fails with ErrNotFound when the id
// does not resolve (explicit unlink is user-visible, unlike cascades).
func (s *SQLiteStore) DeleteLink(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete link %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete link %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("link %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListLinksFrom returns the outgoing links of a page in creation order
// (created_at ascending, insertion order breaking ties).
func (s *SQLiteStore) ListLinksFrom(ctx context.Context, pageID string) ([]PageLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+linkCols+` FROM links WHERE source_page_id = ?
		ORDER BY created_at, rowid
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list links from %s: %w", pageID, err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

// ListLinksTo returns the backlinks of a page: every link whose target is
// pageID, regardless of which page created it or when.
func (s *SQLiteStore) ListLinksTo(ctx context.Context, pageID string) ([]PageLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+linkCols+` FROM links WHERE target_page_id = ?
		ORDER BY created_at, rowid
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list links to %s: %w", pageID, err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

// ListAllLinks returns every link in creation order. Used to rebuild the
// in-memory graph indexes at startup.
func (s *SQLiteStore) ListAllLinks(ctx context.Context) ([]PageLink, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+linkCols+` FROM links ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()
	return scanLinks(rows)
}

func scanLink(sc scanner) (*PageLink, error) {
	var l PageLink
	var typ string
	err := sc.Scan(&l.ID, &l.SourceID, &l.TargetID, &l.Text, &typ, &l.CreatedAt, &l.rowOrder)
	if err != nil {
		return nil, err
	}
	l.Type = LinkType(typ)
	return &l, nil
}

func scanLinks(rows *sql.Rows) ([]PageLink, error) {
	var links []PageLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}
