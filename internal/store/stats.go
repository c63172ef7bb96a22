// stats.go provides aggregate store statistics for operational visibility.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// GetStats returns aggregate counts across the store.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM notebooks`, &st.Notebooks},
		{`SELECT COUNT(*) FROM sections`, &st.Sections},
		{`SELECT COUNT(*) FROM pages`, &st.Pages},
		{`SELECT COUNT(*) FROM pages WHERE parent_page_id IS NOT NULL`, &st.SubPages},
		{`SELECT COUNT(*) FROM links`, &st.Links},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var oldest, newest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MIN(created_at) FROM notebooks`).Scan(&oldest); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM pages`).Scan(&newest); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if oldest.Valid {
		st.OldestNotebook = oldest.Int64
	}
	if newest.Valid {
		st.NewestPage = newest.Int64
	}
	return st, nil
}
