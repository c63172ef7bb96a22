// search.go implements substring search over page titles, content and
// tags. Ranking is lexical only; semantic search is out of scope for the
// core and belongs to the analysis service.

package store

import (
	"context"
	"fmt"
	"strings"
)

// SearchOptions narrows a search.
type SearchOptions struct {
	NotebookID string // limit to one notebook (empty for all)
	Tag        string // require a tag
	Limit      int    // 0 means no limit
}

// SearchPages returns pages whose title, content or tags contain the query
// (case-insensitive), newest first. An empty query with a tag filter lists
// the tagged pages.
func (s *SQLiteStore) SearchPages(ctx context.Context, query string, opts SearchOptions) ([]Page, error) {
	var conds []string
	var args []any

	if query != "" {
		like := "%" + escapeLike(query) + "%"
		conds = append(conds, `(title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}
	if opts.NotebookID != "" {
		conds = append(conds, `notebook_id = ?`)
		args = append(args, opts.NotebookID)
	}
	if opts.Tag != "" {
		// Tags are stored as a JSON array of normalised strings; a quoted
		// substring match is exact for values that contain no quotes.
		conds = append(conds, `tags LIKE ? ESCAPE '\'`)
		args = append(args, `%"`+escapeLike(opts.Tag)+`"%`)
	}
	if len(conds) == 0 {
		conds = append(conds, `1=1`)
	}

	q := `SELECT ` + pageCols + ` FROM pages WHERE ` + strings.Join(conds, ` AND `) + ` ORDER BY updated_at DESC, rowid DESC`
	if opts.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	defer rows.Close()
	return scanPages(rows)
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
