// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for archive listings.
type QueryOptions struct {
	// Query is free text matched against title and summaries. Every term
	// must appear; FTS5 operators in it are taken literally.
	Query string

	// Template filters by selected best template.
	Template string

	// Failed keeps only degraded records.
	Failed bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// List returns archived entries. Full-text queries are ranked by relevance;
// otherwise entries come newest first. Without FTS5 each query term is
// matched as a substring.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		query  = strings.TrimSpace(opts.Query)
		useFTS = query != "" && s.fts
	)

	switch {
	case useFTS:
		qb.WriteString(
			`SELECT r.id, r.created_at, r.body
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			WHERE records_fts MATCH ?`)
		args = append(args, ftsTerms(query))
	case query != "":
		qb.WriteString(
			`SELECT r.id, r.created_at, r.body
			FROM records r
			WHERE 1=1`)
		for _, term := range strings.Fields(query) {
			like := "%" + term + "%"
			qb.WriteString(` AND (r.title LIKE ? OR r.focused_summary LIKE ? OR r.holistic_summary LIKE ?)`)
			args = append(args, like, like, like)
		}
	default:
		qb.WriteString(
			`SELECT r.id, r.created_at, r.body
			FROM records r
			WHERE 1=1`)
	}

	if opts.Template != "" {
		qb.WriteString(` AND r.best_template = ?`)
		args = append(args, opts.Template)
	}

	if opts.Failed {
		qb.WriteString(` AND r.failed = 1`)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.created_at DESC, r.rowid DESC`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ftsTerms quotes each whitespace-separated term as an FTS5 string so that
// punctuation in titles ("RAG:", "speculative-rag", "retrieval?") is never
// parsed as query syntax. Adjacent strings are ANDed by FTS5.
func ftsTerms(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}
