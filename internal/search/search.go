// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries paper sources and returns paper metadata in source
// order.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

// Backend searches a single paper source.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.PaperMetadata, error)
}

// Query holds the search parameters.
type Query struct {
	// Keywords are matched against paper titles.
	Keywords string

	// Author optionally restricts results to one author.
	Author string
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Keywords) == "" && strings.TrimSpace(q.Author) == ""
}

// Search runs query against backend and applies the exact-title filter and
// result cap from cfg. Source order is preserved.
func Search(ctx context.Context, backend Backend, query Query, cfg types.SearchConfig) ([]types.PaperMetadata, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("query is empty: provide keywords or an author")
	}
	results, err := backend.Search(ctx, query, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", backend.Name(), err)
	}
	if cfg.ExactTitle && strings.TrimSpace(query.Keywords) != "" {
		results = filterExactTitle(results, query.Keywords)
	}
	if cfg.MaxResults > 0 && len(results) > cfg.MaxResults {
		results = results[:cfg.MaxResults]
	}
	return results, nil
}

// filterExactTitle keeps results whose normalized title equals the
// normalized keywords.
func filterExactTitle(results []types.PaperMetadata, keywords string) []types.PaperMetadata {
	want := normalizeTitle(keywords)
	var out []types.PaperMetadata
	for _, r := range results {
		if normalizeTitle(r.Title) == want {
			out = append(out, r)
		}
	}
	return out
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.PaperMetadata, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %s\n", "#", "Title", "Authors", "Year", "PDF")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, r := range results {
		year := ""
		if !r.Published.IsZero() {
			year = fmt.Sprintf("%d", r.Published.Year())
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %s\n",
			i+1, truncate(r.Title, 60), formatAuthors(r.Authors), year, r.PDFURL)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.PaperMetadata, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
