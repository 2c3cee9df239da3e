// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-analyst/internal/httputil"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend queries the arXiv Atom API, newest submissions first.
type ArxivBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Search queries the arXiv API and returns results in feed order.
func (b *ArxivBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.PaperMetadata, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}

	params := url.Values{}
	params.Set("search_query", q)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var results []types.PaperMetadata
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		r := types.PaperMetadata{
			ID:      arxivID,
			Title:   strings.Join(strings.Fields(entry.Title), " "),
			Summary: strings.TrimSpace(entry.Summary),
			PDFURL:  entry.pdfURL(),
			Source:  "arxiv",
		}
		for _, a := range entry.Authors {
			r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			r.Published = t
		}
		results = append(results, r)
	}
	return results, nil
}

// buildArxivQuery constructs the search_query parameter: a quoted title
// phrase, optionally ANDed with a quoted author.
func buildArxivQuery(q Query) string {
	var parts []string
	if kw := strings.Join(strings.Fields(q.Keywords), " "); kw != "" {
		parts = append(parts, fmt.Sprintf("ti:%q", kw))
	}
	if au := strings.Join(strings.Fields(q.Author), " "); au != "" {
		parts = append(parts, fmt.Sprintf("au:%q", au))
	}
	return strings.Join(parts, " AND ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// pdfURL returns the entry's PDF link, deriving it from the abstract URL
// when the feed omits one.
func (e arxivEntry) pdfURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return strings.Replace(strings.TrimSpace(e.ID), "/abs/", "/pdf/", 1)
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := strings.TrimSpace(idURL[idx+len(prefix):])

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
