// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package whitepaper scrapes company research listing pages for links whose
// text matches a keyword.
package whitepaper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/paper-analyst/internal/httputil"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// DefaultMaxResults is the number of anchors inspected when none is given.
const DefaultMaxResults = 3

// SummaryUnavailable is the summary text attached to every match.
const SummaryUnavailable = "Summary not directly available; fetch PDF for details."

// companyURLs maps a company key to its publication listing page. Declared
// as a var so tests can substitute an httptest server.
var companyURLs = map[string]string{
	"deepmind": "https://deepmind.google/research/publications/",
	"meta":     "https://research.facebook.com/publications/",
	"nvidia":   "https://www.amax.com/nvidia-technical-whitepapers/",
	"openai":   "https://openai.com/research/",
	"ibm":      "https://community.ibm.com/community/user/blogs/armand-ruiz-gabernet/2024/06/24/ibm-granite-large-language-models-whitepaper",
}

// Entry is one result row. Exactly one of the groups is set: a match
// (Title, URL, Summary), an Error, or a Note.
type Entry struct {
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Note    string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Companies returns the supported company keys, sorted.
func Companies() []string {
	keys := make([]string, 0, len(companyURLs))
	for k := range companyURLs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fetch loads the company's listing page, inspects the first maxResults
// anchors that carry an href, and keeps those whose text contains keywords
// (case-insensitive). Failures are reported as a single error entry and an
// empty match set as a single note entry.
func Fetch(ctx context.Context, client *http.Client, company, keywords string, maxResults int) []Entry {
	listing, ok := companyURLs[strings.ToLower(strings.TrimSpace(company))]
	if !ok {
		return []Entry{{Error: fmt.Sprintf("No URL found for company: %s", company)}}
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	doc, err := fetchDocument(ctx, client, listing)
	if err != nil {
		return []Entry{{Error: fmt.Sprintf("Failed to fetch data from %s", listing)}}
	}

	needle := strings.ToLower(keywords)
	var entries []Entry
	for _, a := range anchors(doc, maxResults) {
		if !strings.Contains(strings.ToLower(a.text), needle) {
			continue
		}
		entries = append(entries, Entry{
			Title:   a.text,
			URL:     resolve(listing, a.href),
			Summary: SummaryUnavailable,
		})
	}
	if len(entries) == 0 {
		return []Entry{{Note: fmt.Sprintf("No matching papers found for '%s' on %s", keywords, company)}}
	}
	return entries
}

func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", types.DefaultUserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 1)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}
	return html.Parse(resp.Body)
}

type anchor struct {
	text string
	href string
}

// anchors returns up to limit <a> elements carrying an href attribute, in
// document order. An empty href still counts against limit.
func anchors(doc *html.Node, limit int) []anchor {
	var out []anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok {
				out = append(out, anchor{text: strings.TrimSpace(textContent(n)), href: href})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return b.String()
}

// resolve makes href absolute against the listing page.
func resolve(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return base + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base + href
	}
	return b.ResolveReference(ref).String()
}
