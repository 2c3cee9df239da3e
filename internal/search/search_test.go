// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-analyst/internal/httputil"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	results []types.PaperMetadata
	err     error
}

func (m *mockBackend) Name() string { return "mock" }

func (m *mockBackend) Search(_ context.Context, _ Query, _ types.SearchConfig) ([]types.PaperMetadata, error) {
	return m.results, m.err
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: 5,
	}
}

func TestMain(m *testing.M) {
	httputil.RetryBaseDelay = time.Millisecond
	m.Run()
}

// --- Query ---

func TestQueryIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty", Query{}, true},
		{"whitespace", Query{Keywords: "  "}, true},
		{"keywords", Query{Keywords: "attention"}, false},
		{"author only", Query{Author: "Smith"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Search ---

func TestSearch_ExactTitleFilter(t *testing.T) {
	backend := &mockBackend{results: []types.PaperMetadata{
		{Title: "Attention Is All You Need"},
		{Title: "Attention Is All You Need: A Survey"},
		{Title: "attention is all you need."},
	}}

	cfg := testCfg()
	cfg.ExactTitle = true
	got, err := Search(context.Background(), backend, Query{Keywords: "Attention is all you need"}, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Title != "attention is all you need." {
		t.Errorf("order not preserved: %q", got[1].Title)
	}

	cfg.ExactTitle = false
	got, _ = Search(context.Background(), backend, Query{Keywords: "attention"}, cfg)
	if len(got) != 3 {
		t.Errorf("without filter len = %d, want 3", len(got))
	}
}

func TestSearch_MaxResultsCap(t *testing.T) {
	var many []types.PaperMetadata
	for i := 0; i < 8; i++ {
		many = append(many, types.PaperMetadata{Title: fmt.Sprintf("P%d", i)})
	}
	cfg := testCfg()
	cfg.MaxResults = 3
	got, err := Search(context.Background(), &mockBackend{results: many}, Query{Keywords: "p"}, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 || got[0].Title != "P0" {
		t.Errorf("got %d results starting %q", len(got), got[0].Title)
	}
}

func TestSearch_Errors(t *testing.T) {
	if _, err := Search(context.Background(), &mockBackend{}, Query{}, testCfg()); err == nil {
		t.Error("expected error for empty query")
	}
	_, err := Search(context.Background(), &mockBackend{err: errors.New("down")}, Query{Keywords: "x"}, testCfg())
	if err == nil || !strings.Contains(err.Error(), "mock search") {
		t.Errorf("err = %v, want wrapped backend error", err)
	}
}

// --- arXiv backend ---

const sampleArxivSearchXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
      You Need</title>
    <summary>We propose a new architecture based solely on attention mechanisms.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <title>BERT: Pre-training of Deep Bidirectional Transformers</title>
    <summary>We introduce BERT.</summary>
    <published>2018-10-11T00:00:00Z</published>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

func TestArxivBackendSearch(t *testing.T) {
	var gotQuery, gotSort string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotSort = r.URL.Query().Get("sortBy")
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, sampleArxivSearchXML)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	b := &ArxivBackend{Client: ts.Client()}
	results, err := b.Search(context.Background(), Query{Keywords: "attention", Author: "Vaswani"}, testCfg())
	if err != nil {
		t.Fatalf("ArxivBackend.Search: %v", err)
	}
	if gotQuery != `ti:"attention" AND au:"Vaswani"` {
		t.Errorf("search_query = %q", gotQuery)
	}
	if gotSort != "submittedDate" {
		t.Errorf("sortBy = %q", gotSort)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	r := results[0]
	if r.ID != "1706.03762" {
		t.Errorf("ID = %q, want %q", r.ID, "1706.03762")
	}
	if r.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.AuthorList() != "Ashish Vaswani, Noam Shazeer" {
		t.Errorf("Authors = %q", r.AuthorList())
	}
	if r.PDFURL != "http://arxiv.org/pdf/1706.03762v7" {
		t.Errorf("PDFURL = %q", r.PDFURL)
	}
	if r.Published.Year() != 2017 {
		t.Errorf("Published = %v", r.Published)
	}
	if results[1].PDFURL != "http://arxiv.org/pdf/1810.04805v2" {
		t.Errorf("derived PDFURL = %q", results[1].PDFURL)
	}
}

func TestArxivBackendSearch_RetriesOn503(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, sampleArxivSearchXML)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	b := &ArxivBackend{Client: ts.Client()}
	results, err := b.Search(context.Background(), Query{Keywords: "bert"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if calls != 2 || len(results) != 2 {
		t.Errorf("calls = %d, results = %d", calls, len(results))
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/1706.03762v5", "1706.03762"},
		{"http://arxiv.org/abs/2301.12345", "2301.12345"},
		{"https://arxiv.org/abs/2301.07041v2", "2301.07041"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := extractArxivID(tt.input)
			if got != tt.want {
				t.Errorf("extractArxivID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"keywords", Query{Keywords: "attention  mechanisms"}, `ti:"attention mechanisms"`},
		{"author", Query{Author: "Vaswani"}, `au:"Vaswani"`},
		{"combined", Query{Keywords: "attention", Author: "Ashish Vaswani"}, `ti:"attention" AND au:"Ashish Vaswani"`},
		{"empty", Query{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArxivQuery(tt.query)
			if got != tt.want {
				t.Errorf("buildArxivQuery = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- output ---

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable([]types.PaperMetadata{{
		Title:     "Attention Is All You Need",
		Authors:   []string{"Ashish Vaswani", "Noam Shazeer"},
		Published: time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC),
		PDFURL:    "http://arxiv.org/pdf/1706.03762v7",
	}}, &buf)
	out := buf.String()
	for _, want := range []string{"Attention Is All You Need", "Ashish Vaswani et al.", "2017", "1 results"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("empty table = %q", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON([]types.PaperMetadata{{ID: "1706.03762", Title: "T"}}, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded[0]["id"] != "1706.03762" {
		t.Errorf("id = %v", decoded[0]["id"])
	}
}
