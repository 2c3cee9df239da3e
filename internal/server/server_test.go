// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-analyst/internal/archive"
	"github.com/pdiddy/paper-analyst/internal/service"
	"github.com/pdiddy/paper-analyst/internal/whitepaper"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type fakeTools struct {
	lastArxiv service.ArxivRequest
	lastWP    service.WhitepaperRequest
	records   []types.PaperRecord
	err       error
}

func (f *fakeTools) AnalyzeArxiv(_ context.Context, req service.ArxivRequest) ([]types.PaperRecord, error) {
	f.lastArxiv = req
	if req.Keywords == "" && req.Author == "" {
		return nil, service.ErrEmptyQuery
	}
	return f.records, f.err
}

func (f *fakeTools) Whitepapers(_ context.Context, req service.WhitepaperRequest) []whitepaper.Entry {
	f.lastWP = req
	return []whitepaper.Entry{{Note: "No matching papers found for '" + req.Keywords + "' on " + req.Company}}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndCatalogue(t *testing.T) {
	h := New(&fakeTools{}, nil, nil)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, w.Code)
	var tools []ToolInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tools))
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"fetch_arxiv_papers", "fetch_white_papers", "explain_concept", "summarize_paper"}, names)
}

func TestFetchArxiv(t *testing.T) {
	tools := &fakeTools{records: []types.PaperRecord{{
		Title:        "Sparse Experts",
		BestTemplate: "future_research",
		TemplateAnalyses: types.Analyses{
			{Template: "zeta", Text: "z"},
			{Template: "alpha", Text: "a"},
		},
	}}}
	h := New(tools, nil, nil)

	w := do(t, h, http.MethodPost, "/tools/fetch_arxiv_papers", `{"keywords":"sparse experts","max_results":2,"author":"Shazeer"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, service.ArxivRequest{Keywords: "sparse experts", Author: "Shazeer", MaxResults: 2}, tools.lastArxiv)
	assert.Contains(t, w.Body.String(), `"template_analyses":{"zeta":"z","alpha":"a"}`)
	assert.Contains(t, w.Body.String(), `"best_template":"future_research"`)
}

func TestFetchArxiv_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"malformed json", `{"keywords":`, nil, http.StatusBadRequest},
		{"empty query", `{}`, nil, http.StatusBadRequest},
		{"search failure", `{"keywords":"x"}`, errors.New("arXiv API request: timeout"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&fakeTools{err: tt.err}, nil, nil)
			w := do(t, h, http.MethodPost, "/tools/fetch_arxiv_papers", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestFetchArxiv_EmptyResultIsArray(t *testing.T) {
	h := New(&fakeTools{}, nil, nil)
	w := do(t, h, http.MethodPost, "/tools/fetch_arxiv_papers", `{"keywords":"nothing matches"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestFetchWhitepapers(t *testing.T) {
	tools := &fakeTools{}
	h := New(tools, nil, nil)

	w := do(t, h, http.MethodPost, "/tools/fetch_white_papers", `{"company":"openai","keywords":"gpt","max_results":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.WhitepaperRequest{Company: "openai", Keywords: "gpt", MaxResults: 4}, tools.lastWP)
	assert.JSONEq(t, `[{"note":"No matching papers found for 'gpt' on openai"}]`, w.Body.String())

	w = do(t, h, http.MethodPost, "/tools/fetch_white_papers", `{"company":"openai"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrompts(t *testing.T) {
	h := New(&fakeTools{}, nil, nil)

	w := do(t, h, http.MethodPost, "/prompts/explain_concept", `{"concept":"dropout","detail_level":"simple"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prompt":"Explain this concept in simple terms for beginners.\n\nConcept: dropout"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/prompts/summarize_paper", `{"paper_text":"BODY","context":"chip design"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "hardware_focus", got["recommended_template"])
	assert.True(t, strings.HasSuffix(got["prompt"], "Paper content:\nBODY"))

	w = do(t, h, http.MethodPost, "/prompts/explain_concept", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordsRoutes(t *testing.T) {
	store, err := archive.NewStore(types.ArchiveConfig{Dir: filepath.Join(t.TempDir(), "archive")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	var ids []string
	for i, best := range []string{"future_research", "architecture_evolution"} {
		id, err := store.Save(ctx, types.PaperRecord{
			Title:           fmt.Sprintf("Paper %d", i),
			BestTemplate:    best,
			FocusedSummary:  "focused text",
			HolisticSummary: "holistic text",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	h := New(&fakeTools{}, store, nil)

	w := do(t, h, http.MethodGet, "/records?template=future_research", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []archive.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, ids[0], entries[0].ID)

	w = do(t, h, http.MethodGet, "/records/"+ids[1], "")
	require.Equal(t, http.StatusOK, w.Code)
	var entry archive.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "Paper 1", entry.Record.Title)

	w = do(t, h, http.MethodGet, "/records/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/records?failed=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestRecordsRoutesAbsentWithoutArchive(t *testing.T) {
	h := New(&fakeTools{}, nil, nil)
	w := do(t, h, http.MethodGet, "/records", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
