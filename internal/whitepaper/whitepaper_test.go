// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package whitepaper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-analyst/internal/httputil"
)

const listingHTML = `<html><body>
<nav><a name="top">no href</a></nav>
<ul>
  <li><a href="/papers/gemini.pdf"><span>Gemini</span> Technical Report</a></li>
  <li><a href="https://cdn.example.com/alphafold.pdf">AlphaFold 3</a></li>
  <li><a href="papers/gemini-2.pdf">Gemini 2 Whitepaper</a></li>
  <li><a href="/papers/gemini-3.pdf">Gemini 3</a></li>
</ul>
</body></html>`

func withListing(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := companyURLs
	companyURLs = map[string]string{"deepmind": ts.URL + "/research/"}
	t.Cleanup(func() { companyURLs = old })
	return ts
}

func TestFetch_MatchesWithinInspectedAnchors(t *testing.T) {
	ts := withListing(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingHTML)
	})

	got := Fetch(context.Background(), ts.Client(), "DeepMind", "gemini", 3)
	require.Len(t, got, 2, "fourth anchor is beyond the inspected window")

	assert.Equal(t, "Gemini Technical Report", got[0].Title)
	assert.Equal(t, ts.URL+"/papers/gemini.pdf", got[0].URL)
	assert.Equal(t, SummaryUnavailable, got[0].Summary)

	assert.Equal(t, "Gemini 2 Whitepaper", got[1].Title)
	assert.Equal(t, ts.URL+"/research/papers/gemini-2.pdf", got[1].URL)
}

func TestFetch_EmptyHrefCountsTowardWindow(t *testing.T) {
	ts := withListing(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
<a href="">Gemini index</a>
<a href="/papers/gemini.pdf">Gemini Technical Report</a>
</body></html>`)
	})

	got := Fetch(context.Background(), ts.Client(), "deepmind", "gemini", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Gemini index", got[0].Title)
	assert.Equal(t, ts.URL+"/research/", got[0].URL)
}

func TestFetch_AbsoluteHrefKept(t *testing.T) {
	ts := withListing(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingHTML)
	})

	got := Fetch(context.Background(), ts.Client(), "deepmind", "alphafold", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "https://cdn.example.com/alphafold.pdf", got[0].URL)
}

func TestFetch_NoMatch(t *testing.T) {
	ts := withListing(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingHTML)
	})

	got := Fetch(context.Background(), ts.Client(), "deepmind", "diffusion", 3)
	assert.Equal(t, []Entry{{Note: "No matching papers found for 'diffusion' on deepmind"}}, got)
}

func TestFetch_UnknownCompany(t *testing.T) {
	got := Fetch(context.Background(), http.DefaultClient, "acme", "x", 3)
	assert.Equal(t, []Entry{{Error: "No URL found for company: acme"}}, got)
}

func TestFetch_HTTPFailure(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = old }()

	ts := withListing(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	got := Fetch(context.Background(), ts.Client(), "deepmind", "gemini", 3)
	require.Len(t, got, 1)
	assert.Equal(t, "Failed to fetch data from "+ts.URL+"/research/", got[0].Error)
}

func TestCompanies(t *testing.T) {
	assert.Equal(t, []string{"deepmind", "ibm", "meta", "nvidia", "openai"}, Companies())
}
