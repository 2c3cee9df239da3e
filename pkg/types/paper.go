// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// PaperMetadata is one search hit from a paper source. It carries what the
// pipeline needs to download, extract, and label a paper.
type PaperMetadata struct {
	// ID is the source identifier (e.g. "2407.08223" for arXiv).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with whitespace normalized.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the abstract as returned by the source.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// PDFURL is the location of the paper's PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Published is the publication or submission timestamp.
	Published time.Time `json:"published" yaml:"published"`

	// Source identifies the backend that produced this record (e.g. "arxiv").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// AuthorList joins the authors the way the caller-facing record shows them.
func (m PaperMetadata) AuthorList() string {
	return strings.Join(m.Authors, ", ")
}

// Extraction is the text-extraction collaborator's answer for one paper:
// either extracted plain text or an explicit failure.
type Extraction struct {
	// LocalPath is where the PDF was stored. On download failure it holds the
	// download error text instead.
	LocalPath string

	// Text is the extracted plain text, already bounded by page and
	// character budgets.
	Text string

	// Err is set when download or extraction failed.
	Err error
}

// Failed reports whether the extraction must short-circuit analysis: an
// explicit error or text that is empty after trimming.
func (e Extraction) Failed() bool {
	return e.Err != nil || strings.TrimSpace(e.Text) == ""
}
