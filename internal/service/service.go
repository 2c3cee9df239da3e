// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package service drives the end-to-end tools: arXiv search, PDF download,
// text extraction and the analysis pipeline for every hit, plus the
// whitepaper lookup.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-analyst/internal/acquire"
	"github.com/pdiddy/paper-analyst/internal/analysis"
	"github.com/pdiddy/paper-analyst/internal/convert"
	"github.com/pdiddy/paper-analyst/internal/llm"
	"github.com/pdiddy/paper-analyst/internal/search"
	"github.com/pdiddy/paper-analyst/internal/whitepaper"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// ErrEmptyQuery is returned when neither keywords nor author are given.
var ErrEmptyQuery = errors.New("keywords or author required")

// RecordSaver persists finished records. *archive.Store satisfies it.
type RecordSaver interface {
	Save(ctx context.Context, rec types.PaperRecord) (string, error)
}

// ArxivRequest holds the fetch_arxiv_papers arguments.
type ArxivRequest struct {
	Keywords   string `json:"keywords"`
	Author     string `json:"author,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// WhitepaperRequest holds the fetch_white_papers arguments.
type WhitepaperRequest struct {
	Company    string `json:"company"`
	Keywords   string `json:"keywords"`
	MaxResults int    `json:"max_results,omitempty"`
}

// Analyzer wires the collaborators to the analysis pipeline. Archive and
// Progress are optional.
type Analyzer struct {
	Backend   search.Backend
	Client    *http.Client
	Converter convert.Converter
	Pipeline  *analysis.Pipeline
	Archive   RecordSaver
	Config    types.AppConfig
	Logger    *zap.Logger
	Progress  io.Writer
}

// New builds an Analyzer over arXiv, the PDF converter and a pipeline
// backed by gen.
func New(cfg types.AppConfig, gen llm.Generator, archive RecordSaver, logger *zap.Logger, progress io.Writer) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		Backend:   &search.ArxivBackend{Client: &http.Client{Timeout: cfg.Search.Timeout}},
		Client:    &http.Client{Timeout: cfg.Acquisition.Timeout},
		Converter: convert.NewPDFConverter(cfg.Acquisition),
		Pipeline:  analysis.NewPipeline(gen, cfg.Analysis, cfg.LLM.Timeout, logger),
		Archive:   archive,
		Config:    cfg,
		Logger:    logger,
		Progress:  progress,
	}
}

// AnalyzeArxiv searches arXiv and returns one record per hit, in search
// order. Only search failures are returned as errors; every per-paper
// failure is carried inside its record.
func (a *Analyzer) AnalyzeArxiv(ctx context.Context, req ArxivRequest) ([]types.PaperRecord, error) {
	q := search.Query{Keywords: strings.TrimSpace(req.Keywords), Author: strings.TrimSpace(req.Author)}
	if q.IsEmpty() {
		return nil, ErrEmptyQuery
	}

	cfg := a.Config.Search
	if req.MaxResults > 0 {
		cfg.MaxResults = req.MaxResults
	}

	papers, err := search.Search(ctx, a.Backend, q, cfg)
	if err != nil {
		return nil, fmt.Errorf("searching arXiv: %w", err)
	}
	a.logger().Info("search finished", zap.String("keywords", q.Keywords), zap.Int("papers", len(papers)))

	workers := a.Config.Analysis.Workers
	if workers < 1 {
		workers = 1
	}

	progress := newSyncWriter(a.Progress)
	records := make([]types.PaperRecord, len(papers))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, meta := range papers {
		g.Go(func() error {
			records[i] = a.analyzePaper(ctx, meta, progress)
			return nil
		})
	}
	_ = g.Wait()

	return records, nil
}

func (a *Analyzer) analyzePaper(ctx context.Context, meta types.PaperMetadata, progress io.Writer) types.PaperRecord {
	ex := a.extract(ctx, meta, progress)
	rec := a.Pipeline.Run(ctx, meta, ex)

	if a.Archive != nil {
		id, err := a.Archive.Save(ctx, rec)
		if err != nil {
			a.logger().Warn("archiving record failed", zap.String("title", meta.Title), zap.Error(err))
		} else {
			a.logger().Debug("record archived", zap.String("title", meta.Title), zap.String("id", id))
		}
	}
	return rec
}

// extract downloads the PDF and pulls its text. A failed download becomes
// an extraction failure whose local path is the download error text.
func (a *Analyzer) extract(ctx context.Context, meta types.PaperMetadata, progress io.Writer) types.Extraction {
	pdfPath, _, err := acquire.AcquirePaper(ctx, a.Client, meta, a.Config.Acquisition, progress)
	if err != nil {
		fmt.Fprintf(progress, "failed  %s: %v\n", meta.Title, err)
		return types.Extraction{LocalPath: acquire.DownloadErrorPrefix + err.Error(), Err: err}
	}
	return convert.Extract(a.Converter, pdfPath)
}

// Whitepapers looks up company publications matching the keywords.
func (a *Analyzer) Whitepapers(ctx context.Context, req WhitepaperRequest) []whitepaper.Entry {
	return whitepaper.Fetch(ctx, a.Client, req.Company, req.Keywords, req.MaxResults)
}

func (a *Analyzer) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// syncWriter serializes progress lines from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter {
	if w == nil {
		w = io.Discard
	}
	return &syncWriter{w: w}
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
