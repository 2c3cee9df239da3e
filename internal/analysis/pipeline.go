// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyst/internal/llm"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// ExtractionFailedMarker is the error recorded on a degraded PaperRecord.
const ExtractionFailedMarker = "Failed to extract text from PDF"

// Pipeline sequences generator, analyzer, selector and synthesizer for one
// paper. It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	Generator    *TemplateGenerator
	Analyzer     *TemplateAnalyzer
	Selector     *TemplateSelector
	Synthesizer  *SummarySynthesizer
	SnippetChars int
	Logger       *zap.Logger
}

// NewPipeline wires all four stages to the same generator.
func NewPipeline(gen llm.Generator, cfg types.AnalysisConfig, timeout time.Duration, logger *zap.Logger) *Pipeline {
	logger = loggerOrNop(logger)
	return &Pipeline{
		Generator: &TemplateGenerator{LLM: gen, Budget: cfg.PromptBudget, Timeout: timeout, Logger: logger},
		Analyzer:  &TemplateAnalyzer{LLM: gen, Timeout: timeout, Logger: logger},
		Selector:  &TemplateSelector{LLM: gen, Timeout: timeout, Logger: logger},
		Synthesizer: &SummarySynthesizer{
			LLM:       gen,
			Budget:    cfg.PromptBudget,
			Timeout:   timeout,
			Executive: cfg.ExecutiveSummary,
			Logger:    logger,
		},
		SnippetChars: cfg.SnippetChars,
		Logger:       logger,
	}
}

// Run produces exactly one record for the paper. When extraction failed the
// record carries only source metadata and ExtractionFailedMarker; no model
// call is made.
func (p *Pipeline) Run(ctx context.Context, meta types.PaperMetadata, ex types.Extraction) types.PaperRecord {
	log := loggerOrNop(p.Logger).With(zap.String("title", meta.Title))
	rec := types.PaperRecord{
		Title:             meta.Title,
		Authors:           meta.AuthorList(),
		PDFURL:            meta.PDFURL,
		LocalArtifactPath: ex.LocalPath,
	}

	if ex.Failed() {
		fields := []zap.Field{zap.String("path", ex.LocalPath)}
		if ex.Err != nil {
			fields = append(fields, zap.Error(ex.Err))
		}
		log.Warn("skipping analysis, text extraction failed", fields...)
		rec.Error = ExtractionFailedMarker
		return rec
	}

	snippet := p.SnippetChars
	if snippet <= 0 {
		snippet = types.DefaultSnippetChars
	}
	rec.TextSnippet = Truncate(ex.Text, snippet)

	log.Info("analysis started")
	templates := p.Generator.Generate(ctx, ex.Text)
	analyses := p.Analyzer.Analyze(ctx, ex.Text, templates)
	verdict := p.Selector.Select(ctx, analyses)
	summaries := p.Synthesizer.Synthesize(ctx, ex.Text, verdict, analyses)

	rec.GeneratedTemplates = templates
	rec.TemplateAnalyses = analyses
	rec.BestTemplate = verdict.Template
	rec.TemplateSelectionReasoning = verdict.Reasoning
	rec.FocusedSummary = summaries.Focused
	rec.HolisticSummary = summaries.Holistic
	rec.ExecutiveSummary = summaries.Executive

	log.Info("analysis finished",
		zap.Int("templates", len(templates)),
		zap.Int("failed_analyses", analyses.Failures()),
		zap.String("best_template", verdict.Template))
	return rec
}
