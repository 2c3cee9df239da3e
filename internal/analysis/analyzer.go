// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyst/internal/llm"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// TemplateAnalyzer applies every template to the full paper text.
type TemplateAnalyzer struct {
	LLM     llm.Generator
	Timeout time.Duration
	Logger  *zap.Logger
}

// Analyze issues one call per template, in template order, and returns
// exactly one analysis per template. A failed call is recorded as an
// analysis whose text describes the failure.
func (a *TemplateAnalyzer) Analyze(ctx context.Context, text string, templates types.Templates) types.Analyses {
	log := loggerOrNop(a.Logger)
	out := make(types.Analyses, 0, len(templates))
	for _, t := range templates {
		r := llm.Call(ctx, a.LLM, FillTemplate(t.Instruction, text), a.Timeout).Labeled("analyze")
		analysis := analysisFromResult(t.Name, r)
		if analysis.Failed {
			log.Warn("template analysis failed", zap.String("template", t.Name), zap.Error(r.Err))
		}
		out = append(out, analysis)
	}
	return out
}

func analysisFromResult(name string, r llm.Result[string]) types.Analysis {
	if !r.OK() {
		return types.Analysis{
			Template: name,
			Text:     fmt.Sprintf("%s%s: %v", types.AnalysisErrorPrefix, name, r.Err),
			Failed:   true,
		}
	}
	return types.Analysis{Template: name, Text: r.Value}
}
