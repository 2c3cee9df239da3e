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

// Summary kinds, used in failure text.
const (
	KindFocused   = "focused"
	KindHolistic  = "holistic"
	KindExecutive = "executive"
)

// SummarySynthesizer produces the focused, holistic and (optionally)
// executive summaries for a paper.
type SummarySynthesizer struct {
	LLM       llm.Generator
	Budget    int
	Timeout   time.Duration
	Executive bool
	Logger    *zap.Logger
}

// Synthesize issues the focused call for the verdict's template and an
// independent holistic call over all analyses. Failures become error text in
// the affected field.
func (s *SummarySynthesizer) Synthesize(ctx context.Context, text string, verdict types.Verdict, analyses types.Analyses) types.Summaries {
	budget := s.Budget
	if budget <= 0 {
		budget = types.DefaultPromptBudget
	}
	selected, _ := analyses.Get(verdict.Template)

	var out types.Summaries
	out.Focused = s.summarize(ctx, KindFocused, func() (string, error) {
		return renderFocusedPrompt(verdict.Template, Truncate(text, budget), selected)
	})
	out.Holistic = s.summarize(ctx, KindHolistic, func() (string, error) {
		return renderHolisticPrompt(analyses)
	})
	if s.Executive {
		out.Executive = s.summarize(ctx, KindExecutive, func() (string, error) {
			return renderExecutivePrompt(analyses)
		})
	}
	return out
}

func (s *SummarySynthesizer) summarize(ctx context.Context, kind string, prompt func() (string, error)) string {
	var r llm.Result[string]
	p, err := prompt()
	if err != nil {
		r = llm.Failure[string](err)
	} else {
		r = llm.Call(ctx, s.LLM, p, s.Timeout).Labeled(kind + " summary")
	}
	if !r.OK() {
		loggerOrNop(s.Logger).Warn("summary generation failed", zap.String("kind", kind), zap.Error(r.Err))
	}
	return summaryFromResult(kind, r)
}

func summaryFromResult(kind string, r llm.Result[string]) string {
	if !r.OK() {
		return fmt.Sprintf("Error generating %s summary: %v", kind, r.Err)
	}
	return r.Value
}
