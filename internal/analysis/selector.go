// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyst/internal/llm"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

const (
	// DefaultSelectionReasoning explains a verdict that fell back to the
	// first analysed template.
	DefaultSelectionReasoning = "Default template selected due to selection error"

	// ContentSelectionReasoning is used when the model picked a valid
	// template without explaining why.
	ContentSelectionReasoning = "Template selected based on content analysis"
)

type selectionReply struct {
	SelectedTemplate string `json:"selected_template"`
	Reasoning        string `json:"reasoning"`
}

// TemplateSelector asks the model which analysis is most valuable.
type TemplateSelector struct {
	LLM     llm.Generator
	Timeout time.Duration
	Logger  *zap.Logger
}

// Select returns a verdict whose template is always a key of analyses
// (empty only when analyses is empty). No retry is attempted on failure.
func (s *TemplateSelector) Select(ctx context.Context, analyses types.Analyses) types.Verdict {
	log := loggerOrNop(s.Logger)
	if len(analyses) == 0 {
		v, _ := verdictOrFallback(llm.Result[selectionReply]{}, analyses)
		return v
	}

	var reply llm.Result[selectionReply]
	prompt, err := renderSelectionPrompt(analyses)
	if err != nil {
		reply = llm.Failure[selectionReply](err)
	} else {
		reply = llm.DecodeJSON[selectionReply](
			llm.Call(ctx, s.LLM, prompt, s.Timeout).Labeled("select template"))
	}

	verdict, fellBack := verdictOrFallback(reply, analyses)
	if fellBack {
		fields := []zap.Field{zap.String("template", verdict.Template)}
		if reply.Err != nil {
			fields = append(fields, zap.Error(reply.Err))
		} else {
			fields = append(fields, zap.String("returned", reply.Value.SelectedTemplate))
		}
		log.Warn("template selection fell back to first template", fields...)
	} else {
		log.Info("selected template", zap.String("template", verdict.Template))
	}
	return verdict
}

// verdictOrFallback validates a decoded selection reply against the analysed
// template names. A failed call, a parse error, or an unknown name selects
// the first analysed template with DefaultSelectionReasoning.
func verdictOrFallback(r llm.Result[selectionReply], analyses types.Analyses) (types.Verdict, bool) {
	fallback := types.Verdict{Reasoning: DefaultSelectionReasoning, Fallback: true}
	if len(analyses) > 0 {
		fallback.Template = analyses[0].Template
	}
	if len(analyses) == 0 || !r.OK() {
		return fallback, true
	}

	name := strings.TrimSpace(r.Value.SelectedTemplate)
	if !analyses.Has(name) {
		return fallback, true
	}
	reasoning := strings.TrimSpace(r.Value.Reasoning)
	if reasoning == "" {
		reasoning = ContentSelectionReasoning
	}
	return types.Verdict{Template: name, Reasoning: reasoning}, false
}
