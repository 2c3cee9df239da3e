// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis implements the per-paper template pipeline: generate
// analysis templates, apply each one, select the most valuable lens, and
// synthesize focused and holistic summaries. Every stage tolerates failing or
// malformed model replies and always returns a usable value.
package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyst/internal/llm"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// generatedTemplates is the JSON reply shape requested by the meta-prompt.
type generatedTemplates struct {
	Templates []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Prompt      string `json:"prompt"`
	} `json:"templates"`
}

// TemplateGenerator asks the model to invent analysis templates for a paper.
type TemplateGenerator struct {
	LLM     llm.Generator
	Budget  int
	Timeout time.Duration
	Logger  *zap.Logger
}

// Generate returns the templates for text. It never fails: any call or parse
// problem yields FallbackTemplates.
func (g *TemplateGenerator) Generate(ctx context.Context, text string) types.Templates {
	log := loggerOrNop(g.Logger)
	budget := g.Budget
	if budget <= 0 {
		budget = types.DefaultPromptBudget
	}

	prompt, err := renderGenerationPrompt(Truncate(text, budget))
	if err != nil {
		log.Warn("rendering template generation prompt, using fallback templates", zap.Error(err))
		return FallbackTemplates()
	}

	reply := llm.DecodeJSON[generatedTemplates](
		llm.Call(ctx, g.LLM, prompt, g.Timeout).Labeled("generate templates"))
	templates, fellBack := templatesOrFallback(reply)
	if fellBack {
		log.Warn("template generation failed, using fallback templates", zap.Error(reply.Err))
	} else {
		log.Info("generated templates", zap.Strings("templates", templates.Keys()))
	}
	return templates
}

// templatesOrFallback turns a decoded generation reply into a template set.
// Records without a name or prompt are skipped and duplicate names keep the
// first occurrence. The bool is true when the fallback set was used.
func templatesOrFallback(r llm.Result[generatedTemplates]) (types.Templates, bool) {
	if !r.OK() {
		return FallbackTemplates(), true
	}
	var out types.Templates
	seen := make(map[string]bool)
	for _, t := range r.Value.Templates {
		name := strings.TrimSpace(t.Name)
		prompt := strings.TrimSpace(t.Prompt)
		if name == "" || prompt == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, types.Template{
			Name:        name,
			Description: strings.TrimSpace(t.Description),
			Instruction: prompt,
		})
	}
	if len(out) == 0 {
		return FallbackTemplates(), true
	}
	return out, false
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
