// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompts

import (
	"fmt"
	"strings"
)

// Static summary templates, selected by keywords in the caller's context.
const (
	ArchitectureFocus = "architecture_focus"
	HardwareFocus     = "hardware_focus"
	StatisticalFocus  = "statistical_focus"
)

type staticTemplate struct {
	key         string
	instruction string
}

// staticTemplates is ordered so sampled output is stable.
var staticTemplates = []staticTemplate{
	{ArchitectureFocus, "Summarize the paper's architectural innovations, model design, and neural network structures from the provided text."},
	{HardwareFocus, "Summarize hardware aspects, integrations, accelerators, and optimizations from the provided text."},
	{StatisticalFocus, "Summarize statistical modeling, probabilistic methods, and data analysis from the provided text."},
}

// SelectTemplate recommends a static template from free-text context.
func SelectTemplate(context string) string {
	ctx := strings.ToLower(context)
	switch {
	case containsAny(ctx, "statistic", "probabil", "data analysis"):
		return StatisticalFocus
	case containsAny(ctx, "hardware", "chip", "accelerator"):
		return HardwareFocus
	default:
		return ArchitectureFocus
	}
}

// StaticTemplateKeys lists the static template keys in order.
func StaticTemplateKeys() []string {
	keys := make([]string, len(staticTemplates))
	for i, t := range staticTemplates {
		keys[i] = t.key
	}
	return keys
}

// SummarizePaper builds a summarization prompt. With no templateKey the
// recommended template is used. When templateKey disagrees with the
// recommendation, every static template is sampled and a warning naming
// the recommendation is appended.
func SummarizePaper(paperText, context, templateKey string) string {
	recommended := SelectTemplate(context)
	if templateKey == "" {
		templateKey = recommended
	}

	if templateKey != recommended {
		var samples []string
		for _, t := range staticTemplates {
			samples = append(samples, fmt.Sprintf("Sample for %s: %s\n\nPaper content:\n%s", t.key, t.instruction, paperText))
		}
		warning := fmt.Sprintf("Chosen template '%s' may be unsuitable. Recommended: '%s'.", templateKey, recommended)
		return strings.Join(samples, "\n\n") + "\n\n" + warning
	}

	return fmt.Sprintf("%s\n\nPaper content:\n%s", instructionFor(templateKey), paperText)
}

func instructionFor(key string) string {
	for _, t := range staticTemplates {
		if t.key == key {
			return t.instruction
		}
	}
	return staticTemplates[0].instruction
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
