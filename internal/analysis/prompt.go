// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

// TextPlaceholder marks where a template instruction receives the paper text.
const TextPlaceholder = "{text}"

var generationPromptTmpl = template.Must(template.New("generation").Parse(`You are an expert research paper analyzer. Based on the following paper excerpt, generate 3-5 focused analysis templates that will help deeply understand this specific paper.

Paper excerpt:
{{.Text}}

Generate templates that cover these aspects:
1. **Architecture & Design Evolution**: Analyze the architectural innovations, model design choices, and WHY this architecture evolved. Explain the domain needs and problems that drove these specific design decisions. What was inadequate in previous approaches?

2. **Mathematical & Statistical Foundations**: Explain the statistical equations, mathematical formulations, and their functional role. Connect the math to the practical functionality - HOW do these equations enable the system to work? What problem does each equation solve?

3. **Problem Context & Motivation**: Identify the core problem being solved, the gap in existing research, and why this work matters to the field.

4. **Advantages & Trade-offs**: Analyze the benefits, limitations, computational costs, performance gains, and practical trade-offs of the proposed approach compared to alternatives.

5. **Future Research Directions & Scope**: Identify open questions, potential improvements, unexplored variations, and promising research directions suggested by or enabled by this work.

Return your response as a JSON object with this structure:
{
  "templates": [
    {
      "name": "architecture_evolution",
      "description": "Brief description of what this template analyzes",
      "prompt": "Detailed prompt that instructs the AI to analyze this specific aspect of the paper in depth"
    },
    ...
  ]
}

Make each template prompt specific, detailed, and actionable. The prompts should guide deep analysis, not just summarization.
`))

var selectionPromptTmpl = template.Must(template.New("selection").Parse(`You are analyzing a research paper. You have generated multiple analysis templates and their corresponding analyses.

Available templates and their analyses:
{{.Analyses}}

Your task:
1. Review all the analyses above
2. Determine which template/aspect provides the MOST valuable insights for understanding this paper
3. Explain why this aspect is most critical

Respond in JSON format:
{
  "selected_template": "template_name",
  "reasoning": "Explanation of why this template is most valuable for this specific paper"
}
`))

var focusedPromptTmpl = template.Must(template.New("focused").Parse(`You are summarizing a research paper with focus on: {{.Template}}

Paper text:
{{.Text}}

Analysis from the selected perspective:
{{.Analysis}}

Generate a comprehensive, well-structured summary that:
1. Clearly explains the main contribution
2. Focuses on the {{.Aspect}} aspects
3. Uses clear, technical language
4. Provides specific details and insights
5. Is suitable for researchers in this field

Length: 300-500 words
`))

var holisticPromptTmpl = template.Must(template.New("holistic").Parse(`You are creating a holistic summary of a research paper by synthesizing multiple analytical perspectives.

All analyses:
{{.Analyses}}

Create a comprehensive summary that:
1. **Overview**: What is this paper about? (2-3 sentences)
2. **Architecture & Design**: Key architectural innovations and why they evolved
3. **Mathematical Foundations**: How the math/statistics enable functionality
4. **Key Advantages**: Main benefits and performance improvements
5. **Limitations & Trade-offs**: Important constraints or costs
6. **Future Directions**: Promising research opportunities

Structure your response with clear sections. Be specific and technical.
Length: 400-600 words
`))

var executivePromptTmpl = template.Must(template.New("executive").Parse(`Based on these analyses of a research paper, provide a brief executive summary (3-4 sentences):

{{.Analyses}}

Focus on:
- The core innovation or contribution
- Why it matters
- Key results or advantages
`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderGenerationPrompt builds the meta-prompt from an already truncated excerpt.
func renderGenerationPrompt(excerpt string) (string, error) {
	return render(generationPromptTmpl, struct{ Text string }{excerpt})
}

func renderSelectionPrompt(analyses types.Analyses) (string, error) {
	serialized, err := serializeAnalyses(analyses)
	if err != nil {
		return "", err
	}
	return render(selectionPromptTmpl, struct{ Analyses string }{serialized})
}

// renderFocusedPrompt embeds the selected template, a bounded text prefix and
// the selected analysis.
func renderFocusedPrompt(templateName, excerpt, selectedAnalysis string) (string, error) {
	return render(focusedPromptTmpl, struct {
		Template, Aspect, Text, Analysis string
	}{
		Template: templateName,
		Aspect:   Humanize(templateName),
		Text:     excerpt,
		Analysis: selectedAnalysis,
	})
}

func renderHolisticPrompt(analyses types.Analyses) (string, error) {
	serialized, err := serializeAnalyses(analyses)
	if err != nil {
		return "", err
	}
	return render(holisticPromptTmpl, struct{ Analyses string }{serialized})
}

func renderExecutivePrompt(analyses types.Analyses) (string, error) {
	serialized, err := serializeAnalyses(analyses)
	if err != nil {
		return "", err
	}
	return render(executivePromptTmpl, struct{ Analyses string }{serialized})
}

// FillTemplate substitutes the paper text into an instruction. Instructions
// without a {text} placeholder get the text appended under a heading.
func FillTemplate(instruction, text string) string {
	if strings.Contains(instruction, TextPlaceholder) {
		return strings.ReplaceAll(instruction, TextPlaceholder, text)
	}
	return strings.TrimRight(instruction, "\n ") + "\n\nPaper text:\n" + text
}

// Humanize turns a template name into prose: "mathematical_foundations"
// becomes "mathematical foundations".
func Humanize(name string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// Truncate returns at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func serializeAnalyses(analyses types.Analyses) (string, error) {
	b, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
