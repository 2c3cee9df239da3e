// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompts renders the static prompts offered next to the analysis
// pipeline: concept explanations and keyword-routed paper summaries.
package prompts

import (
	"fmt"
	"strings"
)

// Detail levels for ExplainConcept.
const (
	LevelSimple   = "simple"
	LevelMedium   = "medium"
	LevelAdvanced = "advanced"
)

var levelInstructions = map[string]string{
	LevelSimple:   "Explain this concept in simple terms for beginners.",
	LevelMedium:   "Provide a balanced explanation with some technical details.",
	LevelAdvanced: "Give a detailed, technical explanation suitable for experts.",
}

// ExplainConcept returns an explanation prompt for concept. Unknown levels
// use the medium instruction.
func ExplainConcept(concept, level string) string {
	instruction, ok := levelInstructions[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		instruction = levelInstructions[LevelMedium]
	}
	return fmt.Sprintf("%s\n\nConcept: %s", instruction, concept)
}
