// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import "github.com/pdiddy/paper-analyst/pkg/types"

// FallbackTemplates returns the built-in template set used whenever dynamic
// generation fails. Each call returns a fresh slice.
func FallbackTemplates() types.Templates {
	return types.Templates{
		{
			Name:        "architecture_evolution",
			Description: "Architectural innovations and the needs that drove them",
			Instruction: `Analyze the architectural innovations and design choices in this paper:
1. What is the proposed architecture/model design?
2. WHY did this architecture evolve? What domain needs drove these decisions?
3. What problems in existing approaches does this architecture solve?
4. How do the design choices connect to the problem requirements?
5. What makes this architecture different from previous work?

Paper text: {text}`,
		},
		{
			Name:        "mathematical_foundations",
			Description: "Key equations and how they enable the system",
			Instruction: `Explain the mathematical and statistical foundations:
1. What are the key equations, formulations, or statistical models?
2. HOW does each equation contribute to the functionality?
3. What problem does the math solve in practical terms?
4. Connect the mathematical formalism to system behavior and performance.
5. Why are these specific mathematical approaches necessary?

Paper text: {text}`,
		},
		{
			Name:        "problem_and_motivation",
			Description: "The core problem and the research gap",
			Instruction: `Analyze the problem context and research motivation:
1. What is the core problem being addressed?
2. Why were existing solutions inadequate?
3. What gap in research does this fill?
4. Why does this work matter to the field?
5. What are the real-world applications or implications?

Paper text: {text}`,
		},
		{
			Name:        "advantages_and_tradeoffs",
			Description: "Benefits, limitations and costs",
			Instruction: `Evaluate the advantages, limitations, and trade-offs:
1. What are the key benefits of this approach?
2. What are the limitations or weaknesses?
3. What are the computational costs and efficiency considerations?
4. How does it compare to alternative approaches?
5. What trade-offs were made in the design?

Paper text: {text}`,
		},
		{
			Name:        "future_research",
			Description: "Open questions and research directions",
			Instruction: `Identify future research directions and scope:
1. What questions remain open or unexplored?
2. What improvements or extensions are suggested?
3. What new research directions does this enable?
4. What variations or applications could be investigated?
5. What are the potential long-term impacts?

Paper text: {text}`,
		},
	}
}
