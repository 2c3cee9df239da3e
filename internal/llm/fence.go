// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import "strings"

// StripCodeFence removes a markdown code fence wrapped around a model reply.
// The text is trimmed, one leading "```json" (or else "```") and one trailing
// "```" are removed, and the result is trimmed again. Text without a fence is
// returned trimmed.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(s, "```json"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "```"); ok {
		s = rest
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
