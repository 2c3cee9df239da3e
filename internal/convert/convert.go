// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts bounded plain text from downloaded PDFs.
package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

// ErrNoText is returned when a PDF yields no extractable text.
var ErrNoText = errors.New("no text extracted from PDF")

// Converter transforms a PDF file into plain text.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns its text.
	Convert(pdfPath string) (string, error)
}

// Extract runs c on pdfPath and reports the outcome as an Extraction.
// Blank text is reported as ErrNoText.
func Extract(c Converter, pdfPath string) types.Extraction {
	text, err := c.Convert(pdfPath)
	if err != nil {
		return types.Extraction{LocalPath: pdfPath, Err: fmt.Errorf("extracting %s: %w", pdfPath, err)}
	}
	if strings.TrimSpace(text) == "" {
		return types.Extraction{LocalPath: pdfPath, Err: ErrNoText}
	}
	return types.Extraction{LocalPath: pdfPath, Text: text}
}

// boundText joins page texts and truncates the result to maxChars runes.
func boundText(pages []string, maxChars int) string {
	var b strings.Builder
	for _, p := range pages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p)
	}
	text := b.String()
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
