// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

// PDFConverter reads page text with github.com/ledongthuc/pdf. Only the first
// MaxPages pages are read and the joined text is cut to MaxChars runes.
type PDFConverter struct {
	MaxPages int
	MaxChars int
}

// NewPDFConverter builds a converter from acquisition settings.
func NewPDFConverter(cfg types.AcquisitionConfig) *PDFConverter {
	return &PDFConverter{MaxPages: cfg.MaxPages, MaxChars: cfg.MaxChars}
}

// Convert extracts bounded plain text from the PDF at pdfPath. Malformed
// files that make the parser panic are reported as errors.
func (c *PDFConverter) Convert(pdfPath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF %s: %v", pdfPath, r)
		}
	}()

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	total := reader.NumPage()
	if c.MaxPages > 0 && total > c.MaxPages {
		total = c.MaxPages
	}

	var pages []string
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, pdfPath, err)
		}
		pages = append(pages, pageText)
	}
	return boundText(pages, c.MaxChars), nil
}
