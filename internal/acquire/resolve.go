// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// FileName returns the local file name for a PDF URL: the last path segment,
// with ".pdf" appended when missing. URLs without a usable segment get a
// hash-based name.
func FileName(pdfURL string) string {
	u, err := url.Parse(strings.TrimSpace(pdfURL))
	if err != nil {
		return urlHashSlug(pdfURL) + ".pdf"
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return urlHashSlug(pdfURL) + ".pdf"
	}
	if !strings.EqualFold(path.Ext(base), ".pdf") {
		base += ".pdf"
	}
	return base
}

// Slug returns the file name without its extension.
func Slug(pdfURL string) string {
	name := FileName(pdfURL)
	return strings.TrimSuffix(name, path.Ext(name))
}

func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("url-%x", h[:8])
}
