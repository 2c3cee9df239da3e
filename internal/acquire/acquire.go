// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads paper PDFs into a local directory and records a
// YAML metadata sidecar next to each one.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-analyst/internal/httputil"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

// DownloadErrorPrefix starts the text recorded as the local path when a
// download fails.
const DownloadErrorPrefix = "Error downloading PDF: "

// AcquirePaper downloads the paper's PDF and writes its metadata sidecar.
// If the PDF already exists on disk, the download is skipped. The skipped
// return value indicates whether the download was skipped.
func AcquirePaper(ctx context.Context, client *http.Client, meta types.PaperMetadata, cfg types.AcquisitionConfig, w io.Writer) (pdfPath string, skipped bool, err error) {
	if strings.TrimSpace(meta.PDFURL) == "" {
		return "", false, fmt.Errorf("no PDF URL for %q", meta.Title)
	}
	slug := Slug(meta.PDFURL)
	pdfPath = filepath.Join(cfg.PDFDir, FileName(meta.PDFURL))

	if _, statErr := os.Stat(pdfPath); statErr == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", slug)
		return pdfPath, true, nil
	}

	fmt.Fprintf(w, "downloading: %s\n", slug)
	if _, err := Download(ctx, client, meta.PDFURL, cfg); err != nil {
		return "", false, err
	}
	if err := WriteMetadata(meta, MetadataPath(pdfPath)); err != nil {
		fmt.Fprintf(w, "  warning: writing metadata for %s: %v\n", slug, err)
	}
	return pdfPath, false, nil
}

// Download fetches pdfURL into cfg.PDFDir and returns the local path. An
// existing file is reused. The body is written to a temporary file and
// renamed on success.
func Download(ctx context.Context, client *http.Client, pdfURL string, cfg types.AcquisitionConfig) (string, error) {
	destPath := filepath.Join(cfg.PDFDir, FileName(pdfURL))
	if _, err := os.Stat(destPath); err == nil {
		return destPath, nil
	}
	if err := os.MkdirAll(cfg.PDFDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", cfg.PDFDir, err)
	}
	if err := downloadFile(ctx, client, pdfURL, destPath, cfg); err != nil {
		return "", fmt.Errorf("downloading %s: %w", pdfURL, err)
	}
	return destPath, nil
}

// downloadFile fetches url to destPath using a temporary file.
// It sets User-Agent and requests PDF via Accept header.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.AcquisitionConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// MetadataPath returns the sidecar path for a PDF: same stem, .yaml extension.
func MetadataPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".yaml"
}

// WriteMetadata writes paper metadata to a YAML file.
func WriteMetadata(meta types.PaperMetadata, path string) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadMetadata reads paper metadata from a YAML file.
func ReadMetadata(path string) (types.PaperMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PaperMetadata{}, err
	}
	var meta types.PaperMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return types.PaperMetadata{}, err
	}
	return meta, nil
}
