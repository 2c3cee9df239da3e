// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes matching entries to <Dir>/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching entries to <Dir>/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	opts.MaxResults = exportLimit
	entries, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
