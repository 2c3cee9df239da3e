// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyst/internal/service"
	"github.com/pdiddy/paper-analyst/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [keywords...]",
	Short: "Search arXiv and analyse every matching paper",
	Long: `Analyze searches arXiv by title keywords (and optionally author), downloads
each PDF, extracts its text, and runs the template pipeline: generate lenses,
analyse with each, select the best, and summarise.

Papers whose PDF cannot be downloaded or read still produce a record with
an error field. Records are archived unless --no-archive is given.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("author", "", "restrict results to an author")
	analyzeCmd.Flags().Int("max-results", 0, "maximum number of papers (default from config)")
	analyzeCmd.Flags().Int("workers", 0, "papers analysed concurrently (default from config)")
	analyzeCmd.Flags().Bool("executive", false, "also write an executive summary")
	analyzeCmd.Flags().Bool("json", false, "output records as JSON")
	analyzeCmd.Flags().Bool("no-archive", false, "do not save records to the archive")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	author, _ := cmd.Flags().GetString("author")
	req := service.ArxivRequest{Keywords: strings.Join(args, " "), Author: author}
	if strings.TrimSpace(req.Keywords) == "" && strings.TrimSpace(author) == "" {
		return fmt.Errorf("provide title keywords or --author")
	}
	req.MaxResults, _ = cmd.Flags().GetInt("max-results")

	cfg, err := appConfig(cmd)
	if err != nil {
		return err
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Analysis.Workers = workers
	}
	if exec, _ := cmd.Flags().GetBool("executive"); exec {
		cfg.Analysis.ExecutiveSummary = true
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	gen, err := newGenerator(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	noArchive, _ := cmd.Flags().GetBool("no-archive")
	store, err := openArchive(cfg, noArchive)
	if err != nil {
		return err
	}

	svc := service.New(cfg, gen, nil, logger, os.Stderr)
	if store != nil {
		defer store.Close()
		svc.Archive = store
	}

	records, err := svc.AnalyzeArxiv(ctx, req)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	formatRecords(os.Stdout, records)
	return nil
}

// formatRecords prints a readable report of each record.
func formatRecords(w io.Writer, records []types.PaperRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	for i, r := range records {
		fmt.Fprintf(w, "[%d] %s\n", i+1, r.Title)
		fmt.Fprintf(w, "    Authors: %s\n", r.Authors)
		fmt.Fprintf(w, "    PDF:     %s\n", r.PDFURL)
		fmt.Fprintf(w, "    Local:   %s\n", r.LocalArtifactPath)
		if r.Degraded() {
			fmt.Fprintf(w, "    Error:   %s\n\n", r.Error)
			continue
		}
		fmt.Fprintf(w, "    Templates: %s\n", strings.Join(r.GeneratedTemplates.Keys(), ", "))
		fmt.Fprintf(w, "    Best template: %s\n", r.BestTemplate)
		fmt.Fprintf(w, "    Reasoning: %s\n", r.TemplateSelectionReasoning)
		fmt.Fprintf(w, "\n  Focused summary\n%s\n", indent(r.FocusedSummary))
		fmt.Fprintf(w, "\n  Holistic summary\n%s\n", indent(r.HolisticSummary))
		if r.ExecutiveSummary != "" {
			fmt.Fprintf(w, "\n  Executive summary\n%s\n", indent(r.ExecutiveSummary))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d paper(s)\n", len(records))
}

func indent(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
