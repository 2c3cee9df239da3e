// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyst/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "List arXiv papers matching title keywords without analysing them",
	Long: `Search runs the same arXiv query as analyze and prints the matches.
No PDFs are downloaded and no model calls are made.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("author", "", "restrict results to an author")
	searchCmd.Flags().Int("max-results", 0, "maximum number of papers (default from config)")
	searchCmd.Flags().Bool("loose", false, "keep results whose title differs from the keywords")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	author, _ := cmd.Flags().GetString("author")
	query := search.Query{Keywords: strings.Join(args, " "), Author: author}
	if query.IsEmpty() {
		return fmt.Errorf("provide title keywords or --author")
	}

	cfg, err := appConfig(cmd)
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.Search.MaxResults = n
	}
	if loose, _ := cmd.Flags().GetBool("loose"); loose {
		cfg.Search.ExactTitle = false
	}

	backend := &search.ArxivBackend{Client: &http.Client{Timeout: cfg.Search.Timeout}}
	results, err := search.Search(cmd.Context(), backend, query, cfg.Search)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return search.FormatJSON(results, os.Stdout)
	}
	search.FormatTable(results, os.Stdout)
	return nil
}
