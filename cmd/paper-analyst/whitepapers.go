// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyst/internal/whitepaper"
)

var whitepapersCmd = &cobra.Command{
	Use:   "whitepapers <company> <keywords...>",
	Short: "Find company whitepapers matching keywords",
	Long: fmt.Sprintf(`Whitepapers loads a company's publication listing and reports links whose
text contains the keywords. Only the first --max-results links are inspected.

Supported companies: %s.`, strings.Join(whitepaper.Companies(), ", ")),
	Args: cobra.MinimumNArgs(2),
	RunE: runWhitepapers,
}

func init() {
	whitepapersCmd.Flags().Int("max-results", whitepaper.DefaultMaxResults, "number of links inspected")
	whitepapersCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(whitepapersCmd)
}

func runWhitepapers(cmd *cobra.Command, args []string) error {
	cfg, err := appConfig(cmd)
	if err != nil {
		return err
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	client := &http.Client{Timeout: cfg.Acquisition.Timeout}
	entries := whitepaper.Fetch(cmd.Context(), client, args[0], strings.Join(args[1:], " "), maxResults)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	formatEntries(os.Stdout, entries)
	return nil
}

func formatEntries(w io.Writer, entries []whitepaper.Entry) {
	for _, e := range entries {
		switch {
		case e.Error != "":
			fmt.Fprintf(w, "error: %s\n", e.Error)
		case e.Note != "":
			fmt.Fprintln(w, e.Note)
		default:
			fmt.Fprintf(w, "%s\n  %s\n", e.Title, e.URL)
		}
	}
}
