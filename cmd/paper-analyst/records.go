// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-analyst/internal/archive"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List, show, and export archived analysis records",
	Long: `Records reads the local SQLite archive that analyze and serve write to.
Titles and summaries are indexed for full-text search.`,
}

var recordsListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List archived records, newest first or by relevance",
	RunE:  runRecordsList,
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived record as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsShow,
}

var recordsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived records to YAML or JSON",
	Long: `Export writes the archive (or a filtered subset) to export.yaml, or
export.json with --json, inside the archive directory.`,
	RunE: runRecordsExport,
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	store, err := recordsStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), recordsQuery(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	formatEntriesTable(os.Stdout, entries)
	return nil
}

func formatEntriesTable(w io.Writer, entries []archive.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-16s  %-50s  %s\n", "ID", "Created", "Title", "Best template")
	fmt.Fprintln(w, strings.Repeat("-", 130))
	for _, e := range entries {
		best := e.Record.BestTemplate
		if e.Record.Degraded() {
			best = "(failed)"
		}
		fmt.Fprintf(w, "%-36s  %-16s  %-50s  %s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(e.Record.Title, 50), best)
	}
	fmt.Fprintf(w, "\n%d records\n", len(entries))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func runRecordsShow(cmd *cobra.Command, args []string) error {
	store, err := recordsStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(entry)
}

func runRecordsExport(cmd *cobra.Command, args []string) error {
	store, err := recordsStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := recordsQuery(cmd, args)
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var path string
	if jsonOutput {
		path, err = store.ExportJSON(cmd.Context(), opts)
	} else {
		path, err = store.ExportYAML(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func recordsStore(cmd *cobra.Command) (*archive.Store, error) {
	cfg, err := appConfig(cmd)
	if err != nil {
		return nil, err
	}
	store, err := openArchive(cfg, false)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("archive disabled: set archive.dir in the config")
	}
	return store, nil
}

func recordsQuery(cmd *cobra.Command, args []string) archive.QueryOptions {
	template, _ := cmd.Flags().GetString("template")
	failed, _ := cmd.Flags().GetBool("failed")
	limit, _ := cmd.Flags().GetInt("limit")
	return archive.QueryOptions{
		Query:      strings.Join(args, " "),
		Template:   template,
		Failed:     failed,
		MaxResults: limit,
	}
}

func init() {
	for _, c := range []*cobra.Command{recordsListCmd, recordsExportCmd} {
		c.Flags().String("template", "", "filter by best template")
		c.Flags().Bool("failed", false, "only records whose extraction failed")
		c.Flags().Bool("json", false, "use JSON instead of the default format")
	}
	recordsListCmd.Flags().Int("limit", 0, "maximum records (0 = archive default)")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	recordsCmd.AddCommand(recordsExportCmd)

	rootCmd.AddCommand(recordsCmd)
}
