// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refile-engine/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded refiles from the journal",
	Long: `History lists completed relocations recorded in the journal under the
destination root, newest first. Use --json for machine-readable output or
--export to write the listed entries to a YAML file.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringP("dest", "d", "", "destination root whose journal to read (default: current directory)")
	historyCmd.Flags().Int("limit", 50, "maximum number of entries to list")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")
	historyCmd.Flags().String("export", "", "write entries to a YAML file")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()

	dest, _ := cmd.Flags().GetString("dest")
	if dest == "" {
		dest = cfg.Refile.DestRoot
	}
	if dest == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dest = cwd
	}

	dir := cfg.Journal.Dir
	if dir == "" {
		dir = filepath.Join(dest, ".refile")
	}

	// Listing is read-only; opening the store would create an empty
	// database under a destination that was never journaled.
	var entries []journal.Entry
	if journal.Exists(dir) {
		store, err := journal.Open(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err = store.Recent(context.Background(), limit)
		if err != nil {
			return err
		}
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		if err := journal.ExportYAML(f, entries); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(entries), exportPath)
		return nil
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No refiles recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-14s  %-20s  %s\n", "Date", "Source", "Refiled At", "Destination")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-10s  %-14s  %-20s  %s\n",
			e.Stamp, e.DateSource, e.RefiledAt.Local().Format(time.DateTime), e.DestPath)
	}
	return nil
}
