// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refile-engine/internal/confirm"
	"github.com/pdiddy/refile-engine/internal/dateparse"
	"github.com/pdiddy/refile-engine/internal/journal"
	"github.com/pdiddy/refile-engine/internal/ocr"
	"github.com/pdiddy/refile-engine/internal/pipeline"
	"github.com/pdiddy/refile-engine/internal/refile"
	"github.com/pdiddy/refile-engine/internal/resolve"
)

var runCmd = &cobra.Command{
	Use:   "run [scan-dir]",
	Short: "OCR scanned PDFs and move them into the datetree",
	Long: `Run discovers PDF files in the scan directory (and one level of
subdirectories), produces a searchable copy of each, resolves a date stamp
for it, and moves the searchable copy into dest/YYYY/MM/DD. The original is
deleted only after a successful move.

Files whose date cannot be resolved confidently prompt for confirmation.
Use --dry-run to see the resolved dates and targets without touching
anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("dest", "d", "", "destination root for the datetree (default: current directory)")
	runCmd.Flags().BoolP("dry-run", "n", false, "resolve dates and report targets without moving files")
	runCmd.Flags().Bool("no-journal", false, "do not record completed refiles in the journal")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := loadPipelineConfig()

	if dest, _ := cmd.Flags().GetString("dest"); dest != "" {
		cfg.Refile.DestRoot = dest
	}
	if noJournal, _ := cmd.Flags().GetBool("no-journal"); noJournal {
		cfg.Journal.Enabled = false
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	scanDir := cwd
	if len(args) == 1 {
		scanDir = args[0]
	}
	if cfg.Refile.DestRoot == "" {
		cfg.Refile.DestRoot = cwd
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Both fatal preconditions are checked before any file is touched.
	engine := ocr.NewEngine(cfg.OCR, logger)
	if err := engine.CheckDependencies(); err != nil {
		return err
	}
	for _, dir := range []string{scanDir, cfg.Refile.DestRoot} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("directory %s does not exist", dir)
		}
	}

	ws, err := pipeline.NewWorkspace()
	if err != nil {
		return err
	}
	defer ws.Remove()

	// The confirmation prompt blocks indefinitely, so an interrupt must
	// release the workspace itself rather than wait for the defer.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Exiting.")
		ws.Remove()
		os.Exit(1)
	}()

	p := &pipeline.Pipeline{
		Engine: engine,
		Resolver: resolve.Resolver{
			Parser: dateparse.Parser{YearPivot: cfg.Resolve.YearPivot},
			Config: cfg.Resolve,
		},
		Confirmer: confirm.New(os.Stdin, os.Stdout),
		Refiler:   refile.New(cfg.Refile.DestRoot, dryRun, logger),
		Workspace: ws,
		Logger:    logger,
	}

	if cfg.Journal.Enabled && !dryRun {
		dir := cfg.Journal.Dir
		if dir == "" {
			dir = filepath.Join(cfg.Refile.DestRoot, ".refile")
		}
		store, err := journal.Open(dir)
		if err != nil {
			// The journal is an audit trail; its absence never blocks a run.
			logger.Warn("journal unavailable", "dir", dir, "error", err)
		} else {
			defer store.Close()
			p.Journal = store
		}
	}

	result, err := p.Run(context.Background(), scanDir, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) skipped", result.Skipped)
	}
	return nil
}
