// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refile-engine CLI.
// Implements: prd010-refile-pipeline, prd011-date-resolution,
//             prd012-refiling (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refile-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --log-level before any subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the refile-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "refile-engine",
	Short: "Organize scanned PDFs into a searchable datetree",
	Long: `refile-engine runs OCR over scanned PDF files and moves them into a
date-partitioned folder structure (YYYY/MM/DD). The date for each file is
inferred from the filename, the document text, or the file timestamp, with
an interactive confirmation when no confident date exists.

Existing files in the destination tree are never overwritten; naming
collisions are disambiguated with a numeric suffix.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		l, err := parseLogLevel(level)
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refile-engine.yaml or ~/.config/refile-engine/config.yaml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level: debug, info, warning, or error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refile-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refile-engine"))
		}
	}

	viper.SetEnvPrefix("REFILE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// parseLogLevel maps the CLI verbosity name to a slog level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (use debug, info, warning, or error)", level)
	}
}

// loadPipelineConfig merges the config file over the built-in defaults.
// Flags override individual fields in the subcommands.
func loadPipelineConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	if v := viper.GetString("ocr.ocrmypdf"); v != "" {
		cfg.OCR.Ocrmypdf = v
	}
	if v := viper.GetString("ocr.pdftotext"); v != "" {
		cfg.OCR.Pdftotext = v
	}
	if viper.IsSet("resolve.staleness_window_days") {
		cfg.Resolve.StalenessWindowDays = viper.GetInt("resolve.staleness_window_days")
	}
	if viper.IsSet("resolve.year_pivot") {
		cfg.Resolve.YearPivot = viper.GetInt("resolve.year_pivot")
	}
	if v := viper.GetString("refile.dest_root"); v != "" {
		cfg.Refile.DestRoot = v
	}
	if viper.IsSet("journal.enabled") {
		cfg.Journal.Enabled = viper.GetBool("journal.enabled")
	}
	if v := viper.GetString("journal.dir"); v != "" {
		cfg.Journal.Dir = v
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
