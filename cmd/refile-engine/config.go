// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refile-engine/pkg/types"
)

const exampleConfigName = "refile-engine.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage refile-engine configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example refile-engine.yaml with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(exampleConfigName); err == nil {
			return fmt.Errorf("%s already exists", exampleConfigName)
		}

		data, err := yaml.Marshal(types.DefaultPipelineConfig())
		if err != nil {
			return err
		}
		header := "# refile-engine configuration\n" +
			"# The resolve heuristics (staleness window, year pivot) carry deliberate\n" +
			"# defaults; change them only with good reason.\n\n"
		if err := os.WriteFile(exampleConfigName, []byte(header+string(data)), 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", exampleConfigName)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
