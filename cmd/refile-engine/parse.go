package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refile-engine/internal/dateparse"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Parse a literal date string and print the normalized stamp",
	Long: `Parse runs the date recognizer over the given text and prints the
normalized YYYYMMDD stamp. Useful for checking how a line from a document
would be interpreted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadPipelineConfig()
		p := dateparse.Parser{YearPivot: cfg.Resolve.YearPivot}

		cand, ok := p.Parse(args[0])
		if !ok {
			return fmt.Errorf("no date recognized in %q", args[0])
		}
		fmt.Println(cand.Stamp())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
