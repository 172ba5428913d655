package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shopwatch/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw event feed",
	Long: `Clean decodes the raw clickstream CSV, removes exact duplicates and
sessionless rows, normalizes missing brands, derives the time and session
columns, and persists the cleaned table.`,
	RunE: runClean,
}

var cleanFlagBasePath string

func init() {
	cleanCmd.Flags().StringVar(&cleanFlagBasePath, "base-path", "", "Override the configured data directory")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cleanFlagBasePath != "" {
		cfg.BasePath = cleanFlagBasePath
	}

	n, err := pipeline.New(cfg, log, nil).Clean()
	if err != nil {
		return err
	}

	fmt.Printf("Cleaned %d events into %s\n", n, cfg.CleanedPath())
	return nil
}
