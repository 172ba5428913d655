package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shopwatch/internal/pipeline"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Build the four feature tables from cleaned events",
	Long: `Features aggregates the persisted cleaned events into the session,
user, brand, and category tables and writes them to the features directory.
Run the clean stage first, or point base_path at existing artifacts.`,
	RunE: runFeatures,
}

var featuresFlagBasePath string

func init() {
	featuresCmd.Flags().StringVar(&featuresFlagBasePath, "base-path", "", "Override the configured data directory")

	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if featuresFlagBasePath != "" {
		cfg.BasePath = featuresFlagBasePath
	}

	if err := pipeline.New(cfg, log, nil).BuildFeatures(); err != nil {
		return err
	}

	fmt.Printf("Feature tables written to %s\n", cfg.FeaturesPath())
	return nil
}
