package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shopwatch/internal/output"
	"github.com/blackwell-systems/shopwatch/internal/pipeline"
	"github.com/blackwell-systems/shopwatch/internal/store"
)

var (
	insightsFlagTag      string
	insightsFlagBaseline string
	insightsFlagBasePath string
	insightsFlagOutput   string
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate a summary from persisted feature tables",
	Long: `Insights skips the clean and feature stages and computes the metrics
summary directly from the persisted feature tables, writing it under the
given tag.`,
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().StringVar(&insightsFlagTag, "tag", "", "Version tag for the summary file (required)")
	insightsCmd.Flags().StringVar(&insightsFlagBaseline, "baseline", "", "Baseline summary file or recorded tag")
	insightsCmd.Flags().StringVar(&insightsFlagBasePath, "base-path", "", "Override the configured data directory")
	insightsCmd.Flags().StringVarP(&insightsFlagOutput, "output", "o", "", "Override the configured summary output directory")
	_ = insightsCmd.MarkFlagRequired("tag")

	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if insightsFlagBasePath != "" {
		cfg.BasePath = insightsFlagBasePath
	}
	if insightsFlagOutput != "" {
		cfg.OutputDir = insightsFlagOutput
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		log.WithField("error", err).Warn("run history unavailable")
		db = nil
	} else {
		defer db.Close()
	}

	result, err := pipeline.New(cfg, log, db).Insights(pipeline.Options{
		Tag:      insightsFlagTag,
		Baseline: insightsFlagBaseline,
	})
	if err != nil {
		return err
	}

	fmt.Println(output.RenderSummary(result.Summary))
	fmt.Printf("Summary written to %s\n", result.OutputPath)
	return nil
}
