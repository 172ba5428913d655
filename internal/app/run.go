package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shopwatch/internal/output"
	"github.com/blackwell-systems/shopwatch/internal/pipeline"
	"github.com/blackwell-systems/shopwatch/internal/store"
)

var (
	runFlagTag          string
	runFlagBaseline     string
	runFlagBasePath     string
	runFlagOutput       string
	runFlagSkipClean    bool
	runFlagSkipFeatures bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and write a tagged summary",
	Long: `Run cleans the raw event feed, builds the four feature tables, computes
the metrics summary, and writes it to <output>/summary_<tag>.json. The run is
recorded in the history database; --baseline names a prior summary file or a
recorded tag to diff funnel rates against.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFlagTag, "tag", "", "Version tag for the summary file (required)")
	runCmd.Flags().StringVar(&runFlagBaseline, "baseline", "", "Baseline summary file or recorded tag")
	runCmd.Flags().StringVar(&runFlagBasePath, "base-path", "", "Override the configured data directory")
	runCmd.Flags().StringVarP(&runFlagOutput, "output", "o", "", "Override the configured summary output directory")
	runCmd.Flags().BoolVar(&runFlagSkipClean, "skip-clean", false, "Reuse the persisted cleaned events")
	runCmd.Flags().BoolVar(&runFlagSkipFeatures, "skip-features", false, "Reuse the persisted feature tables")
	_ = runCmd.MarkFlagRequired("tag")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if runFlagBasePath != "" {
		cfg.BasePath = runFlagBasePath
	}
	if runFlagOutput != "" {
		cfg.OutputDir = runFlagOutput
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		// History is best-effort; the pipeline still runs without it.
		log.WithField("error", err).Warn("run history unavailable")
		db = nil
	} else {
		defer db.Close()
	}

	result, err := pipeline.New(cfg, log, db).Run(pipeline.Options{
		Tag:          runFlagTag,
		Baseline:     runFlagBaseline,
		SkipClean:    runFlagSkipClean,
		SkipFeatures: runFlagSkipFeatures,
	})
	if err != nil {
		return err
	}

	fmt.Println(output.RenderSummary(result.Summary))
	fmt.Printf("Summary written to %s\n", result.OutputPath)
	return nil
}
