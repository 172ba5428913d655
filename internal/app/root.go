// Package app contains the Cobra command tree for shopwatch.
package app

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shopwatch/internal/config"
	"github.com/blackwell-systems/shopwatch/internal/logger"
	"github.com/blackwell-systems/shopwatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "shopwatch",
	Short: "Batch analytics for e-commerce clickstream data",
	Long: `shopwatch turns a raw clickstream CSV into session, user, brand, and
category feature tables, then generates a versioned metrics summary with
rule-based insights. Each run is tagged, persisted as JSON, and recorded
so later runs can diff against it as a baseline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			output.SetNoColor(true)
		} else {
			output.AutoDetect()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("shopwatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  run       Run the full pipeline and write a tagged summary")
		fmt.Println("  clean     Clean the raw event feed")
		fmt.Println("  features  Build the four feature tables from cleaned events")
		fmt.Println("  insights  Generate a summary from persisted feature tables")
		fmt.Println("  history   List recorded runs")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger, shared by every
// subcommand.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logger.New(flagVerbose), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/shopwatch/shopwatch.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
