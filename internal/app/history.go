package app

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shopwatch/internal/output"
	"github.com/blackwell-systems/shopwatch/internal/store"
)

var historyFlagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long:  `History lists previous pipeline runs with their headline metrics, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlagLimit, "limit", 20, "Maximum runs to show (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(historyFlagLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	tbl := output.NewTable("Tag", "Generated", "Sessions", "Revenue", "View→Purchase", "Insights")
	for _, r := range runs {
		rate := "n/a"
		if !math.IsNaN(r.ViewToPurchase) {
			rate = fmt.Sprintf("%.1f%%", r.ViewToPurchase*100)
		}
		tbl.AddRow(
			r.Tag,
			r.GeneratedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(r.TotalSessions),
			fmt.Sprintf("$%.2f", r.TotalRevenue),
			rate,
			strconv.Itoa(r.InsightCount),
		)
	}
	tbl.Print()
	return nil
}
