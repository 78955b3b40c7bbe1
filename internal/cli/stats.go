package cli

import (
	"github.com/spf13/cobra"

	"claim-fraud-alerts/internal/app"
)

var (
	statsThreshold float64
	statsLimit     int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard aggregate counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.StatsOptions{
			ThresholdPct: statsThreshold,
			Limit:        statsLimit,
		}
		return getApp().Stats(cmd.Context(), opts)
	},
}

func init() {
	statsCmd.Flags().Float64Var(&statsThreshold, "threshold", 0, "Deviation threshold percent (defaults to config)")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 0, "Maximum alerts in the underlying scan (defaults to config)")
}
