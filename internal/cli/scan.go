package cli

import (
	"github.com/spf13/cobra"

	"claim-fraud-alerts/internal/app"
)

var (
	scanThreshold float64
	scanLimit     int
	scanCSVPath   string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a fraud scan and print the ranked alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ScanOptions{
			ThresholdPct: scanThreshold,
			Limit:        scanLimit,
			CSVPath:      scanCSVPath,
		}
		return getApp().Scan(cmd.Context(), opts)
	},
}

func init() {
	scanCmd.Flags().Float64Var(&scanThreshold, "threshold", 0, "Deviation threshold percent (defaults to config)")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "Maximum alerts to return (defaults to config)")
	scanCmd.Flags().StringVar(&scanCSVPath, "csv", "", "Path to write the alert CSV export")
}
