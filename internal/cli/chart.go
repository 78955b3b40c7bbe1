package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"claim-fraud-alerts/internal/app"
)

var (
	chartProvider  string
	chartProcedure string
	chartPNGPath   string
	chartMaxPoints int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a provider/procedure monthly billing series as a PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartProvider == "" || chartProcedure == "" || chartPNGPath == "" {
			return fmt.Errorf("--provider, --procedure, and --png must all be provided")
		}
		opts := app.ChartOptions{
			ProviderID:    chartProvider,
			ProcedureCode: chartProcedure,
			PNGPath:       chartPNGPath,
			MaxPoints:     chartMaxPoints,
		}
		return getApp().Chart(cmd.Context(), opts)
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartProvider, "provider", "", "Provider identifier")
	chartCmd.Flags().StringVar(&chartProcedure, "procedure", "", "Procedure code")
	chartCmd.Flags().StringVar(&chartPNGPath, "png", "", "Path to write the PNG chart")
	chartCmd.Flags().IntVar(&chartMaxPoints, "max-points", 0, "Maximum data points to plot (defaults to config)")
}
