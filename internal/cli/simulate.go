package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"claim-fraud-alerts/internal/app"
)

var (
	simulatePrevious float64
	simulateCurrent  float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "Feed a synthetic billing spike through the alert channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulatePrevious <= 0 || simulateCurrent <= 0 {
			return errors.New("--previous and --current must be greater than 0")
		}
		opts := app.SimulateOptions{
			PreviousAmount: simulatePrevious,
			CurrentAmount:  simulateCurrent,
		}
		return getApp().SimulateAlert(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simulatePrevious, "previous", 0, "Prior month billed amount")
	simulateCmd.Flags().Float64Var(&simulateCurrent, "current", 0, "Current month billed amount")
}
