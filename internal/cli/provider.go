package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"claim-fraud-alerts/internal/app"
)

var (
	providerThreshold float64
	providerLimit     int
)

var providerCmd = &cobra.Command{
	Use:   "provider <provider-id>",
	Short: "Show scan alerts for one provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "" {
			return fmt.Errorf("provider id must not be empty")
		}
		opts := app.ProviderOptions{
			ProviderID:   args[0],
			ThresholdPct: providerThreshold,
			Limit:        providerLimit,
		}
		return getApp().Provider(cmd.Context(), opts)
	},
}

func init() {
	providerCmd.Flags().Float64Var(&providerThreshold, "threshold", 0, "Deviation threshold percent (defaults to config)")
	providerCmd.Flags().IntVar(&providerLimit, "limit", 0, "Maximum alerts in the underlying scan (defaults to config)")
}
