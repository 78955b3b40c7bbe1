package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/alerting"
	"claim-fraud-alerts/internal/claims"
	"claim-fraud-alerts/internal/scan"
)

// SimulateAlert feeds a synthetic two-month series through the temporal
// detector and the configured channels, verifying delivery end to end
// without touching real claim data.
func (a *App) SimulateAlert(ctx context.Context, opts SimulateOptions) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is not enabled")
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no notification channel configured")
	}

	now := time.Now().UTC()
	series := []claims.Series{{
		ProviderID:           "SIMULATED",
		ProviderName:         "Simulated Provider",
		ProcedureCode:        "00000",
		ProcedureDescription: "Synthetic alert test",
		StateCode:            "XX",
		Points: []claims.MonthlyTotal{
			{Period: claims.PeriodOf(now.AddDate(0, -1, 0)), Total: decimal.NewFromFloat(opts.PreviousAmount)},
			{Period: claims.PeriodOf(now), Total: decimal.NewFromFloat(opts.CurrentAmount)},
		},
	}}

	threshold := decimal.NewFromFloat(a.Config.Scan.ThresholdPct)
	alerts := scan.ScanTemporal(series, threshold)
	if len(alerts) == 0 {
		return fmt.Errorf("simulated growth does not exceed the %s%% threshold; no alert to send", threshold.StringFixed(0))
	}

	note := alerting.Notification{
		RunAt:            now,
		ThresholdPct:     threshold,
		TotalAlerts:      len(alerts),
		FlaggedProviders: 1,
		Channels:         a.Config.Alerting.Channels,
		TopAlerts:        alerts,
	}
	return notifier.Notify(ctx, note)
}
