package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"claim-fraud-alerts/internal/export"
	"claim-fraud-alerts/internal/scan"
)

// Scan runs one on-demand scan and prints the assembled alerts.
func (a *App) Scan(ctx context.Context, opts ScanOptions) error {
	engine, closer, err := a.newEngine(ctx)
	if err != nil {
		return err
	}
	defer closer()

	result, err := engine.Run(ctx, scanParams(opts.ThresholdPct, opts.Limit))
	if err != nil {
		return err
	}

	if opts.CSVPath != "" {
		if err := export.WriteAlertsCSV(opts.CSVPath, result.Alerts); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Int("alerts", len(result.Alerts)).Msg("alerts exported")
	}

	printAlerts(result.Alerts)
	fmt.Fprintf(os.Stdout, "\n%d alerts across %d providers\n", result.TotalAlertCount, result.FlaggedProviderCount())
	return nil
}

// Provider prints the scan subset for one provider.
func (a *App) Provider(ctx context.Context, opts ProviderOptions) error {
	engine, closer, err := a.newEngine(ctx)
	if err != nil {
		return err
	}
	defer closer()

	alerts, err := engine.ProviderAlerts(ctx, opts.ProviderID, scanParams(opts.ThresholdPct, opts.Limit))
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintf(os.Stdout, "provider %s is not flagged\n", opts.ProviderID)
		return nil
	}

	printAlerts(alerts)
	return nil
}

// Stats prints the dashboard aggregate counts.
func (a *App) Stats(ctx context.Context, opts StatsOptions) error {
	engine, closer, err := a.newEngine(ctx)
	if err != nil {
		return err
	}
	defer closer()

	counts, err := engine.Counts(ctx, scanParams(opts.ThresholdPct, opts.Limit))
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Total claims\t%d\n", counts.TotalClaims)
	fmt.Fprintf(writer, "Total providers\t%d\n", counts.TotalProviders)
	fmt.Fprintf(writer, "Total states\t%d\n", counts.TotalStates)
	fmt.Fprintf(writer, "Total spend\t$%s\n", counts.TotalSpend.StringFixed(2))
	fmt.Fprintf(writer, "Flagged providers\t%d\n", counts.FlaggedProviders)
	fmt.Fprintf(writer, "Total alerts\t%d\n", counts.TotalAlerts)
	return writer.Flush()
}

func printAlerts(alerts []scan.FraudAlert) {
	if len(alerts) == 0 {
		fmt.Fprintln(os.Stdout, "no alerts found")
		return
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Provider\tName\tState\tProcedure\tPeriod\tCurrent\tComparison\tDeviation%\tSeverity")
	for _, alert := range alerts {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			alert.ProviderID,
			sanitizeInline(alert.ProviderName),
			alert.StateCode,
			alert.ProcedureCode,
			alert.Period,
			alert.CurrentAmount.StringFixed(2),
			alert.ComparisonAmount.StringFixed(2),
			alert.DeviationPct.StringFixed(1),
			alert.Severity,
		)
	}
	writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
