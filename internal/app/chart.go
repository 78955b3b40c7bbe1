package app

import (
	"context"
	"fmt"

	"claim-fraud-alerts/internal/export"
)

// Chart renders one provider/procedure monthly series as a PNG.
func (a *App) Chart(ctx context.Context, opts ChartOptions) error {
	source, closer, err := a.newSource(ctx)
	if err != nil {
		return err
	}
	defer closer()

	series, err := source.Series(ctx)
	if err != nil {
		return err
	}

	maxPoints := opts.MaxPoints
	if maxPoints <= 0 {
		maxPoints = a.Config.Export.MaxChartPoints
	}

	for _, s := range series {
		if s.ProviderID == opts.ProviderID && s.ProcedureCode == opts.ProcedureCode {
			if err := export.WriteSeriesPNG(opts.PNGPath, s, maxPoints); err != nil {
				return err
			}
			a.Logger.Info().Str("path", opts.PNGPath).Int("points", len(s.Points)).Msg("chart written")
			return nil
		}
	}

	return fmt.Errorf("no series found for provider %s procedure %s", opts.ProviderID, opts.ProcedureCode)
}
