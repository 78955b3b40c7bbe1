package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/alerting"
	"claim-fraud-alerts/internal/claims"
	"claim-fraud-alerts/internal/config"
	"claim-fraud-alerts/internal/scan"
	"claim-fraud-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI
// commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// newEngine builds the scan engine over the configured claim source.
// The returned closer releases the Postgres pool when one was opened.
func (a *App) newEngine(ctx context.Context) (*scan.Engine, func(), error) {
	source, closer, err := a.newSource(ctx)
	if err != nil {
		return nil, nil, err
	}

	prefs := scan.StaticPreferences{
		ThresholdPct: decimal.NewFromFloat(a.Config.Scan.ThresholdPct),
	}
	tuning := scan.CohortTuning{
		MinCohortSize: a.Config.Scan.MinCohortSize,
		MinSpendFloor: decimal.NewFromFloat(a.Config.Scan.MinSpendFloor),
	}

	return scan.NewEngine(source, prefs, tuning, a.Logger), closer, nil
}

func (a *App) newSource(ctx context.Context) (claims.Source, func(), error) {
	if a.Config.Source.Mode == "postgres" {
		pool, err := storage.NewPool(ctx, a.Config.Database)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewClaimSource(pool), pool.Close, nil
	}

	records, err := claims.LoadCSVFile(a.Config.Source.CSVPath)
	if err != nil {
		return nil, nil, err
	}
	a.Logger.Info().Int("claims", len(records)).Str("path", a.Config.Source.CSVPath).Msg("claim snapshot loaded")
	return claims.NewMemorySource(records), func() {}, nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	return store, store.Close, nil
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// scanParams maps CLI overrides onto engine parameters. Zero values
// mean "use the configured default".
func scanParams(thresholdPct float64, limit int) scan.Params {
	var params scan.Params
	if thresholdPct > 0 {
		t := decimal.NewFromFloat(thresholdPct)
		params.ThresholdPct = &t
	}
	if limit > 0 {
		params.Limit = &limit
	}
	return params
}

// ScanOptions configure the scan command.
type ScanOptions struct {
	ThresholdPct float64
	Limit        int
	CSVPath      string
}

// ProviderOptions configure the provider command.
type ProviderOptions struct {
	ProviderID   string
	ThresholdPct float64
	Limit        int
}

// StatsOptions configure the stats command.
type StatsOptions struct {
	ThresholdPct float64
	Limit        int
}

// ChartOptions configure the chart command.
type ChartOptions struct {
	ProviderID    string
	ProcedureCode string
	PNGPath       string
	MaxPoints     int
}

// HistoryOptions configure the history command.
type HistoryOptions struct {
	Limit int
}

// SimulateOptions configure the simulate-alert command.
type SimulateOptions struct {
	PreviousAmount float64
	CurrentAmount  float64
}
