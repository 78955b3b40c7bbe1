package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/alerting"
	"claim-fraud-alerts/internal/scan"
	"claim-fraud-alerts/internal/scheduler"
	"claim-fraud-alerts/internal/storage"
)

// topAlertsInNotification caps how many findings go into the message
// body; the audit store keeps the rest.
const topAlertsInNotification = 5

// Run executes the long-running scheduled rescan service: scan on each
// aligned interval, persist the audit trail, and notify investigator
// channels when qualifying alerts are found.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine, closeEngine, err := a.newEngine(ctx)
	if err != nil {
		return err
	}
	defer closeEngine()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; scan history disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	notifier := a.newNotifier()

	a.Logger.Info().Msg("starting scheduled scan service")
	err = sched.Run(ctx, func(ctx context.Context, bucket time.Time) error {
		return a.runScheduledScan(ctx, engine, store, notifier, bucket)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("scan service terminated with error")
		return err
	}

	a.Logger.Info().Msg("scan service stopped")
	return nil
}

func (a *App) runScheduledScan(ctx context.Context, engine *scan.Engine, store *storage.Store, notifier alerting.Notifier, bucket time.Time) error {
	unlock, proceed, err := a.acquireLock(ctx, store)
	if err != nil {
		return err
	}
	if !proceed {
		a.Logger.Debug().Time("bucket", bucket).Msg("skip scan because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	threshold := decimal.NewFromFloat(a.Config.Scan.ThresholdPct)
	limit := a.Config.Scan.Limit

	started := time.Now().UTC()
	result, err := engine.Run(ctx, scan.Params{ThresholdPct: &threshold, Limit: &limit})
	if err != nil {
		return err
	}

	a.Logger.Info().Time("bucket", bucket).
		Int("total_alerts", result.TotalAlertCount).
		Int("flagged_providers", result.FlaggedProviderCount()).
		Msg("scheduled scan completed")

	if store != nil {
		run := storage.ScanRun{
			ID:               uuid.New(),
			ThresholdPct:     threshold,
			AlertLimit:       limit,
			TotalAlerts:      result.TotalAlertCount,
			FlaggedProviders: result.FlaggedProviderCount(),
			StartedAt:        started,
			FinishedAt:       time.Now().UTC(),
		}
		if err := store.InsertRun(ctx, run, result.Alerts); err != nil {
			a.Logger.Error().Err(err).Time("bucket", bucket).Msg("failed to persist scan history")
		}
	}

	if a.Config.Alerting.Enabled && notifier != nil {
		qualifying := filterBySeverity(result.Alerts, a.Config.Alerting.MinSeverity)
		if len(qualifying) > 0 {
			top := qualifying
			if len(top) > topAlertsInNotification {
				top = top[:topAlertsInNotification]
			}
			note := alerting.Notification{
				RunAt:            bucket,
				ThresholdPct:     threshold,
				TotalAlerts:      result.TotalAlertCount,
				FlaggedProviders: result.FlaggedProviderCount(),
				Channels:         a.Config.Alerting.Channels,
				TopAlerts:        top,
			}
			if err := notifier.Notify(ctx, note); err != nil {
				a.Logger.Error().Err(err).Time("bucket", bucket).Msg("failed to dispatch notification")
			}
		}
	}

	return nil
}

func (a *App) acquireLock(ctx context.Context, store *storage.Store) (func(), bool, error) {
	key := a.Config.Scheduler.AdvisoryLockKey
	if key == 0 || store == nil {
		return nil, true, nil
	}
	unlock, acquired, err := store.TryAdvisoryLock(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}

var severityRank = map[scan.Severity]int{
	scan.SeverityMedium:   1,
	scan.SeverityHigh:     2,
	scan.SeverityCritical: 3,
}

func filterBySeverity(alerts []scan.FraudAlert, minSeverity string) []scan.FraudAlert {
	minRank, ok := severityRank[scan.Severity(minSeverity)]
	if !ok {
		minRank = severityRank[scan.SeverityCritical]
	}

	var filtered []scan.FraudAlert
	for _, alert := range alerts {
		if severityRank[alert.Severity] >= minRank {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}
