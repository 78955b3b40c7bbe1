package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/scan"
)

const (
	insertRunSQL = `INSERT INTO scan_runs (
        id,
        threshold_pct,
        alert_limit,
        total_alerts,
        flagged_providers,
        started_at,
        finished_at
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    );`

	insertAlertSQL = `INSERT INTO scan_alerts (
        run_id,
        provider_id,
        provider_name,
        state_code,
        procedure_code,
        procedure_description,
        period,
        current_amount,
        comparison_amount,
        deviation_pct,
        severity,
        detector
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
    );`

	listRecentAlertsSQL = `SELECT
        id,
        run_id,
        provider_id,
        provider_name,
        state_code,
        procedure_code,
        procedure_description,
        period,
        current_amount,
        comparison_amount,
        deviation_pct,
        severity,
        detector,
        created_at
    FROM scan_alerts
    ORDER BY created_at DESC, deviation_pct DESC
    LIMIT $1;`

	deleteAlertsBeforeSQL = `DELETE FROM scan_alerts WHERE created_at < $1;`
	deleteRunsBeforeSQL   = `DELETE FROM scan_runs WHERE finished_at < $1;`
)

// RunStore persists scan run audit history.
type RunStore interface {
	InsertRun(ctx context.Context, run ScanRun, alerts []scan.FraudAlert) error
	ListRecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error)
	DeleteHistoryBefore(ctx context.Context, olderThan time.Time) error
}

// InsertRun records a completed scan and its emitted alerts.
func (s *Store) InsertRun(ctx context.Context, run ScanRun, alerts []scan.FraudAlert) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, insertRunSQL,
		run.ID,
		run.ThresholdPct.String(),
		run.AlertLimit,
		run.TotalAlerts,
		run.FlaggedProviders,
		run.StartedAt,
		run.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert scan run: %w", err)
	}

	for _, alert := range alerts {
		if _, err := pool.Exec(ctx, insertAlertSQL,
			run.ID,
			alert.ProviderID,
			alert.ProviderName,
			alert.StateCode,
			alert.ProcedureCode,
			alert.ProcedureDescription,
			alert.Period,
			alert.CurrentAmount.String(),
			alert.ComparisonAmount.String(),
			alert.DeviationPct.String(),
			string(alert.Severity),
			string(alert.Detector),
		); err != nil {
			return fmt.Errorf("insert scan alert: %w", err)
		}
	}
	return nil
}

// ListRecentAlerts lists the most recently persisted alert rows.
func (s *Store) ListRecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentAlertsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent alerts: %w", queryErr)
	}
	defer rows.Close()

	alerts := make([]AlertRecord, 0, limit)
	for rows.Next() {
		var (
			rec                                     AlertRecord
			runID                                   string
			currentStr, comparisonStr, deviationStr string
		)
		if err := rows.Scan(
			&rec.ID,
			&runID,
			&rec.ProviderID,
			&rec.ProviderName,
			&rec.StateCode,
			&rec.ProcedureCode,
			&rec.ProcedureDescription,
			&rec.Period,
			&currentStr,
			&comparisonStr,
			&deviationStr,
			&rec.Severity,
			&rec.Detector,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}

		rec.RunID, err = uuid.Parse(runID)
		if err != nil {
			return nil, fmt.Errorf("parse run id: %w", err)
		}
		rec.CurrentAmount, err = decimal.NewFromString(currentStr)
		if err != nil {
			return nil, fmt.Errorf("parse current amount: %w", err)
		}
		rec.ComparisonAmount, err = decimal.NewFromString(comparisonStr)
		if err != nil {
			return nil, fmt.Errorf("parse comparison amount: %w", err)
		}
		rec.DeviationPct, err = decimal.NewFromString(deviationStr)
		if err != nil {
			return nil, fmt.Errorf("parse deviation pct: %w", err)
		}

		alerts = append(alerts, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return alerts, nil
}

// DeleteHistoryBefore prunes old audit rows.
func (s *Store) DeleteHistoryBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, deleteAlertsBeforeSQL, olderThan); execErr != nil {
		return fmt.Errorf("delete alerts before: %w", execErr)
	}
	if _, execErr := pool.Exec(ctx, deleteRunsBeforeSQL, olderThan); execErr != nil {
		return fmt.Errorf("delete runs before: %w", execErr)
	}
	return nil
}
