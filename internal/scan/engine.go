package scan

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/claims"
)

// DefaultLimit caps the assembled alert list when the caller supplies
// no limit of their own.
const DefaultLimit = 100

// ThresholdPreferences supplies the caller's persisted deviation
// threshold. The store is externally owned; the engine only reads it.
type ThresholdPreferences interface {
	DefaultThreshold(ctx context.Context) (decimal.Decimal, error)
}

// StaticPreferences is a fixed-threshold preference store, typically
// fed from configuration.
type StaticPreferences struct {
	ThresholdPct decimal.Decimal
}

// DefaultThreshold implements ThresholdPreferences.
func (s StaticPreferences) DefaultThreshold(ctx context.Context) (decimal.Decimal, error) {
	if s.ThresholdPct.IsZero() {
		return DefaultThresholdPct, nil
	}
	return s.ThresholdPct, nil
}

// Params select the threshold and limit for one scan. Nil fields fall
// back to the preference store and DefaultLimit. Values are used as
// given; range enforcement (the 50-1000 business rule) belongs to the
// caller, not the engine.
type Params struct {
	ThresholdPct *decimal.Decimal
	Limit        *int
}

// CohortTuning carries the cohort detector knobs the engine applies on
// every scan.
type CohortTuning struct {
	MinCohortSize int
	MinSpendFloor decimal.Decimal
}

// Engine runs the full anomaly scan: aggregation through the claim
// source, both detectors, and assembly. It is stateless; every scan
// recomputes from the current snapshot, so concurrent scans with
// different parameters need no coordination.
type Engine struct {
	source claims.Source
	prefs  ThresholdPreferences
	tuning CohortTuning
	logger zerolog.Logger
}

// NewEngine wires a claim source and preference store into an engine.
func NewEngine(source claims.Source, prefs ThresholdPreferences, tuning CohortTuning, logger zerolog.Logger) *Engine {
	if prefs == nil {
		prefs = StaticPreferences{}
	}
	return &Engine{
		source: source,
		prefs:  prefs,
		tuning: tuning,
		logger: logger.With().Str("component", "scan_engine").Logger(),
	}
}

// Run executes one scan. It either fully succeeds or fully fails; a
// source error never yields partial results.
func (e *Engine) Run(ctx context.Context, params Params) (Result, error) {
	threshold, err := e.resolveThreshold(ctx, params)
	if err != nil {
		return Result{}, err
	}
	limit := DefaultLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	series, err := e.source.Series(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load series: %w", err)
	}
	cohorts, err := e.source.Cohorts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load cohorts: %w", err)
	}

	temporal := ScanTemporal(series, threshold)
	cohort := ScanCohort(cohorts, CohortOptions{
		MinCohortSize: e.tuning.MinCohortSize,
		MinSpendFloor: e.tuning.MinSpendFloor,
		ThresholdPct:  threshold,
	})

	result := Assemble(temporal, cohort, limit)

	e.logger.Debug().
		Str("threshold_pct", threshold.String()).
		Int("limit", limit).
		Int("temporal_alerts", len(temporal)).
		Int("cohort_alerts", len(cohort)).
		Int("flagged_providers", result.FlaggedProviderCount()).
		Msg("scan completed")

	return result, nil
}

// ProviderAlerts returns the subset of a full scan pertaining to one
// provider.
func (e *Engine) ProviderAlerts(ctx context.Context, providerID string, params Params) ([]FraudAlert, error) {
	result, err := e.Run(ctx, params)
	if err != nil {
		return nil, err
	}
	return result.ProviderAlerts(providerID), nil
}

// AggregateCounts derives the dashboard numbers from one full scan plus
// raw claim counts.
type AggregateCounts struct {
	TotalClaims      int64           `json:"total_claims"`
	TotalProviders   int             `json:"total_providers"`
	TotalStates      int             `json:"total_states"`
	TotalSpend       decimal.Decimal `json:"total_spend"`
	FlaggedProviders int             `json:"flagged_providers"`
	TotalAlerts      int             `json:"total_alerts"`
}

// Counts runs a scan and combines it with snapshot statistics.
func (e *Engine) Counts(ctx context.Context, params Params) (AggregateCounts, error) {
	stats, err := e.source.Counts(ctx)
	if err != nil {
		return AggregateCounts{}, fmt.Errorf("load claim counts: %w", err)
	}
	result, err := e.Run(ctx, params)
	if err != nil {
		return AggregateCounts{}, err
	}
	return AggregateCounts{
		TotalClaims:      stats.TotalClaims,
		TotalProviders:   stats.TotalProviders,
		TotalStates:      stats.TotalStates,
		TotalSpend:       stats.TotalSpend,
		FlaggedProviders: result.FlaggedProviderCount(),
		TotalAlerts:      result.TotalAlertCount,
	}, nil
}

func (e *Engine) resolveThreshold(ctx context.Context, params Params) (decimal.Decimal, error) {
	if params.ThresholdPct != nil {
		return *params.ThresholdPct, nil
	}
	threshold, err := e.prefs.DefaultThreshold(ctx)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("resolve threshold preference: %w", err)
	}
	return threshold, nil
}
