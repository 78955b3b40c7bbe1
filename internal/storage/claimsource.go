package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/claims"
)

const (
	seriesSQL = `SELECT
        provider_id,
        MIN(provider_name),
        procedure_code,
        MIN(procedure_description),
        MIN(state_code),
        period,
        SUM(amount_paid)
    FROM claims
    GROUP BY provider_id, procedure_code, period
    ORDER BY provider_id, procedure_code, period;`

	cohortsSQL = `SELECT
        procedure_code,
        MIN(procedure_description),
        state_code,
        provider_id,
        MIN(provider_name),
        SUM(amount_paid)
    FROM claims
    GROUP BY procedure_code, state_code, provider_id
    ORDER BY procedure_code, state_code, provider_id;`

	countsSQL = `SELECT
        COUNT(*),
        COUNT(DISTINCT provider_id),
        COUNT(DISTINCT state_code),
        COALESCE(SUM(amount_paid), 0)
    FROM claims;`
)

// ClaimSource implements claims.Source against a Postgres claims table,
// pushing each grouping down as a single GROUP BY instead of
// materialising raw rows locally. Query failures wrap
// claims.ErrSourceUnavailable so callers surface them uniformly.
type ClaimSource struct {
	pool *pgxpool.Pool
}

// NewClaimSource wires a pgx pool into a claim source.
func NewClaimSource(pool *pgxpool.Pool) *ClaimSource {
	return &ClaimSource{pool: pool}
}

// Series implements claims.Source.
func (c *ClaimSource) Series(ctx context.Context) ([]claims.Series, error) {
	rows, err := c.pool.Query(ctx, seriesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query series: %v", claims.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var (
		result  []claims.Series
		current *claims.Series
	)
	for rows.Next() {
		var (
			providerID, providerName string
			procedureCode, procDesc  string
			stateCode                string
			period                   time.Time
			totalStr                 string
		)
		if err := rows.Scan(&providerID, &providerName, &procedureCode, &procDesc, &stateCode, &period, &totalStr); err != nil {
			return nil, fmt.Errorf("%w: scan series row: %v", claims.ErrSourceUnavailable, err)
		}
		total, err := decimal.NewFromString(totalStr)
		if err != nil {
			return nil, fmt.Errorf("parse monthly total: %w", err)
		}

		if current == nil || current.ProviderID != providerID || current.ProcedureCode != procedureCode {
			result = append(result, claims.Series{
				ProviderID:           providerID,
				ProviderName:         providerName,
				ProcedureCode:        procedureCode,
				ProcedureDescription: procDesc,
				StateCode:            stateCode,
			})
			current = &result[len(result)-1]
		}
		current.Points = append(current.Points, claims.MonthlyTotal{
			Period: claims.PeriodOf(period.UTC()),
			Total:  total,
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: iterate series: %v", claims.ErrSourceUnavailable, rows.Err())
	}
	return result, nil
}

// Cohorts implements claims.Source.
func (c *ClaimSource) Cohorts(ctx context.Context) ([]claims.Cohort, error) {
	rows, err := c.pool.Query(ctx, cohortsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query cohorts: %v", claims.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var (
		result  []claims.Cohort
		current *claims.Cohort
	)
	for rows.Next() {
		var (
			procedureCode, procDesc  string
			stateCode                string
			providerID, providerName string
			totalStr                 string
		)
		if err := rows.Scan(&procedureCode, &procDesc, &stateCode, &providerID, &providerName, &totalStr); err != nil {
			return nil, fmt.Errorf("%w: scan cohort row: %v", claims.ErrSourceUnavailable, err)
		}
		total, err := decimal.NewFromString(totalStr)
		if err != nil {
			return nil, fmt.Errorf("parse provider total: %w", err)
		}

		if current == nil || current.ProcedureCode != procedureCode || current.StateCode != stateCode {
			result = append(result, claims.Cohort{
				ProcedureCode:        procedureCode,
				ProcedureDescription: procDesc,
				StateCode:            stateCode,
			})
			current = &result[len(result)-1]
		}
		current.Providers = append(current.Providers, claims.ProviderTotal{
			ProviderID:   providerID,
			ProviderName: providerName,
			Total:        total,
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%w: iterate cohorts: %v", claims.ErrSourceUnavailable, rows.Err())
	}
	return result, nil
}

// Counts implements claims.Source.
func (c *ClaimSource) Counts(ctx context.Context) (claims.Stats, error) {
	var (
		stats    claims.Stats
		spendStr string
	)
	if err := c.pool.QueryRow(ctx, countsSQL).Scan(&stats.TotalClaims, &stats.TotalProviders, &stats.TotalStates, &spendStr); err != nil {
		return claims.Stats{}, fmt.Errorf("%w: query counts: %v", claims.ErrSourceUnavailable, err)
	}
	spend, err := decimal.NewFromString(spendStr)
	if err != nil {
		return claims.Stats{}, fmt.Errorf("parse total spend: %w", err)
	}
	stats.TotalSpend = spend
	return stats, nil
}

var _ claims.Source = (*ClaimSource)(nil)
