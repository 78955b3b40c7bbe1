package claims

import (
	"sort"

	"github.com/shopspring/decimal"
)

type seriesKey struct {
	providerID    string
	procedureCode string
}

type cohortKey struct {
	procedureCode string
	stateCode     string
}

// AggregateSeries groups claims by (provider, procedure) and sums paid
// amounts per calendar month. Output series are sorted by provider then
// procedure, points ascending by period, so identical input always
// yields identical output.
func AggregateSeries(records []ClaimRecord) []Series {
	grouped := make(map[seriesKey]*Series)
	sums := make(map[seriesKey]map[Period]decimal.Decimal)

	for _, rec := range records {
		key := seriesKey{providerID: rec.ProviderID, procedureCode: rec.ProcedureCode}
		series, ok := grouped[key]
		if !ok {
			grouped[key] = &Series{
				ProviderID:           rec.ProviderID,
				ProviderName:         rec.ProviderName,
				ProcedureCode:        rec.ProcedureCode,
				ProcedureDescription: rec.ProcedureDescription,
				StateCode:            rec.StateCode,
			}
			sums[key] = make(map[Period]decimal.Decimal)
		} else {
			// lexicographic minimum when records disagree, matching the
			// SQL source's MIN aggregates
			series.ProviderName = min(series.ProviderName, rec.ProviderName)
			series.ProcedureDescription = min(series.ProcedureDescription, rec.ProcedureDescription)
			series.StateCode = min(series.StateCode, rec.StateCode)
		}
		sums[key][rec.Period] = sums[key][rec.Period].Add(rec.AmountPaid)
	}

	result := make([]Series, 0, len(grouped))
	for key, series := range grouped {
		totals := sums[key]
		points := make([]MonthlyTotal, 0, len(totals))
		for period, total := range totals {
			points = append(points, MonthlyTotal{Period: period, Total: total})
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Period.Before(points[j].Period)
		})
		series.Points = points
		result = append(result, *series)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ProviderID != result[j].ProviderID {
			return result[i].ProviderID < result[j].ProviderID
		}
		return result[i].ProcedureCode < result[j].ProcedureCode
	})
	return result
}

// AggregateCohorts groups claims by (procedure, state) and sums each
// provider's paid amounts across all periods. Output is sorted by
// procedure then state, providers ascending by ID.
func AggregateCohorts(records []ClaimRecord) []Cohort {
	grouped := make(map[cohortKey]*Cohort)
	totals := make(map[cohortKey]map[string]*ProviderTotal)

	for _, rec := range records {
		key := cohortKey{procedureCode: rec.ProcedureCode, stateCode: rec.StateCode}
		cohort, ok := grouped[key]
		if !ok {
			grouped[key] = &Cohort{
				ProcedureCode:        rec.ProcedureCode,
				ProcedureDescription: rec.ProcedureDescription,
				StateCode:            rec.StateCode,
			}
			totals[key] = make(map[string]*ProviderTotal)
		} else {
			cohort.ProcedureDescription = min(cohort.ProcedureDescription, rec.ProcedureDescription)
		}
		pt, ok := totals[key][rec.ProviderID]
		if !ok {
			pt = &ProviderTotal{ProviderID: rec.ProviderID, ProviderName: rec.ProviderName}
			totals[key][rec.ProviderID] = pt
		} else {
			pt.ProviderName = min(pt.ProviderName, rec.ProviderName)
		}
		pt.Total = pt.Total.Add(rec.AmountPaid)
	}

	result := make([]Cohort, 0, len(grouped))
	for key, cohort := range grouped {
		providers := make([]ProviderTotal, 0, len(totals[key]))
		for _, pt := range totals[key] {
			providers = append(providers, *pt)
		}
		sort.Slice(providers, func(i, j int) bool {
			return providers[i].ProviderID < providers[j].ProviderID
		})
		cohort.Providers = providers
		result = append(result, *cohort)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ProcedureCode != result[j].ProcedureCode {
			return result[i].ProcedureCode < result[j].ProcedureCode
		}
		return result[i].StateCode < result[j].StateCode
	})
	return result
}

// CountStats derives snapshot-level counts from raw claims.
func CountStats(records []ClaimRecord) Stats {
	providers := make(map[string]struct{})
	states := make(map[string]struct{})
	spend := decimal.Zero

	for _, rec := range records {
		providers[rec.ProviderID] = struct{}{}
		states[rec.StateCode] = struct{}{}
		spend = spend.Add(rec.AmountPaid)
	}

	return Stats{
		TotalClaims:    int64(len(records)),
		TotalProviders: len(providers),
		TotalStates:    len(states),
		TotalSpend:     spend,
	}
}
