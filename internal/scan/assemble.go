package scan

import (
	"sort"
)

// Result is the assembled outcome of one scan invocation.
type Result struct {
	// Alerts is the combined, severity-classified list, descending by
	// deviation percent, trimmed to the requested limit.
	Alerts []FraudAlert

	// TotalAlertCount counts alerts across both detectors before the
	// limit trim.
	TotalAlertCount int

	flagged map[string]struct{}
	// byProvider indexes the pre-limit alert list so provider views see
	// every finding, not just the top page.
	byProvider map[string][]FraudAlert
}

// Assemble concatenates both detectors' output, sorts descending by
// deviation percent (provider ID breaks ties for determinism), and
// applies the limit only after sorting so the top-N is the global
// top-N. A provider may appear on both paths; they measure different
// signals and are not deduplicated. limit <= 0 means no trim.
func Assemble(temporal, cohort []FraudAlert, limit int) Result {
	combined := make([]FraudAlert, 0, len(temporal)+len(cohort))
	combined = append(combined, temporal...)
	combined = append(combined, cohort...)

	sort.SliceStable(combined, func(i, j int) bool {
		cmp := combined[i].DeviationPct.Cmp(combined[j].DeviationPct)
		if cmp != 0 {
			return cmp > 0
		}
		return combined[i].ProviderID < combined[j].ProviderID
	})

	result := Result{
		TotalAlertCount: len(combined),
		flagged:         make(map[string]struct{}),
		byProvider:      make(map[string][]FraudAlert),
	}
	for _, alert := range combined {
		result.flagged[alert.ProviderID] = struct{}{}
		result.byProvider[alert.ProviderID] = append(result.byProvider[alert.ProviderID], alert)
	}

	if limit > 0 && len(combined) > limit {
		combined = combined[:limit]
	}
	result.Alerts = combined
	return result
}

// FlaggedProviderCount is the number of distinct providers across all
// alerts, counted before the limit trim.
func (r Result) FlaggedProviderCount() int {
	return len(r.flagged)
}

// IsFlagged reports whether any alert referenced the provider. Used to
// decorate provider listings and watchlist entries.
func (r Result) IsFlagged(providerID string) bool {
	_, ok := r.flagged[providerID]
	return ok
}

// ProviderAlerts returns the provider's alerts in the same descending
// deviation order as the full list.
func (r Result) ProviderAlerts(providerID string) []FraudAlert {
	return r.byProvider[providerID]
}
