package scan

import (
	"math"

	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/claims"
)

// Cohort comparison defaults. A cohort of fewer than five providers
// cannot support a meaningful mean/stddev; near-zero billers are noise.
const DefaultMinCohortSize = 5

var (
	DefaultMinSpendFloor = decimal.NewFromInt(1000)

	two = decimal.NewFromInt(2)
)

// CohortOptions tune the cohort outlier detector.
type CohortOptions struct {
	MinCohortSize int
	MinSpendFloor decimal.Decimal
	ThresholdPct  decimal.Decimal
}

// ScanCohort flags providers whose all-period spend is an outlier
// against in-state peers billing the same procedure code. A provider is
// flagged only when its deviation from the cohort mean strictly exceeds
// the threshold AND its total clears mean + 2 stddev; the second gate
// keeps high-variance cohorts from producing percent-only alerts.
func ScanCohort(cohorts []claims.Cohort, opts CohortOptions) []FraudAlert {
	minSize := opts.MinCohortSize
	if minSize <= 0 {
		minSize = DefaultMinCohortSize
	}
	floor := opts.MinSpendFloor
	if floor.IsZero() {
		floor = DefaultMinSpendFloor
	}

	var alerts []FraudAlert
	for _, cohort := range cohorts {
		alerts = append(alerts, scanOneCohort(cohort, minSize, floor, opts.ThresholdPct)...)
	}
	return alerts
}

func scanOneCohort(cohort claims.Cohort, minSize int, floor, thresholdPct decimal.Decimal) []FraudAlert {
	// Spend floor applies before the cohort-size check: a cohort of six
	// providers with two below the floor is a cohort of four and is
	// skipped.
	qualified := cohort.Providers[:0:0]
	for _, pt := range cohort.Providers {
		if pt.Total.GreaterThanOrEqual(floor) {
			qualified = append(qualified, pt)
		}
	}
	if len(qualified) < minSize {
		return nil
	}

	mean, stddev := cohortStats(qualified)
	if mean.IsZero() || stddev.IsZero() {
		// Zero mean is impossible given the floor but guarded anyway;
		// zero stddev means a perfectly uniform cohort. Neither is an
		// error, just no findings.
		return nil
	}

	significance := mean.Add(stddev.Mul(two))

	var alerts []FraudAlert
	for _, pt := range qualified {
		deviation := pt.Total.Sub(mean).Div(mean).Mul(hundred)
		if !deviation.GreaterThan(thresholdPct) {
			continue
		}
		if !pt.Total.GreaterThan(significance) {
			continue
		}

		alerts = append(alerts, FraudAlert{
			ProviderID:           pt.ProviderID,
			ProviderName:         pt.ProviderName,
			StateCode:            cohort.StateCode,
			ProcedureCode:        cohort.ProcedureCode,
			ProcedureDescription: cohort.ProcedureDescription,
			Period:               PeriodCurrent,
			CurrentAmount:        pt.Total,
			ComparisonAmount:     mean,
			DeviationPct:         deviation,
			Severity:             classifySeverity(deviation),
			Detector:             DetectorCohort,
		})
	}
	return alerts
}

// cohortStats returns the arithmetic mean and population standard
// deviation of the qualified provider totals.
func cohortStats(providers []claims.ProviderTotal) (mean, stddev decimal.Decimal) {
	n := decimal.NewFromInt(int64(len(providers)))

	sum := decimal.Zero
	for _, pt := range providers {
		sum = sum.Add(pt.Total)
	}
	mean = sum.Div(n)

	variance := decimal.Zero
	for _, pt := range providers {
		diff := pt.Total.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(n)

	stddev = decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	return mean, stddev
}
