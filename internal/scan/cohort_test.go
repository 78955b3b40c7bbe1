package scan

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/claims"
)

func peerCohort(totals ...float64) claims.Cohort {
	cohort := claims.Cohort{
		ProcedureCode:        "93000",
		ProcedureDescription: "Electrocardiogram",
		StateCode:            "CA",
	}
	for i, total := range totals {
		cohort.Providers = append(cohort.Providers, claims.ProviderTotal{
			ProviderID:   fmt.Sprintf("P%03d", i+1),
			ProviderName: fmt.Sprintf("Provider %d", i+1),
			Total:        decimal.NewFromFloat(total),
		})
	}
	return cohort
}

// ninePeersPlus builds a ten-provider cohort: nine peers billing 1000
// through 1800 and one provider billing the given total.
func ninePeersPlus(outlier float64) claims.Cohort {
	return peerCohort(1000, 1100, 1200, 1300, 1400, 1500, 1600, 1700, 1800, outlier)
}

func cohortOpts() CohortOptions {
	return CohortOptions{
		MinCohortSize: 5,
		MinSpendFloor: decimal.NewFromInt(1000),
		ThresholdPct:  decimal.NewFromInt(200),
	}
}

func TestScanCohortFlagsOutlier(t *testing.T) {
	alerts := ScanCohort([]claims.Cohort{ninePeersPlus(30000)}, cohortOpts())
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	alert := alerts[0]
	if alert.ProviderID != "P010" {
		t.Fatalf("expected the outlier provider, got %s", alert.ProviderID)
	}
	if alert.Period != PeriodCurrent {
		t.Fatalf("cohort alerts must carry the %q period marker, got %s", PeriodCurrent, alert.Period)
	}
	// cohort mean is 4260; deviation (30000-4260)/4260 = 604.23%
	if !alert.ComparisonAmount.Equal(decimal.NewFromInt(4260)) {
		t.Fatalf("comparison amount should be the cohort mean, got %s", alert.ComparisonAmount)
	}
	if got := alert.DeviationPct.StringFixed(2); got != "604.23" {
		t.Fatalf("expected deviation 604.23, got %s", got)
	}
	if alert.Severity != SeverityHigh {
		t.Fatalf("expected high severity, got %s", alert.Severity)
	}
	if alert.Detector != DetectorCohort {
		t.Fatalf("expected cohort detector marker, got %s", alert.Detector)
	}
}

func TestScanCohortMinimumSizeEnforced(t *testing.T) {
	// Four qualifying providers: no statistic, no alerts.
	four := []claims.Cohort{peerCohort(1000, 1200, 1400, 40000)}
	if alerts := ScanCohort(four, cohortOpts()); len(alerts) != 0 {
		t.Fatalf("cohort of 4 must be skipped, got %d alerts", len(alerts))
	}

	// The boundary is exact: the same ten-provider cohort is skipped at
	// min size 11 and evaluated at min size 10.
	opts := cohortOpts()
	opts.MinCohortSize = 11
	if alerts := ScanCohort([]claims.Cohort{ninePeersPlus(30000)}, opts); len(alerts) != 0 {
		t.Fatalf("cohort below minimum size must be skipped, got %d alerts", len(alerts))
	}
	opts.MinCohortSize = 10
	if alerts := ScanCohort([]claims.Cohort{ninePeersPlus(30000)}, opts); len(alerts) != 1 {
		t.Fatalf("cohort at minimum size must be evaluated, got %d alerts", len(alerts))
	}
}

func TestScanCohortSpendFloorAppliesBeforeSizeCheck(t *testing.T) {
	// Eleven providers, two below the 1000 floor: only nine remain, so
	// a min size of 10 skips the cohort that would otherwise alert.
	cohort := ninePeersPlus(30000)
	cohort.Providers = append(cohort.Providers, claims.ProviderTotal{
		ProviderID: "P011", ProviderName: "Provider 11", Total: decimal.NewFromFloat(999.99),
	})
	cohort.Providers[0].Total = decimal.NewFromFloat(500)

	opts := cohortOpts()
	opts.MinCohortSize = 10
	if alerts := ScanCohort([]claims.Cohort{cohort}, opts); len(alerts) != 0 {
		t.Fatalf("floor must shrink the cohort below minimum size, got %d alerts", len(alerts))
	}
}

func TestScanCohortStddevGateIndependentOfPercent(t *testing.T) {
	// Four identical peers plus one outlier put the outlier exactly at
	// mean + 2*stddev: deviation is 246% (above the 200% threshold) but
	// the strict significance gate fails, so no alert.
	cohorts := []claims.Cohort{peerCohort(1000, 1000, 1000, 1000, 9000)}
	if alerts := ScanCohort(cohorts, cohortOpts()); len(alerts) != 0 {
		t.Fatalf("percent threshold alone must not flag, got %d alerts", len(alerts))
	}
}

func TestScanCohortZeroVarianceSkipped(t *testing.T) {
	cohorts := []claims.Cohort{peerCohort(2000, 2000, 2000, 2000, 2000)}
	if alerts := ScanCohort(cohorts, cohortOpts()); len(alerts) != 0 {
		t.Fatalf("uniform cohort must produce no alerts, got %d", len(alerts))
	}
}

func TestScanCohortSeverityTiers(t *testing.T) {
	// Outlier at 15000 against the nine peers: mean 2760, deviation
	// 443.48% -> medium.
	medium := ScanCohort([]claims.Cohort{ninePeersPlus(15000)}, cohortOpts())
	if len(medium) != 1 || medium[0].Severity != SeverityMedium {
		t.Fatalf("expected one medium alert, got %+v", medium)
	}

	// Eleven peers at 1000 and one provider at 200000: mean 17583.33,
	// deviation 1037.44% -> critical.
	big := peerCohort(1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 200000)
	critical := ScanCohort([]claims.Cohort{big}, cohortOpts())
	if len(critical) != 1 || critical[0].Severity != SeverityCritical {
		t.Fatalf("expected one critical alert, got %+v", critical)
	}
	if got := critical[0].DeviationPct.StringFixed(2); got != "1037.44" {
		t.Fatalf("expected deviation 1037.44, got %s", got)
	}
}

func TestScanCohortDefaultsApplied(t *testing.T) {
	// Zero-valued options fall back to the documented defaults.
	cohorts := []claims.Cohort{peerCohort(1000, 1200, 1400, 40000)}
	alerts := ScanCohort(cohorts, CohortOptions{ThresholdPct: decimal.NewFromInt(200)})
	if len(alerts) != 0 {
		t.Fatalf("default min cohort size of 5 must apply, got %d alerts", len(alerts))
	}
}
