package scan

import (
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/claims"
)

var hundred = decimal.NewFromInt(100)

// ScanTemporal walks each series pairwise and flags month-over-month
// growth strictly above the threshold percentage. A zero previous total
// makes growth undefined, so that transition is skipped rather than
// treated as infinite. Alerts within a series are ascending by period;
// series keep their input order.
func ScanTemporal(series []claims.Series, thresholdPct decimal.Decimal) []FraudAlert {
	var alerts []FraudAlert
	for _, s := range series {
		alerts = append(alerts, scanSeries(s, thresholdPct)...)
	}
	return alerts
}

func scanSeries(s claims.Series, thresholdPct decimal.Decimal) []FraudAlert {
	var alerts []FraudAlert
	for i := 1; i < len(s.Points); i++ {
		previous := s.Points[i-1].Total
		current := s.Points[i].Total
		if previous.IsZero() {
			continue
		}

		growth := current.Sub(previous).Div(previous).Mul(hundred)
		if !growth.GreaterThan(thresholdPct) {
			continue
		}

		alerts = append(alerts, FraudAlert{
			ProviderID:           s.ProviderID,
			ProviderName:         s.ProviderName,
			StateCode:            s.StateCode,
			ProcedureCode:        s.ProcedureCode,
			ProcedureDescription: s.ProcedureDescription,
			Period:               s.Points[i].Period.String(),
			CurrentAmount:        current,
			ComparisonAmount:     previous,
			DeviationPct:         growth,
			Severity:             classifySeverity(growth),
			Detector:             DetectorTemporal,
		})
	}
	return alerts
}
