package scan

import (
	"github.com/shopspring/decimal"
)

// Severity classifies how extreme a detected deviation is.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severity tier boundaries in percent. These are a fixed business rule
// shared by both detectors; changing them requires a product decision,
// not a config knob.
var (
	tierHighPct     = decimal.NewFromInt(500)
	tierCriticalPct = decimal.NewFromInt(1000)
)

// DefaultThresholdPct is the deviation threshold applied when a caller
// supplies none and no preference is configured.
var DefaultThresholdPct = decimal.NewFromInt(200)

// PeriodCurrent marks cohort-path alerts, which compare a provider's
// total spend against current peers rather than a prior month.
const PeriodCurrent = "current"

// Detector identifies which detection path produced an alert.
type Detector string

const (
	DetectorTemporal Detector = "temporal"
	DetectorCohort   Detector = "cohort"
)

// FraudAlert is one flagged provider-procedure billing pattern. Alerts
// are recomputed on every scan and never read back from storage.
type FraudAlert struct {
	ProviderID           string          `json:"provider_id"`
	ProviderName         string          `json:"provider_name"`
	StateCode            string          `json:"state_code"`
	ProcedureCode        string          `json:"procedure_code"`
	ProcedureDescription string          `json:"procedure_description"`
	Period               string          `json:"period"`
	CurrentAmount        decimal.Decimal `json:"current_amount"`
	ComparisonAmount     decimal.Decimal `json:"comparison_amount"`
	DeviationPct         decimal.Decimal `json:"deviation_pct"`
	Severity             Severity        `json:"severity"`
	Detector             Detector        `json:"detector"`
}

// classifySeverity maps a deviation percentage onto the fixed tier
// table. All comparisons are strict: exactly 500% is not high, exactly
// 1000% is not critical, and a deviation exactly at the configured
// threshold produces no alert at all (enforced by the detectors before
// classification).
func classifySeverity(deviationPct decimal.Decimal) Severity {
	switch {
	case deviationPct.GreaterThan(tierCriticalPct):
		return SeverityCritical
	case deviationPct.GreaterThan(tierHighPct):
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
