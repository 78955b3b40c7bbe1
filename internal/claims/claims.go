package claims

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a calendar-month bucket used for temporal grouping.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a period in "2006-01" form.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf buckets a timestamp into its calendar month.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Before reports whether p sorts earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Time returns the first instant of the period in UTC.
func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ClaimRecord is one billed service line. Records are immutable inputs;
// the engine never mutates them.
type ClaimRecord struct {
	ProviderID           string
	ProviderName         string
	ProcedureCode        string
	ProcedureDescription string
	StateCode            string
	AmountPaid           decimal.Decimal
	Period               Period
}

// MonthlyTotal is the summed paid amount for one period of a series.
type MonthlyTotal struct {
	Period Period
	Total  decimal.Decimal
}

// Series is the ordered monthly billing history of one provider for one
// procedure code. Points are ascending by period; absent months are
// absent, never zero-filled. Descriptive fields (name, description,
// state) take the lexicographically smallest value when source records
// disagree, so every source adapter labels a series identically.
type Series struct {
	ProviderID           string
	ProviderName         string
	ProcedureCode        string
	ProcedureDescription string
	StateCode            string
	Points               []MonthlyTotal
}

// ProviderTotal is one provider's all-period spend within a cohort.
type ProviderTotal struct {
	ProviderID   string
	ProviderName string
	Total        decimal.Decimal
}

// Cohort is the peer group of providers billing the same procedure code
// in the same state. Providers are ascending by ID.
type Cohort struct {
	ProcedureCode        string
	ProcedureDescription string
	StateCode            string
	Providers            []ProviderTotal
}

// Stats summarises a raw claim snapshot.
type Stats struct {
	TotalClaims    int64
	TotalProviders int
	TotalStates    int
	TotalSpend     decimal.Decimal
}
