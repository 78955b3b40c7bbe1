package claims

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func claim(providerID, procedureCode, stateCode string, year int, month time.Month, amount float64) ClaimRecord {
	return ClaimRecord{
		ProviderID:           providerID,
		ProviderName:         "Provider " + providerID,
		ProcedureCode:        procedureCode,
		ProcedureDescription: "Procedure " + procedureCode,
		StateCode:            stateCode,
		AmountPaid:           decimal.NewFromFloat(amount),
		Period:               Period{Year: year, Month: month},
	}
}

func TestAggregateSeriesSumsPerMonth(t *testing.T) {
	records := []ClaimRecord{
		claim("NPI1", "93000", "CA", 2023, time.January, 100.50),
		claim("NPI1", "93000", "CA", 2023, time.January, 200.25),
		claim("NPI1", "93000", "CA", 2023, time.March, 50),
		claim("NPI1", "93010", "CA", 2023, time.January, 10),
		claim("NPI2", "93000", "NY", 2023, time.January, 75),
	}

	series := AggregateSeries(records)
	if len(series) != 3 {
		t.Fatalf("expected 3 series, got %d", len(series))
	}

	first := series[0]
	if first.ProviderID != "NPI1" || first.ProcedureCode != "93000" {
		t.Fatalf("series order: got %s/%s first", first.ProviderID, first.ProcedureCode)
	}
	if len(first.Points) != 2 {
		t.Fatalf("expected 2 points (absent months stay absent), got %d", len(first.Points))
	}
	if !first.Points[0].Total.Equal(decimal.NewFromFloat(300.75)) {
		t.Fatalf("January sum: got %s", first.Points[0].Total)
	}
	if first.Points[0].Period.String() != "2023-01" || first.Points[1].Period.String() != "2023-03" {
		t.Fatalf("points must ascend by period: %v, %v", first.Points[0].Period, first.Points[1].Period)
	}
}

func TestAggregateSeriesDeterministicOrder(t *testing.T) {
	records := []ClaimRecord{
		claim("NPI2", "93000", "CA", 2023, time.January, 1),
		claim("NPI1", "93010", "CA", 2023, time.January, 1),
		claim("NPI1", "93000", "CA", 2023, time.January, 1),
	}

	series := AggregateSeries(records)
	keys := make([]string, 0, len(series))
	for _, s := range series {
		keys = append(keys, s.ProviderID+"/"+s.ProcedureCode)
	}
	want := []string{"NPI1/93000", "NPI1/93010", "NPI2/93000"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("order: got %v want %v", keys, want)
		}
	}
}

func TestAggregateDescriptiveFieldsTakeMinimum(t *testing.T) {
	a := claim("NPI1", "93000", "NY", 2023, time.January, 100)
	b := claim("NPI1", "93000", "CA", 2023, time.February, 200)
	b.ProviderName = "Aardvark Clinic"

	series := AggregateSeries([]ClaimRecord{a, b})
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	if series[0].StateCode != "CA" {
		t.Fatalf("state must be the lexicographic minimum, got %s", series[0].StateCode)
	}
	if series[0].ProviderName != "Aardvark Clinic" {
		t.Fatalf("provider name must be the lexicographic minimum, got %s", series[0].ProviderName)
	}

	// Same rule inside a cohort's provider totals.
	cohorts := AggregateCohorts([]ClaimRecord{claim("NPI1", "93000", "CA", 2023, time.January, 100), b})
	if len(cohorts) != 1 || len(cohorts[0].Providers) != 1 {
		t.Fatalf("expected one CA cohort with one provider, got %+v", cohorts)
	}
	if cohorts[0].Providers[0].ProviderName != "Aardvark Clinic" {
		t.Fatalf("cohort provider name must be the lexicographic minimum, got %s", cohorts[0].Providers[0].ProviderName)
	}
}

func TestAggregateCohortsSumsAcrossPeriods(t *testing.T) {
	records := []ClaimRecord{
		claim("NPI1", "93000", "CA", 2023, time.January, 1000),
		claim("NPI1", "93000", "CA", 2023, time.February, 2000),
		claim("NPI2", "93000", "CA", 2023, time.January, 500),
		claim("NPI1", "93000", "NY", 2023, time.January, 42),
	}

	cohorts := AggregateCohorts(records)
	if len(cohorts) != 2 {
		t.Fatalf("expected 2 cohorts (same code, two states), got %d", len(cohorts))
	}

	ca := cohorts[0]
	if ca.StateCode != "CA" || ca.ProcedureCode != "93000" {
		t.Fatalf("cohort order: got %s/%s first", ca.ProcedureCode, ca.StateCode)
	}
	if len(ca.Providers) != 2 {
		t.Fatalf("expected 2 providers in CA cohort, got %d", len(ca.Providers))
	}
	if ca.Providers[0].ProviderID != "NPI1" || !ca.Providers[0].Total.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("provider totals must span all periods: %+v", ca.Providers[0])
	}
}

func TestCountStats(t *testing.T) {
	records := []ClaimRecord{
		claim("NPI1", "93000", "CA", 2023, time.January, 100),
		claim("NPI1", "93010", "CA", 2023, time.February, 200),
		claim("NPI2", "93000", "NY", 2023, time.January, 300),
	}

	stats := CountStats(records)
	if stats.TotalClaims != 3 || stats.TotalProviders != 2 || stats.TotalStates != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.TotalSpend.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected spend 600, got %s", stats.TotalSpend)
	}
}

func TestPeriodParseAndOrder(t *testing.T) {
	p, err := ParsePeriod("2023-11")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Year != 2023 || p.Month != time.November {
		t.Fatalf("unexpected period: %+v", p)
	}
	if p.String() != "2023-11" {
		t.Fatalf("round trip: got %s", p.String())
	}

	if _, err := ParsePeriod("2023-13"); err == nil {
		t.Fatal("month 13 must not parse")
	}
	if _, err := ParsePeriod("11/2023"); err == nil {
		t.Fatal("wrong layout must not parse")
	}

	dec := Period{Year: 2022, Month: time.December}
	jan := Period{Year: 2023, Month: time.January}
	if !dec.Before(jan) || jan.Before(dec) {
		t.Fatal("year boundary ordering broken")
	}
}
