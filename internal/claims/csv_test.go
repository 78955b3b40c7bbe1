package claims

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestReadCSVCanonicalHeaders(t *testing.T) {
	data := `provider_id,provider_name,procedure_code,procedure_description,state_code,amount_paid,period
1003000126,Smith Clinic,93000,Electrocardiogram,CA,150.75,2023-01
1003000126,Smith Clinic,93000,Electrocardiogram,CA,200.00,2023-02
`
	records, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	rec := records[0]
	if rec.ProviderID != "1003000126" || rec.StateCode != "CA" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.AmountPaid.Equal(decimal.NewFromFloat(150.75)) {
		t.Fatalf("amount: got %s", rec.AmountPaid)
	}
	if rec.Period.String() != "2023-01" {
		t.Fatalf("period: got %s", rec.Period)
	}
}

func TestReadCSVAcceptsUpstreamAliases(t *testing.T) {
	// Column names as shipped in the CMS provider utilization dataset.
	data := `Rndrng_NPI,Rndrng_Prvdr_Last_Org_Name,HCPCS_Cd,HCPCS_Desc,Rndrng_Prvdr_State_Abrvtn,Avg_Mdcr_Pymt_Amt,Period
1003000126,Smith Clinic,93000,Electrocardiogram,CA,99.10,2023-05
`
	records, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 || records[0].ProcedureCode != "93000" {
		t.Fatalf("aliased headers not honored: %+v", records)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	data := `provider_id,provider_name,procedure_code,state_code,amount_paid,period
1,x,93000,CA,10,2023-01
`
	if _, err := ReadCSV(strings.NewReader(data)); err == nil {
		t.Fatal("missing procedure_description must fail")
	}
}

func TestReadCSVRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"negative amount": "1,x,93000,d,CA,-5.00,2023-01",
		"bad amount":      "1,x,93000,d,CA,abc,2023-01",
		"bad period":      "1,x,93000,d,CA,10,January 2023",
	}
	header := "provider_id,provider_name,procedure_code,procedure_description,state_code,amount_paid,period\n"
	for name, row := range cases {
		if _, err := ReadCSV(strings.NewReader(header + row + "\n")); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCSVFileMissing(t *testing.T) {
	if _, err := LoadCSVFile("/nonexistent/claims.csv"); err == nil {
		t.Fatal("missing file must fail")
	}
}
