package claims

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// columnAliases maps upstream CMS dataset headers onto the canonical
// column names the loader expects.
var columnAliases = map[string]string{
	"rndrng_npi":                 "provider_id",
	"rndrng_prvdr_last_org_name": "provider_name",
	"rndrng_prvdr_state_abrvtn":  "state_code",
	"hcpcs_cd":                   "procedure_code",
	"hcpcs_desc":                 "procedure_description",
	"avg_mdcr_pymt_amt":          "amount_paid",
	"total_paid":                 "amount_paid",
}

var requiredColumns = []string{
	"provider_id",
	"provider_name",
	"procedure_code",
	"procedure_description",
	"state_code",
	"amount_paid",
	"period",
}

// LoadCSVFile reads a claim snapshot from a CSV file.
func LoadCSVFile(path string) ([]ClaimRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open claims csv: %w", err)
	}
	defer file.Close()

	records, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read claims csv %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses claim records from CSV data. Headers are matched
// case-insensitively and CMS dataset column names are accepted as
// aliases for the canonical ones.
func ReadCSV(r io.Reader) ([]ClaimRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		canonical := strings.ToLower(strings.TrimSpace(name))
		if alias, ok := columnAliases[canonical]; ok {
			canonical = alias
		}
		index[canonical] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var records []ClaimRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		amount, err := decimal.NewFromString(strings.TrimSpace(row[index["amount_paid"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse amount_paid: %w", line, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("line %d: amount_paid cannot be negative", line)
		}

		period, err := ParsePeriod(strings.TrimSpace(row[index["period"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, ClaimRecord{
			ProviderID:           strings.TrimSpace(row[index["provider_id"]]),
			ProviderName:         strings.TrimSpace(row[index["provider_name"]]),
			ProcedureCode:        strings.TrimSpace(row[index["procedure_code"]]),
			ProcedureDescription: strings.TrimSpace(row[index["procedure_description"]]),
			StateCode:            strings.TrimSpace(row[index["state_code"]]),
			AmountPaid:           amount,
			Period:               period,
		})
	}
	return records, nil
}
