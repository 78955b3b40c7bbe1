// Package export renders scan output for investigators: the delimited
// alert text used by the download surface and PNG charts of monthly
// billing series.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"claim-fraud-alerts/internal/scan"
)

// alertHeader is the fixed column order of the alert export.
var alertHeader = []string{
	"provider_id",
	"provider_name",
	"state",
	"procedure_code",
	"procedure_description",
	"period",
	"current_amount",
	"comparison_amount",
	"deviation_percent",
	"severity",
}

// AlertsCSV renders one row per alert under a header row. Every textual
// field is quoted; the three numeric fields are rendered bare with two
// fixed decimal places.
func AlertsCSV(alerts []scan.FraudAlert) string {
	var b strings.Builder

	for i, col := range alertHeader {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quoteField(col))
	}
	b.WriteByte('\n')

	for _, alert := range alerts {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			quoteField(alert.ProviderID),
			quoteField(alert.ProviderName),
			quoteField(alert.StateCode),
			quoteField(alert.ProcedureCode),
			quoteField(alert.ProcedureDescription),
			quoteField(alert.Period),
			alert.CurrentAmount.StringFixed(2),
			alert.ComparisonAmount.StringFixed(2),
			alert.DeviationPct.StringFixed(2),
			quoteField(string(alert.Severity)),
		)
	}

	return b.String()
}

// quoteField wraps a textual field in RFC 4180 quotes, doubling any
// embedded quote characters.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteAlertsCSV writes the alert export to a file, creating parent
// directories as needed.
func WriteAlertsCSV(path string, alerts []scan.FraudAlert) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(AlertsCSV(alerts)), 0o644); err != nil {
		return fmt.Errorf("write alerts csv: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
