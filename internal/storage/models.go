package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScanRun records one completed scheduled scan for auditing.
type ScanRun struct {
	ID               uuid.UUID
	ThresholdPct     decimal.Decimal
	AlertLimit       int
	TotalAlerts      int
	FlaggedProviders int
	StartedAt        time.Time
	FinishedAt       time.Time
}

// AlertRecord is the persisted form of one emitted alert. Rows are
// write-only history for investigators; scans never read them back.
type AlertRecord struct {
	ID                   int64
	RunID                uuid.UUID
	ProviderID           string
	ProviderName         string
	StateCode            string
	ProcedureCode        string
	ProcedureDescription string
	Period               string
	CurrentAmount        decimal.Decimal
	ComparisonAmount     decimal.Decimal
	DeviationPct         decimal.Decimal
	Severity             string
	Detector             string
	CreatedAt            time.Time
}
