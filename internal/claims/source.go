package claims

import (
	"context"
	"errors"
)

// ErrSourceUnavailable indicates the claim source could not be reached
// or queried. Scans fail whole; there are no partial results.
var ErrSourceUnavailable = errors.New("claims: source unavailable")

// Source supplies aggregated claim data to the scan engine. The two
// implementations are the in-memory snapshot below and the Postgres
// adapter in internal/storage, which pushes the grouping down as SQL.
type Source interface {
	// Series returns per-(provider, procedure) monthly series, ordered
	// deterministically with points ascending by period.
	Series(ctx context.Context) ([]Series, error)
	// Cohorts returns per-(procedure, state) provider totals summed
	// across all periods, ordered deterministically.
	Cohorts(ctx context.Context) ([]Cohort, error)
	// Counts returns snapshot-level claim statistics.
	Counts(ctx context.Context) (Stats, error)
}

// MemorySource serves scans from an immutable in-memory snapshot.
type MemorySource struct {
	records []ClaimRecord
}

// NewMemorySource copies the given records into a snapshot. Callers may
// reuse or discard their slice afterwards.
func NewMemorySource(records []ClaimRecord) *MemorySource {
	snapshot := make([]ClaimRecord, len(records))
	copy(snapshot, records)
	return &MemorySource{records: snapshot}
}

// Series implements Source.
func (m *MemorySource) Series(ctx context.Context) ([]Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AggregateSeries(m.records), nil
}

// Cohorts implements Source.
func (m *MemorySource) Cohorts(ctx context.Context) ([]Cohort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AggregateCohorts(m.records), nil
}

// Counts implements Source.
func (m *MemorySource) Counts(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	return CountStats(m.records), nil
}

var _ Source = (*MemorySource)(nil)
