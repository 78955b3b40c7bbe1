package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/claims"
)

func monthPoints(n int) []claims.MonthlyTotal {
	points := make([]claims.MonthlyTotal, n)
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		points[i] = claims.MonthlyTotal{
			Period: claims.PeriodOf(start.AddDate(0, i, 0)),
			Total:  decimal.NewFromInt(int64(1000 + i)),
		}
	}
	return points
}

func TestDownsamplePoints(t *testing.T) {
	points := monthPoints(24)

	kept := downsamplePoints(points, 10)
	if len(kept) != 10 {
		t.Fatalf("expected 10 points, got %d", len(kept))
	}
	if kept[0] != points[0] || kept[len(kept)-1] != points[len(points)-1] {
		t.Fatal("downsampling must preserve the first and last points")
	}

	if got := downsamplePoints(points, 100); len(got) != 24 {
		t.Fatalf("series under the cap must pass through, got %d", len(got))
	}
	if got := downsamplePoints(points, 0); len(got) != 24 {
		t.Fatalf("non-positive cap means no downsampling, got %d", len(got))
	}
}

func TestDownsamplePointsToOne(t *testing.T) {
	points := monthPoints(24)
	kept := downsamplePoints(points, 1)
	if len(kept) != 1 {
		t.Fatalf("expected 1 point, got %d", len(kept))
	}
	if kept[0] != points[len(points)-1] {
		t.Fatalf("cap of 1 must keep the most recent point, got %+v", kept[0])
	}
}

func TestWriteSeriesPNG(t *testing.T) {
	series := claims.Series{
		ProviderID:    "NPI1",
		ProviderName:  "Smith Clinic",
		ProcedureCode: "93000",
		Points:        monthPoints(12),
	}
	path := filepath.Join(t.TempDir(), "charts", "series.png")
	if err := WriteSeriesPNG(path, series, 100); err != nil {
		t.Fatalf("render: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("rendered chart is empty")
	}

	if err := WriteSeriesPNG(path, claims.Series{ProviderID: "NPI2"}, 100); err == nil {
		t.Fatal("empty series must not render")
	}
}
