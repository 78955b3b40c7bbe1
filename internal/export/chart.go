package export

import (
	"fmt"
	"math"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"claim-fraud-alerts/internal/claims"
)

// WriteSeriesPNG renders one provider/procedure monthly billing series
// as a PNG time-series chart.
func WriteSeriesPNG(path string, series claims.Series, maxPoints int) error {
	if len(series.Points) == 0 {
		return fmt.Errorf("series %s/%s has no data points", series.ProviderID, series.ProcedureCode)
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	points := downsamplePoints(series.Points, maxPoints)

	x := make([]time.Time, len(points))
	y := make([]float64, len(points))
	for i, pt := range points {
		x[i] = pt.Period.Time()
		y[i] = pt.Total.InexactFloat64()
	}

	amountFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s - %s", series.ProviderName, series.ProcedureCode),
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Amount paid (USD)",
			ValueFormatter: amountFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Monthly total",
				XValues: x,
				YValues: y,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func downsamplePoints(points []claims.MonthlyTotal, max int) []claims.MonthlyTotal {
	if max <= 0 || len(points) <= max {
		return points
	}
	if max == 1 {
		// step below needs two slots; keep the most recent month
		return points[len(points)-1:]
	}

	result := make([]claims.MonthlyTotal, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}
