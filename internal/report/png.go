package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jask/chargemap/internal/station"
)

var pngPalette = []drawing.Color{
	drawing.ColorFromHex("1DB954"),
	drawing.ColorFromHex("89b4fa"),
	drawing.ColorFromHex("fab387"),
	drawing.ColorFromHex("f38ba8"),
	drawing.ColorFromHex("cba6f7"),
	drawing.ColorFromHex("f9e2af"),
	drawing.ColorFromHex("94e2d5"),
}

func fillStyle(i int) chart.Style {
	c := pngPalette[i%len(pngPalette)]
	return chart.Style{FillColor: c, StrokeColor: c}
}

// ErrNothingToDraw is returned when the filtered view has no rows to chart.
var ErrNothingToDraw = errors.New("nothing to draw")

// WriteCityBarPNG renders stations per city as a PNG bar chart.
func WriteCityBarPNG(w io.Writer, stations []station.Station) error {
	counts := station.CountBy(stations, station.City)
	if len(counts) == 0 {
		return ErrNothingToDraw
	}
	bars := make([]chart.Value, len(counts))
	top := 0
	for i, c := range counts {
		bars[i] = chart.Value{Label: c.Value, Value: float64(c.Count), Style: fillStyle(0)}
		top = max(top, c.Count)
	}
	bc := chart.BarChart{
		Title:      "Stations by city",
		Width:      max(480, 90*len(bars)),
		Height:     420,
		BarWidth:   50,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax(top)},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render city chart: %w", err)
	}
	return nil
}

// WriteChargeDonutPNG renders the charge type shares as a PNG donut.
func WriteChargeDonutPNG(w io.Writer, stations []station.Station) error {
	counts := station.CountBy(stations, station.ChargeType)
	if len(counts) == 0 {
		return ErrNothingToDraw
	}
	total := station.Total(counts)
	values := make([]chart.Value, len(counts))
	for i, c := range counts {
		pct := float64(c.Count) / float64(total) * 100
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s %.0f%%", c.Value, pct),
			Value: float64(c.Count),
			Style: fillStyle(i),
		}
	}
	dc := chart.DonutChart{
		Title:  "Charge types",
		Width:  480,
		Height: 480,
		Values: values,
	}
	if err := dc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render charge chart: %w", err)
	}
	return nil
}

// niceMax rounds n up to a value that gives readable axis ticks.
func niceMax(n int) float64 {
	if n <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(float64(n))))
	for _, step := range []float64{1, 2, 5, 10} {
		if v := step * mag; v >= float64(n) {
			return v
		}
	}
	return 10 * mag
}
