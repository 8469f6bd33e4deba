package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/chargemap/internal/station"
)

const minBarCols = 2

// RenderBars draws a vertical bar per value in the given order, numbered,
// with a legend on the right mapping numbers to values and counts.
func RenderBars(counts []station.Count, width, height int) string {
	if len(counts) == 0 {
		return mutedStyle.Render("No data to display.")
	}
	if height < 4 {
		height = 4
	}
	legendW := legendWidth(counts, width)
	chartW := width - legendW - 2
	if chartW < 8 {
		chartW = 8
	}

	// one column of axis plus a gap per bar
	maxBars := (chartW - 1) / (minBarCols + 1)
	if maxBars < 1 {
		maxBars = 1
	}
	shown := counts
	if len(shown) > maxBars {
		shown = shown[:maxBars]
	}

	data := make([]barchart.BarData, 0, len(shown))
	for i, c := range shown {
		data = append(data, barchart.BarData{
			Label: strconv.Itoa(i + 1),
			Values: []barchart.BarValue{{
				Name:  c.Value,
				Value: float64(c.Count),
				Style: lipgloss.NewStyle().Foreground(SeriesColor(i)),
			}},
		})
	}
	chart := barchart.New(chartW, height,
		barchart.WithStyles(lipgloss.NewStyle().Foreground(colorSurface2), mutedStyle),
		barchart.WithBarGap(1),
	)
	chart.PushAll(data)
	chart.Draw()

	legend := renderLegend(counts, len(shown), legendW, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, chart.View(), "  ", legend)
}

func legendWidth(counts []station.Count, width int) int {
	w := 0
	for i, c := range counts {
		lw := len(strconv.Itoa(i+1)) + 1 + ansi.StringWidth(c.Value) + 1 + len(strconv.Itoa(c.Count))
		if lw > w {
			w = lw
		}
	}
	if limit := width * 2 / 5; w > limit {
		w = limit
	}
	if w < 12 {
		w = 12
	}
	return w
}

func renderLegend(counts []station.Count, shown, width, height int) string {
	var lines []string
	for i, c := range counts {
		if len(lines) == height-1 && len(counts)-i > 1 {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", len(counts)-i)))
			break
		}
		num := strconv.Itoa(i + 1)
		style := lipgloss.NewStyle().Foreground(SeriesColor(i))
		if i >= shown {
			style = mutedStyle
		}
		cnt := strconv.Itoa(c.Count)
		nameW := width - len(num) - 1 - len(cnt) - 1
		name := padRight(truncate(c.Value, nameW), nameW)
		lines = append(lines, style.Render(num)+" "+name+" "+valueStyle.Render(cnt))
	}
	return strings.Join(lines, "\n")
}
