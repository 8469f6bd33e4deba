package widgets

import (
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/chargemap/internal/station"
)

// DonutHole is the inner radius as a fraction of the outer radius.
const DonutHole = 0.4

// Slice returns the index of the slice covering the given fraction of a full
// turn, with slices laid out clockwise in order.
func Slice(counts []station.Count, fraction float64) int {
	total := station.Total(counts)
	if total <= 0 {
		return -1
	}
	acc := 0.0
	for i, c := range counts {
		acc += float64(c.Count) / float64(total)
		if fraction < acc {
			return i
		}
	}
	return len(counts) - 1
}

// RenderDonut draws the share of each value as a ring starting at twelve
// o'clock, with a legend of percentages on the right.
func RenderDonut(counts []station.Count, width, height int) string {
	total := station.Total(counts)
	if total == 0 {
		return mutedStyle.Render("No data to display.")
	}
	if height < 5 {
		height = 5
	}
	legendW := legendWidth(counts, width) + 6
	ringW := width - legendW - 2
	// cells are about twice as tall as wide
	if ringW > height*2 {
		ringW = height * 2
	}
	if ringW < 10 {
		ringW = 10
	}

	c := canvas.New(ringW, height)
	cx := float64(ringW) / 2
	cy := float64(height) / 2
	radius := math.Min(cx, cy*2)
	for y := 0; y < height; y++ {
		for x := 0; x < ringW; x++ {
			dx := float64(x) + 0.5 - cx
			dy := (float64(y) + 0.5 - cy) * 2
			d := math.Hypot(dx, dy) / radius
			if d > 1 || d < DonutHole {
				continue
			}
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			i := Slice(counts, angle/(2*math.Pi))
			if i < 0 {
				continue
			}
			c.SetCell(canvas.Point{X: x, Y: y}, canvas.Cell{
				Rune:  '█',
				Style: lipgloss.NewStyle().Foreground(SeriesColor(i)),
			})
		}
	}

	var legend []string
	for i, cnt := range counts {
		if len(legend) == height-1 && len(counts)-i > 1 {
			legend = append(legend, mutedStyle.Render("…"))
			break
		}
		sw := lipgloss.NewStyle().Foreground(SeriesColor(i)).Render("■")
		name := padRight(truncate(cnt.Value, legendW-8), legendW-8)
		legend = append(legend, sw+" "+name+" "+mutedStyle.Render(formatPercent(cnt.Count, total)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, c.View(), "  ", strings.Join(legend, "\n"))
}
