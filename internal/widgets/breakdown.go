package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/chargemap/internal/station"
)

// RenderBreakdown draws one horizontal bar per value, longest first, each
// followed by its share of the total and its count. Lines beyond height are
// folded into a "+N more" line.
func RenderBreakdown(counts []station.Count, width, height int) string {
	if len(counts) == 0 {
		return mutedStyle.Render("No data to display.")
	}
	sorted := append([]station.Count(nil), counts...)
	station.SortByCount(sorted)
	total := station.Total(sorted)

	if width < 24 {
		width = 24
	}
	display := sorted
	hidden := 0
	if height > 0 && len(display) > height {
		keep := height - 1
		if keep < 1 {
			keep = 1
		}
		hidden = len(display) - keep
		display = display[:keep]
	}

	maxCount := display[0].Count
	if maxCount <= 0 {
		maxCount = 1
	}
	pctW := 5
	cntW := 1
	for _, c := range display {
		if w := len(fmt.Sprint(c.Count)); w > cntW {
			cntW = w
		}
	}
	available := width - (1 + pctW + 1 + cntW)
	if available < 2 {
		available = 2
	}
	nameW := 4
	for _, c := range display {
		if w := ansi.StringWidth(c.Value); w+2 > nameW {
			nameW = w + 2
		}
	}
	if nameW > 26 {
		nameW = 26
	}
	if nameW > available-1 {
		nameW = available - 1
	}
	barW := available - nameW

	var lines []string
	for i, c := range display {
		color := SeriesColor(i)
		ratio := float64(c.Count) / float64(maxCount)
		filled := int(math.Round(float64(barW) * ratio))
		if filled < 1 && c.Count > 0 {
			filled = 1
		}
		if filled > barW {
			filled = barW
		}
		nameSty := lipgloss.NewStyle().Foreground(color)
		line := padRight(nameSty.Render(truncate(c.Value, nameW-1)), nameW) +
			lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
			lipgloss.NewStyle().Foreground(colorSurface2).Render(strings.Repeat("░", barW-filled)) +
			" " + mutedStyle.Render(formatPercent(c.Count, total)) +
			" " + valueStyle.Render(fmt.Sprintf("%*d", cntW, c.Count))
		lines = append(lines, padRight(line, width))
	}
	if hidden > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", hidden)))
	}
	return strings.Join(lines, "\n")
}
