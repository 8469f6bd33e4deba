// Package widgets renders the dashboard's charts as plain strings sized to a
// width and height, so they can be composed with lipgloss.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	ColorBrand    = lipgloss.Color("#1DB954")
	colorOverlay1 = lipgloss.Color("#7f849c")
	colorSurface1 = lipgloss.Color("#45475a")
	colorSurface2 = lipgloss.Color("#585b70")
	colorPeach    = lipgloss.Color("#fab387")

	// series colors, cycled by position
	palette = []lipgloss.Color{
		"#1DB954",
		"#89b4fa",
		"#fab387",
		"#f38ba8",
		"#cba6f7",
		"#f9e2af",
		"#94e2d5",
		"#a6e3a1",
		"#74c7ec",
		"#eba0ac",
	}

	mutedStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
	valueStyle = lipgloss.NewStyle().Foreground(colorPeach)
)

// SeriesColor returns the palette color for the i-th series.
func SeriesColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// Muted renders s in the dim informational style.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, appending "…" if truncated.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Fit pads or cuts every line of s to width and the block to height.
func Fit(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(ansi.Truncate(l, width, ""), width)
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func formatPercent(part, total int) string {
	if total <= 0 {
		return "   0%"
	}
	return fmt.Sprintf("%4.0f%%", float64(part)/float64(total)*100)
}
