package report

import (
	"fmt"

	"github.com/fatih/color"
)

// Shared color printers for report output.
var (
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
	colorFaint  = color.New(color.Faint)
)

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// colorCount colors a count: 0 is yellow, anything else green.
func colorCount(value string) string {
	if value == "0" {
		return colorYellow.Sprint(value)
	}
	return colorGreen.Sprint(value)
}

// Warning renders a warning line.
func Warning(msg string) string {
	return colorYellow.Sprint("warning: " + msg)
}

func faint(format string, args ...any) string {
	return colorFaint.Sprint(fmt.Sprintf(format, args...))
}
