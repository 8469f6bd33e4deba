package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/chargemap/internal/station"
	"github.com/jask/chargemap/internal/widgets"
)

const (
	msgNoRecords     = "No records match the selected filters."
	msgNoCoordinates = "No valid coordinates to show on the map."
)

var (
	colorBrand = widgets.ColorBrand
	colorPeach = lipgloss.Color("#fab387")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	headerStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBrand).Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	warnStyle    = lipgloss.NewStyle().Foreground(colorPeach)
	sidebarStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(lipgloss.Color("#45475a")).PaddingRight(1)
	tabStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#7f849c"))
	tabOnStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#1e1e2e")).Background(colorBrand)
	sectionTitle = lipgloss.NewStyle().Bold(true).Underline(true)
)

const (
	sidebarWidth = 30
	headerHeight = 4
	minMainWidth = 40
)

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func warning(s string) string {
	return warnStyle.Render("⚠ " + s)
}

func (a *App) mainWidth() int {
	w := a.width - sidebarWidth - 3
	if w < minMainWidth {
		w = minMainWidth
	}
	return w
}

func (a *App) View() string {
	footer := a.renderFooter()
	bodyH := a.height - headerHeight - lipgloss.Height(footer)
	if bodyH < 8 {
		bodyH = 8
	}

	sidebar := sidebarStyle.Width(sidebarWidth).Height(bodyH).Render(
		a.panel.view(a.filters, sidebarWidth, bodyH))

	var main string
	switch a.modal {
	case modalSavePreset:
		main = a.renderSaveModal()
	case modalPresetPicker:
		main = a.renderPresetPicker(bodyH)
	default:
		main = a.renderTabs() + "\n" + a.renderContent(bodyH-1)
	}
	main = widgets.Fit(main, a.mainWidth(), bodyH)

	out := lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main),
		footer,
	)
	return lipgloss.NewStyle().MaxWidth(a.width).MaxHeight(a.height).Render(out)
}

func (a *App) renderHeader() string {
	title := titleStyle.Render(a.cfg.UI.Title)
	sub := "loading..."
	if a.table != nil {
		sub = fmt.Sprintf("%s · %d stations · %d shown", a.source.Path, len(a.table.Stations), len(a.filtered))
		if a.table.Skipped > 0 {
			sub += fmt.Sprintf(" · %d skipped", a.table.Skipped)
		}
	}
	inner := max(a.width-4, 20)
	return headerStyle.Width(inner).Render(title + "\n" + mutedStyle.Render(truncate(sub, inner-2)))
}

func (a *App) renderFooter() string {
	status := a.status
	if status == "" {
		status = " "
	}
	return mutedStyle.Render(truncate(status, a.width)) + "\n" + a.help.View(a.keys)
}

func (a *App) renderTabs() string {
	var tabs []string
	for v := viewTable; v < viewCount; v++ {
		label := fmt.Sprintf("%d %s", int(v)+1, v)
		if v == a.view {
			tabs = append(tabs, tabOnStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (a *App) renderContent(height int) string {
	if a.table == nil {
		return mutedStyle.Render("Loading stations...")
	}
	switch a.view {
	case viewCharts:
		return a.renderCharts(height)
	case viewMap:
		return a.renderMap(height)
	}
	return a.renderTable()
}

func (a *App) renderTable() string {
	out := a.grid.View() + "\n" + fmt.Sprintf("Records found: %d", len(a.filtered))
	if len(a.filtered) == 0 {
		out += "\n" + warning(msgNoRecords)
	}
	return out
}

func (a *App) renderCharts(height int) string {
	if len(a.filtered) == 0 {
		return warning(msgNoRecords)
	}
	w := a.mainWidth()
	topH := height * 3 / 5
	leftW := w / 2
	rightW := w - leftW - 2

	cities := widgets.RenderBars(station.CountBy(a.filtered, station.City), leftW, topH-1)
	charges := widgets.RenderDonut(station.CountBy(a.filtered, station.ChargeType), rightW, topH-1)
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.Fit(sectionTitle.Render("Stations by city")+"\n"+cities, leftW, topH),
		"  ",
		widgets.Fit(sectionTitle.Render("Charge types")+"\n"+charges, rightW, topH),
	)
	bottomH := height - topH - 2
	types := widgets.RenderBreakdown(station.CountBy(a.filtered, station.StationType), w, bottomH)
	return top + "\n\n" + sectionTitle.Render("Station types") + "\n" + types
}

func (a *App) renderMap(height int) string {
	if len(a.filtered) == 0 {
		return warning(msgNoRecords)
	}
	if len(a.mappable) == 0 {
		return warning(msgNoCoordinates)
	}
	w := a.mainWidth()
	mapH := max(height-6, 5)
	out := widgets.RenderMap(a.mappable, a.mapCursor, w, mapH, a.zoom)
	info := fmt.Sprintf("station %d/%d · zoom %d", a.mapCursor+1, len(a.mappable), a.zoom)
	if hidden := len(a.filtered) - len(a.mappable); hidden > 0 {
		info += fmt.Sprintf(" · %d without coordinates", hidden)
	}
	return out + "\n" + mutedStyle.Render(info) + "\n" + widgets.RenderStationCard(a.mappable[a.mapCursor], w)
}

func (a *App) renderSaveModal() string {
	return titleStyle.Render("Save filters as preset") + "\n\n" +
		a.input.View() + "\n\n" +
		mutedStyle.Render("[enter] Save  [esc] Cancel")
}

func (a *App) renderPresetPicker(height int) string {
	out := titleStyle.Render("Presets") + "\n\n"
	if len(a.presetList) == 0 {
		return out + mutedStyle.Render("No saved presets. Press s to save the current filters.") +
			"\n\n" + mutedStyle.Render("[esc] Close")
	}
	start, end := window(len(a.presetList), a.presetCursor, max(height-5, 1))
	for i := start; i < end; i++ {
		p := a.presetList[i]
		line := fmt.Sprintf("%s  %s", p.Name, mutedStyle.Render(fmt.Sprintf("(%d values)", len(p.Values))))
		if i == a.presetCursor {
			line = cursorStyle.Render(p.Name) + "  " + mutedStyle.Render(fmt.Sprintf("(%d values)", len(p.Values)))
		}
		out += "  " + line + "\n"
	}
	return out + "\n" + mutedStyle.Render("[enter] Apply  [d] Delete  [esc] Close")
}

func (a *App) gridHeight() int {
	bodyH := a.height - headerHeight - 3
	h := a.cfg.UI.TableHeight
	if limit := bodyH - 6; h > limit {
		h = limit
	}
	return max(h, 3)
}

func (a *App) layoutGrid() {
	if a.table != nil {
		a.rebuildGrid()
		return
	}
	a.grid.SetWidth(a.mainWidth())
	a.grid.SetHeight(a.gridHeight())
}

// rebuildGrid refreshes the table rows from the filtered stations, sizing
// columns to their content within the main panel.
func (a *App) rebuildGrid() {
	cols := a.table.Columns
	rows := make([]table.Row, len(a.filtered))
	for i, s := range a.filtered {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = a.table.Value(s, c)
		}
		rows[i] = row
	}

	// rows must be cleared before the column count can change
	a.grid.SetRows(nil)
	a.grid.SetColumns(columnWidths(cols, rows, a.mainWidth()))
	a.grid.SetRows(rows)
	a.grid.SetWidth(a.mainWidth())
	a.grid.SetHeight(a.gridHeight())
	if len(rows) > 0 {
		a.grid.SetCursor(0)
	}
}

// columnWidths fits columns to width, narrowing the widest first.
func columnWidths(headers []string, rows []table.Row, width int) []table.Column {
	const (
		maxCol = 40
		minCol = 6
	)
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if w := ansi.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	sum := 0
	for i := range widths {
		widths[i] = min(max(widths[i], minCol), maxCol)
		sum += widths[i]
	}
	// two cells of padding per column
	budget := width - 2*len(headers)
	for sum > budget {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minCol {
			break
		}
		widths[widest]--
		sum--
	}
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}
