package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/jask/chargemap/internal/config"
	"github.com/jask/chargemap/internal/database"
	"github.com/jask/chargemap/internal/database/repository"
	"github.com/jask/chargemap/internal/format"
	"github.com/jask/chargemap/internal/service"
	"github.com/jask/chargemap/internal/station"
)

func testConfig() config.Config {
	return config.Config{UI: config.UIConfig{Title: "Dashboard de Estaciones de Carga EPM", MapZoom: 10, TableHeight: 15}}
}

func newTestApp(t *testing.T, presets *service.PresetService) *App {
	t.Helper()
	src := station.NewSource(filepath.Join("..", "station", "testdata", "stations.csv"), format.Default())
	a := New(context.Background(), testConfig(), src, presets, nil)
	a.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	a.Update(a.loadTable()())
	require.NotNil(t, a.table)
	return a
}

func newPresetService(t *testing.T) *service.PresetService {
	t.Helper()
	db, err := database.OpenAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &service.PresetService{Presets: repository.NewPresetRepo(db)}
}

func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = a.Update(msg)
	}
	return cmd
}

func view(a *App) string {
	return ansi.Strip(a.View())
}

func TestInitialLoad(t *testing.T) {
	a := newTestApp(t, nil)
	require.Len(t, a.filtered, 6)
	require.Len(t, a.mappable, 4)
	require.Equal(t, "skipped 1 malformed line(s)", a.status)
	require.Equal(t, []string{"Bello", "Envigado", "Medellín", "Rionegro"}, a.panel.options[0])

	out := view(a)
	require.Contains(t, out, "Dashboard de Estaciones de Carga EPM")
	require.Contains(t, out, "Records found: 6")
	require.Contains(t, out, "EDS Los Colores")
}

func TestToggleCityFilter(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "x")
	require.Equal(t, []string{"Bello"}, a.filters.Cities)
	require.Len(t, a.filtered, 1)
	require.Contains(t, view(a), "Records found: 1")

	press(a, "down", "down", "space")
	require.Equal(t, []string{"Bello", "Medellín"}, a.filters.Cities)
	require.Len(t, a.filtered, 4)

	press(a, "x")
	require.Equal(t, []string{"Bello"}, a.filters.Cities)

	press(a, "c")
	require.Empty(t, a.filters.Cities)
	require.Len(t, a.filtered, 6)
}

func TestFiltersAcrossDimensions(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "down", "down", "x") // Medellín
	press(a, "tab", "tab")        // charge type: AC, DC, GNV
	require.Equal(t, station.ChargeType, a.panel.dimension())
	press(a, "down", "x") // DC
	require.Len(t, a.filtered, 1)
	require.Equal(t, "EDS Centro", a.filtered[0].Name)

	press(a, "C")
	require.True(t, a.filters.IsZero())
	require.Len(t, a.filtered, 6)
}

func TestChartsWarnWhenNothingMatches(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "down", "down", "down", "x") // Rionegro
	press(a, "tab", "tab", "down", "x")   // DC
	require.Empty(t, a.filtered)

	require.Contains(t, view(a), msgNoRecords)
	press(a, "2")
	require.Equal(t, viewCharts, a.view)
	require.Contains(t, view(a), msgNoRecords)
	press(a, "3")
	require.Contains(t, view(a), msgNoRecords)
}

func TestChartsRender(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "2")
	out := view(a)
	require.Contains(t, out, "Stations by city")
	require.Contains(t, out, "Charge types")
	require.Contains(t, out, "Station types")
	require.Contains(t, out, "Electrica")
}

func TestMapWithoutCoordinates(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "down", "down", "down", "x") // Rionegro has no coordinates
	press(a, "3")
	require.Len(t, a.filtered, 1)
	require.Contains(t, view(a), msgNoCoordinates)
}

func TestMapSelectionCycles(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "3")
	require.Contains(t, view(a), "station 1/4")
	require.Contains(t, view(a), "2 without coordinates")
	press(a, "n", "n")
	require.Equal(t, 2, a.mapCursor)
	press(a, "N", "N", "N")
	require.Equal(t, 3, a.mapCursor)
	require.Contains(t, view(a), a.mappable[3].Name)

	before := view(a)
	press(a, "+")
	require.Equal(t, 11, a.zoom)
	zoomed := view(a)
	require.Contains(t, zoomed, "zoom 11")
	require.NotEqual(t, strings.ReplaceAll(before, "zoom 10", "zoom 11"), zoomed, "zooming in should redraw the map")

	press(a, "-")
	require.Equal(t, before, view(a))
}

func TestViewCycling(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "l")
	require.Equal(t, viewCharts, a.view)
	press(a, "h", "h")
	require.Equal(t, viewMap, a.view)
	press(a, "1")
	require.Equal(t, viewTable, a.view)
}

func TestViewFitsTerminal(t *testing.T) {
	a := newTestApp(t, nil)
	for _, size := range []tea.WindowSizeMsg{{Width: 120, Height: 40}, {Width: 80, Height: 24}} {
		a.Update(size)
		for _, v := range []string{"1", "2", "3"} {
			press(a, v)
			require.LessOrEqual(t, lipgloss.Height(a.View()), size.Height, "view %s at %dx%d", v, size.Width, size.Height)
		}
	}
}

func TestReloadUnchanged(t *testing.T) {
	a := newTestApp(t, nil)
	cmd := press(a, "r")
	require.Equal(t, "reloading...", a.status)
	a.Update(cmd())
	require.Equal(t, "no changes", a.status)
}

func TestPresetsUnavailable(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "s")
	require.Equal(t, modalNone, a.modal)
	require.Equal(t, "presets unavailable", a.status)
}

func TestSaveAndApplyPreset(t *testing.T) {
	a := newTestApp(t, newPresetService(t))
	press(a, "down", "down", "x") // Medellín

	press(a, "s")
	require.Equal(t, modalSavePreset, a.modal)
	press(a, "medellín")
	cmd := press(a, "enter")
	require.Equal(t, modalNone, a.modal)
	a.Update(cmd())
	require.Equal(t, `preset "medellín" saved`, a.status)

	press(a, "C")
	require.Len(t, a.filtered, 6)

	cmd = press(a, "p")
	require.Equal(t, modalPresetPicker, a.modal)
	a.Update(cmd())
	require.Len(t, a.presetList, 1)
	require.Contains(t, view(a), "medellín")

	cmd = press(a, "enter")
	a.Update(cmd())
	require.Equal(t, []string{"Medellín"}, a.filters.Cities)
	require.Len(t, a.filtered, 3)
	require.Equal(t, `preset "medellín" applied`, a.status)
}

func TestApplyPresetDropsStaleValues(t *testing.T) {
	a := newTestApp(t, nil)
	a.Update(presetAppliedMsg{name: "old", filters: station.Filters{Cities: []string{"Sabaneta", "Bello"}}})
	require.Equal(t, []string{"Bello"}, a.filters.Cities)
	require.Equal(t, `preset "old" applied; ignored city=Sabaneta`, a.status)
}

func TestSavePresetRejectsEmptyName(t *testing.T) {
	a := newTestApp(t, newPresetService(t))
	press(a, "s")
	press(a, "enter")
	require.Equal(t, modalSavePreset, a.modal)
	require.Contains(t, a.status, "invalid preset name")
	press(a, "esc")
	require.Equal(t, modalNone, a.modal)
}

func TestWindow(t *testing.T) {
	cases := []struct{ n, cursor, size, start, end int }{
		{3, 0, 5, 0, 3},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 3, 7},
		{10, 9, 4, 6, 10},
	}
	for _, c := range cases {
		start, end := window(c.n, c.cursor, c.size)
		require.Equal(t, [2]int{c.start, c.end}, [2]int{start, end}, "window(%d,%d,%d)", c.n, c.cursor, c.size)
	}
}

func TestColumnWidthsFitBudget(t *testing.T) {
	headers := []string{"Estacion", "Direccion"}
	rows := []table.Row{{"EDS", strings.Repeat("x", 60)}}
	cols := columnWidths(headers, rows, 40)
	require.Equal(t, 8, cols[0].Width)
	require.Equal(t, 40-4-8, cols[1].Width)
}

// runCmd executes cmd, failing the test if it blocks.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("command did not finish")
		return nil
	}
}

func TestFileChangeReloadsTable(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "station", "testdata", "stations.csv"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := station.NewSource(path, format.Default())
	changes, err := src.Watch(ctx)
	require.NoError(t, err)

	a := New(ctx, testConfig(), src, nil, changes)
	a.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	a.Update(a.loadTable()())
	require.Len(t, a.filtered, 6)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("EDS Sabaneta;Sabaneta;Electrica;DC;Calle 75 Sur # 43-10;6,1515;-75,6166\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	msg := runCmd(t, a.waitForChange())
	require.IsType(t, fileChangedMsg{}, msg)

	_, cmd := a.Update(msg)
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2, "reload and keep waiting for changes")
	a.Update(runCmd(t, batch[0]))

	require.Len(t, a.filtered, 7)
	require.Equal(t, "reloaded", a.status)
	require.Contains(t, a.panel.options[0], "Sabaneta")
	require.Contains(t, ansi.Strip(a.View()), "Records found: 7")

	// a signal may still be buffered; after that the closed channel ends the wait
	cancel()
	for i := 0; runCmd(t, a.waitForChange()) != nil; i++ {
		require.Less(t, i, 3, "watch did not end")
	}
}
