package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/chargemap/internal/config"
	"github.com/jask/chargemap/internal/database/repository"
	"github.com/jask/chargemap/internal/service"
	"github.com/jask/chargemap/internal/station"
)

// App is the interactive dashboard.
type App struct {
	ctx     context.Context
	cfg     config.Config
	source  *station.Source
	presets *service.PresetService // nil when preset storage is unavailable
	watch   <-chan struct{}

	table    *station.Table
	filters  station.Filters
	filtered []station.Station
	mappable []station.Station
	panel    filterPanel
	view     viewMode
	grid     table.Model
	keys     keyMap
	help     help.Model

	modal        modalState
	input        textinput.Model
	presetList   []repository.Preset
	presetCursor int

	mapCursor int
	zoom      int
	status    string
	width     int
	height    int
}

type viewMode int

const (
	viewTable viewMode = iota
	viewCharts
	viewMap
	viewCount
)

func (v viewMode) String() string {
	switch v {
	case viewCharts:
		return "Charts"
	case viewMap:
		return "Map"
	}
	return "Table"
}

type modalState string

const (
	modalNone         modalState = ""
	modalSavePreset   modalState = "savePreset"
	modalPresetPicker modalState = "presetPicker"
)

// New builds the dashboard. presets and watch may be nil.
func New(ctx context.Context, cfg config.Config, source *station.Source, presets *service.PresetService, watch <-chan struct{}) *App {
	ti := textinput.New()
	ti.Placeholder = "preset name"
	ti.CharLimit = 64

	grid := table.New(table.WithFocused(true), table.WithHeight(cfg.UI.TableHeight))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true).Foreground(colorBrand)
	grid.SetStyles(styles)

	return &App{
		ctx:     ctx,
		cfg:     cfg,
		source:  source,
		presets: presets,
		watch:   watch,
		grid:    grid,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   ti,
		zoom:    cfg.UI.MapZoom,
		width:   100,
		height:  32,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadTable(), a.loadPresets(), a.waitForChange())
}

func (a *App) loadTable() tea.Cmd {
	return func() tea.Msg {
		t, reloaded, err := a.source.Load(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return tableLoadedMsg{table: t, reloaded: reloaded}
	}
}

func (a *App) loadPresets() tea.Cmd {
	if a.presets == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := a.presets.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return presetsMsg(list)
	}
}

func (a *App) waitForChange() tea.Cmd {
	if a.watch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-a.watch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (a *App) savePresetCmd(name string, f station.Filters) tea.Cmd {
	return func() tea.Msg {
		p, err := a.presets.Save(a.ctx, name, f)
		if err != nil {
			return errMsg{err}
		}
		return presetSavedMsg{name: p.Name}
	}
}

func (a *App) deletePresetCmd(name string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if err := a.presets.Delete(a.ctx, name); err != nil {
				return errMsg{err}
			}
			return statusMsg(fmt.Sprintf("preset %q deleted", name))
		},
		a.loadPresets(),
	)
}

func (a *App) applyPresetCmd(name string) tea.Cmd {
	return func() tea.Msg {
		f, err := a.presets.Load(a.ctx, name)
		if err != nil {
			return errMsg{err}
		}
		return presetAppliedMsg{name: name, filters: f}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		a.layoutGrid()
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)
	case tableLoadedMsg:
		a.setTable(m.table, m.reloaded)
	case presetsMsg:
		a.presetList = []repository.Preset(m)
		if a.presetCursor >= len(a.presetList) {
			a.presetCursor = max(len(a.presetList)-1, 0)
		}
	case presetSavedMsg:
		a.status = fmt.Sprintf("preset %q saved", m.name)
		return a, a.loadPresets()
	case presetAppliedMsg:
		a.applyFilters(m.name, m.filters)
	case fileChangedMsg:
		return a, tea.Batch(a.loadTable(), a.waitForChange())
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(m, a.keys.NextPanel):
		a.panel.next()
	case key.Matches(m, a.keys.PrevPanel):
		a.panel.prev()
	case key.Matches(m, a.keys.Up):
		a.panel.move(-1)
	case key.Matches(m, a.keys.Down):
		a.panel.move(1)
	case key.Matches(m, a.keys.Toggle):
		if v, ok := a.panel.current(); ok {
			d := a.panel.dimension()
			toggle(&a.filters, d, v, a.panel.options[a.panel.focus])
			a.refresh()
		}
	case key.Matches(m, a.keys.Clear):
		a.filters.Set(a.panel.dimension(), nil)
		a.refresh()
	case key.Matches(m, a.keys.ClearAll):
		a.filters = station.Filters{}
		a.refresh()
	case key.Matches(m, a.keys.TableView):
		a.view = viewTable
	case key.Matches(m, a.keys.ChartsView):
		a.view = viewCharts
	case key.Matches(m, a.keys.MapView):
		a.view = viewMap
	case key.Matches(m, a.keys.NextView):
		a.view = (a.view + 1) % viewCount
	case key.Matches(m, a.keys.PrevView):
		a.view = (a.view + viewCount - 1) % viewCount
	case key.Matches(m, a.keys.Scroll):
		if a.view == viewTable {
			var cmd tea.Cmd
			a.grid, cmd = a.grid.Update(m)
			return a, cmd
		}
	case key.Matches(m, a.keys.NextStation):
		if n := len(a.mappable); n > 0 {
			a.mapCursor = (a.mapCursor + 1) % n
		}
	case key.Matches(m, a.keys.PrevStation):
		if n := len(a.mappable); n > 0 {
			a.mapCursor = (a.mapCursor + n - 1) % n
		}
	case key.Matches(m, a.keys.ZoomIn):
		if a.zoom < 18 {
			a.zoom++
		}
	case key.Matches(m, a.keys.ZoomOut):
		if a.zoom > 1 {
			a.zoom--
		}
	case key.Matches(m, a.keys.Save):
		if a.presets == nil {
			a.status = "presets unavailable"
			return a, nil
		}
		a.modal = modalSavePreset
		a.input.Reset()
		return a, a.input.Focus()
	case key.Matches(m, a.keys.Presets):
		if a.presets == nil {
			a.status = "presets unavailable"
			return a, nil
		}
		a.modal = modalPresetPicker
		return a, a.loadPresets()
	case key.Matches(m, a.keys.Reload):
		a.status = "reloading..."
		return a, a.loadTable()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalSavePreset:
		switch m.String() {
		case "esc":
			a.modal = modalNone
			a.input.Blur()
			return a, nil
		case "enter":
			name, err := service.ValidatePresetName(a.input.Value())
			if err != nil {
				a.status = err.Error()
				return a, nil
			}
			a.modal = modalNone
			a.input.Blur()
			return a, a.savePresetCmd(name, a.filters)
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(m)
		return a, cmd
	case modalPresetPicker:
		switch m.String() {
		case "esc", "q":
			a.modal = modalNone
		case "up", "k":
			if a.presetCursor > 0 {
				a.presetCursor--
			}
		case "down", "j":
			if a.presetCursor < len(a.presetList)-1 {
				a.presetCursor++
			}
		case "enter":
			if len(a.presetList) == 0 {
				return a, nil
			}
			a.modal = modalNone
			return a, a.applyPresetCmd(a.presetList[a.presetCursor].Name)
		case "d", "delete":
			if len(a.presetList) == 0 {
				return a, nil
			}
			return a, a.deletePresetCmd(a.presetList[a.presetCursor].Name)
		}
	}
	return a, nil
}

// setTable installs a freshly loaded table. Selected values that no longer
// occur are dropped.
func (a *App) setTable(t *station.Table, reloaded bool) {
	if a.table != nil && !reloaded {
		a.status = "no changes"
		return
	}
	first := a.table == nil
	a.table = t
	a.panel.setOptions(t.Stations)
	kept, stale := service.Reconcile(a.filters, t.Stations)
	a.filters = kept
	a.refresh()
	switch {
	case len(stale) > 0:
		a.status = "reloaded; dropped " + joinStale(stale)
	case first && t.Skipped > 0:
		a.status = fmt.Sprintf("skipped %d malformed line(s)", t.Skipped)
	case !first:
		a.status = "reloaded"
	}
}

func (a *App) applyFilters(name string, f station.Filters) {
	if a.table == nil {
		a.status = "no data loaded"
		return
	}
	kept, stale := service.Reconcile(f, a.table.Stations)
	a.filters = kept
	a.refresh()
	a.status = fmt.Sprintf("preset %q applied", name)
	if len(stale) > 0 {
		a.status += "; ignored " + joinStale(stale)
	}
}

func joinStale(stale []service.StaleValue) string {
	parts := make([]string, len(stale))
	for i, s := range stale {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

func (a *App) refresh() {
	if a.table == nil {
		a.filtered, a.mappable = nil, nil
		return
	}
	a.filtered = station.Apply(a.table.Stations, a.filters)
	a.mappable = station.Mappable(a.filtered)
	if a.mapCursor >= len(a.mappable) {
		a.mapCursor = 0
	}
	a.rebuildGrid()
}

// messages
type tableLoadedMsg struct {
	table    *station.Table
	reloaded bool
}

type presetsMsg []repository.Preset

type presetSavedMsg struct{ name string }

type presetAppliedMsg struct {
	name    string
	filters station.Filters
}

type fileChangedMsg struct{}

type statusMsg string

type errMsg struct{ error }

// Run starts the dashboard on the alternate screen.
func Run(app *App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(app.ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && app.ctx.Err() != nil {
		return nil
	}
	return err
}
