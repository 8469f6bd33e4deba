package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	NextPanel   key.Binding
	PrevPanel   key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Clear       key.Binding
	ClearAll    key.Binding
	TableView   key.Binding
	ChartsView  key.Binding
	MapView     key.Binding
	NextView    key.Binding
	PrevView    key.Binding
	Scroll      key.Binding
	NextStation key.Binding
	PrevStation key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Save        key.Binding
	Presets     key.Binding
	Reload      key.Binding
	Help        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextPanel:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		PrevPanel:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filter")),
		ClearAll:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		TableView:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "table")),
		ChartsView:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "charts")),
		MapView:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "map")),
		NextView:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next view")),
		PrevView:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev view")),
		Scroll:      key.NewBinding(key.WithKeys("pgup", "pgdown", "home", "end"), key.WithHelp("pgup/pgdn", "scroll table")),
		NextStation: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next station")),
		PrevStation: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev station")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:     key.NewBinding(key.WithKeys("-")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save preset")),
		Presets:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "presets")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPanel, k.Toggle, k.Clear, k.TableView, k.ChartsView, k.MapView, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPanel, k.PrevPanel, k.Up, k.Down, k.Toggle, k.Clear, k.ClearAll},
		{k.TableView, k.ChartsView, k.MapView, k.NextView, k.PrevView, k.Scroll},
		{k.NextStation, k.PrevStation, k.ZoomIn},
		{k.Save, k.Presets, k.Reload, k.Help, k.Quit},
	}
}
