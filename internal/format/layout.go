package format

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// ---------------------------------------------------------------------------
// Dataset layouts (TOML-based)
// ---------------------------------------------------------------------------

// Layout describes how to read one flavour of stations CSV. Column fields hold
// header names, not indexes, because exports reorder columns freely.
type Layout struct {
	Name           string `toml:"name"`
	Description    string `toml:"description"`
	Delimiter      string `toml:"delimiter"`
	NameCol        string `toml:"name_col"`
	CityCol        string `toml:"city_col"`
	StationTypeCol string `toml:"station_type_col"`
	ChargeTypeCol  string `toml:"charge_type_col"`
	AddressCol     string `toml:"address_col"`
	LatitudeCol    string `toml:"latitude_col"`
	LongitudeCol   string `toml:"longitude_col"`
}

// layoutFile is the top-level TOML structure.
type layoutFile struct {
	Layout []Layout `toml:"layout"`
}

// FileName is the layouts file name inside the layouts directory.
const FileName = "layouts.toml"

const defaultLayoutsTOML = `# chargemap dataset layouts
# Add new [[layout]] blocks to read other station exports.

[[layout]]
name = "epm"
description = "EPM gas and electric charging stations export"
delimiter = ";"
name_col = "Estacion"
city_col = "Ciudad"
station_type_col = "Tipo de estacion"
charge_type_col = "Tipo de carga"
address_col = "Direccion"
latitude_col = "Latitud"
longitude_col = "Longitud"
`

// Default returns the built-in EPM layout.
func Default() Layout {
	return Layout{
		Name:           "epm",
		Description:    "EPM gas and electric charging stations export",
		Delimiter:      ";",
		NameCol:        "Estacion",
		CityCol:        "Ciudad",
		StationTypeCol: "Tipo de estacion",
		ChargeTypeCol:  "Tipo de carga",
		AddressCol:     "Direccion",
		LatitudeCol:    "Latitud",
		LongitudeCol:   "Longitud",
	}
}

// Comma returns the field delimiter rune, defaulting to ';'.
func (l Layout) Comma() rune {
	if l.Delimiter == "" {
		return ';'
	}
	r, _ := utf8.DecodeRuneInString(l.Delimiter)
	return r
}

// Path returns the layouts file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads layout definitions from dir. If the file doesn't exist, it is
// created with the default EPM layout.
func Load(dir string) ([]Layout, error) {
	path := Path(dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return []Layout{Default()}, fmt.Errorf("create layouts dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultLayoutsTOML), 0o644); wErr != nil {
			return []Layout{Default()}, fmt.Errorf("write default layouts: %w", wErr)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []Layout{Default()}, fmt.Errorf("read layouts: %w", err)
	}
	return Parse(data)
}

// Parse parses TOML bytes into layout definitions.
func Parse(data []byte) ([]Layout, error) {
	var f layoutFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if len(f.Layout) == 0 {
		return nil, fmt.Errorf("no layouts defined in %s", FileName)
	}
	for i, l := range f.Layout {
		if strings.TrimSpace(l.Name) == "" {
			return nil, fmt.Errorf("layout[%d]: name is required", i)
		}
		if l.Delimiter != "" && utf8.RuneCountInString(l.Delimiter) != 1 {
			return nil, fmt.Errorf("layout[%d] %q: delimiter must be a single character", i, l.Name)
		}
		required := []struct{ key, col string }{
			{"city_col", l.CityCol},
			{"station_type_col", l.StationTypeCol},
			{"charge_type_col", l.ChargeTypeCol},
		}
		for _, r := range required {
			if strings.TrimSpace(r.col) == "" {
				return nil, fmt.Errorf("layout[%d] %q: %s is required", i, l.Name, r.key)
			}
		}
	}
	return f.Layout, nil
}

// Find looks up a layout by name (case-insensitive).
func Find(layouts []Layout, name string) (Layout, bool) {
	for _, l := range layouts {
		if strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			return l, true
		}
	}
	return Layout{}, false
}
