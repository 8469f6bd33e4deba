// Package report renders filtered station data outside the dashboard: text
// and YAML summaries, station listings, an HTML page and PNG charts.
package report

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jask/chargemap/internal/station"
)

// Point is a latitude/longitude pair.
type Point struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Summary describes one filtered view of the stations table.
type Summary struct {
	Source       string          `yaml:"source"`
	Loaded       int             `yaml:"loaded"`
	Skipped      int             `yaml:"skipped"`
	Matched      int             `yaml:"matched"`
	Mappable     int             `yaml:"mappable"`
	Filters      station.Filters `yaml:"filters"`
	Cities       []station.Count `yaml:"cities"`
	StationTypes []station.Count `yaml:"station_types"`
	ChargeTypes  []station.Count `yaml:"charge_types"`
	Center       *Point          `yaml:"center,omitempty"`
}

// Summarize applies f to the table and aggregates the result.
func Summarize(source string, t *station.Table, f station.Filters) Summary {
	matched := station.Apply(t.Stations, f)
	s := Summary{
		Source:       source,
		Loaded:       len(t.Stations),
		Skipped:      t.Skipped,
		Matched:      len(matched),
		Mappable:     len(station.Mappable(matched)),
		Filters:      f,
		Cities:       station.CountBy(matched, station.City),
		StationTypes: station.CountBy(matched, station.StationType),
		ChargeTypes:  station.CountBy(matched, station.ChargeType),
	}
	if lat, lon, ok := station.Center(matched); ok {
		s.Center = &Point{Lat: lat, Lon: lon}
	}
	return s
}

// Warnings returns the notices the dashboard would show for this view.
func (s Summary) Warnings() []string {
	switch {
	case s.Matched == 0:
		return []string{"No records match the selected filters."}
	case s.Mappable == 0:
		return []string{"No valid coordinates to show on the map."}
	}
	return nil
}

// WriteYAML writes s as a YAML document.
func (s Summary) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return enc.Close()
}

// WriteText writes s as aligned, colored tables.
func (s Summary) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n  source:   %s\n  loaded:   %d (%d skipped)\n  matched:  %d\n  mappable: %d\n",
		SectionTitle("Stations"), s.Source, s.Loaded, s.Skipped, s.Matched, s.Mappable); err != nil {
		return err
	}
	if s.Center != nil {
		if _, err := fmt.Fprintf(w, "  center:   %.4f, %.4f\n", s.Center.Lat, s.Center.Lon); err != nil {
			return err
		}
	}
	for _, d := range station.Dimensions {
		if v := s.Filters.Values(d); len(v) > 0 {
			if _, err := fmt.Fprintf(w, "  %s\n", faint("%s filter: %v", d.Label(), v)); err != nil {
				return err
			}
		}
	}
	for _, msg := range s.Warnings() {
		if _, err := fmt.Fprintf(w, "\n%s\n", Warning(msg)); err != nil {
			return err
		}
	}

	sections := []struct {
		dim    station.Dimension
		counts []station.Count
	}{
		{station.City, s.Cities},
		{station.StationType, s.StationTypes},
		{station.ChargeType, s.ChargeTypes},
	}
	for _, sec := range sections {
		if len(sec.counts) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", SectionTitle(sec.dim.Label())); err != nil {
			return err
		}
		if err := countTable(sec.counts).Render(w); err != nil {
			return err
		}
	}
	return nil
}

func countTable(counts []station.Count) *Table {
	total := station.Total(counts)
	tbl := NewTable(
		Column{Header: "Value", MaxWidth: 40},
		Column{Header: "Count", Align: AlignRight, Color: colorCount},
		Column{Header: "Share", Align: AlignRight},
	)
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) / float64(total) * 100
		}
		tbl.AddRow(c.Value, strconv.Itoa(c.Count), fmt.Sprintf("%.1f%%", share))
	}
	return tbl
}

// WriteStations lists stations with the table's columns in file order.
func WriteStations(w io.Writer, t *station.Table, stations []station.Station) error {
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = Column{Header: c, MaxWidth: 40}
	}
	tbl := NewTable(cols...)
	for _, s := range stations {
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = t.Value(s, c)
		}
		tbl.AddRow(row...)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nRecords found: %d\n", len(stations))
	return err
}
