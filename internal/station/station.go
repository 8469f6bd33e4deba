// Package station holds the stations table and the filtering, grouping and
// coordinate handling the dashboard and reports are built on.
package station

import (
	"fmt"
	"strings"
)

// Station is one row of the stations dataset. Categorical fields are opaque
// strings; an empty string means the value was absent in the source.
type Station struct {
	Line        int
	Name        string
	City        string
	StationType string
	ChargeType  string
	Address     string
	Latitude    Coordinate
	Longitude   Coordinate
	Fields      map[string]string // raw cell values keyed by header
}

// Mappable reports whether both coordinates are valid.
func (s Station) Mappable() bool {
	return s.Latitude.Valid && s.Longitude.Valid
}

// Dimension is one of the categorical columns the dashboard filters on.
type Dimension int

const (
	City Dimension = iota
	StationType
	ChargeType
)

// Dimensions lists every filterable dimension in sidebar order.
var Dimensions = []Dimension{City, StationType, ChargeType}

func (d Dimension) String() string {
	switch d {
	case City:
		return "city"
	case StationType:
		return "station_type"
	case ChargeType:
		return "charge_type"
	}
	return fmt.Sprintf("dimension(%d)", int(d))
}

// Label is the human-readable name used in widgets and reports.
func (d Dimension) Label() string {
	switch d {
	case City:
		return "City"
	case StationType:
		return "Station type"
	case ChargeType:
		return "Charge type"
	}
	return d.String()
}

// Value returns the station's value for d.
func (d Dimension) Value(s Station) string {
	switch d {
	case City:
		return s.City
	case StationType:
		return s.StationType
	case ChargeType:
		return s.ChargeType
	}
	return ""
}

// ParseDimension maps a persisted dimension key back to a Dimension.
func ParseDimension(key string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "city":
		return City, nil
	case "station_type":
		return StationType, nil
	case "charge_type":
		return ChargeType, nil
	}
	return 0, fmt.Errorf("unknown dimension %q", key)
}
