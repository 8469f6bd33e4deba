package repository

import "time"

// Preset represents a saved filter selection.
type Preset struct {
	ID        string
	Name      string
	Values    []PresetValue
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PresetValue is one selected value of one filter dimension.
type PresetValue struct {
	Dimension string
	Value     string
}
