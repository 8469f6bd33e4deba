package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jask/chargemap/internal/database"
	"github.com/jask/chargemap/internal/database/repository"
	"github.com/jask/chargemap/internal/station"
)

var (
	ErrPresetNotFound    = errors.New("preset not found")
	ErrInvalidPresetName = errors.New("invalid preset name")
)

const maxPresetName = 64

// PresetService saves and restores filter selections.
type PresetService struct {
	Presets *repository.PresetRepo
}

// StaleValue is a preset value that no longer occurs in the loaded data.
type StaleValue struct {
	Dimension station.Dimension
	Value     string
}

func (v StaleValue) String() string {
	return fmt.Sprintf("%s=%s", v.Dimension, v.Value)
}

// ValidatePresetName trims name and checks it is usable.
func ValidatePresetName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: name is empty", ErrInvalidPresetName)
	case utf8.RuneCountInString(name) > maxPresetName:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidPresetName, maxPresetName)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return "", fmt.Errorf("%w: contains control characters", ErrInvalidPresetName)
	}
	return name, nil
}

// Save stores f under name, replacing any preset with the same name.
func (s *PresetService) Save(ctx context.Context, name string, f station.Filters) (repository.Preset, error) {
	name, err := ValidatePresetName(name)
	if err != nil {
		return repository.Preset{}, err
	}
	now := database.Now()
	p := repository.Preset{
		ID:        repository.PresetID(name),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	existing, err := s.Presets.ByName(ctx, name)
	if err != nil {
		return repository.Preset{}, err
	}
	if existing != nil {
		p.CreatedAt = existing.CreatedAt
	}
	for _, d := range station.Dimensions {
		for _, v := range f.Values(d) {
			p.Values = append(p.Values, repository.PresetValue{Dimension: d.String(), Value: v})
		}
	}
	if err := s.Presets.Upsert(ctx, p); err != nil {
		return repository.Preset{}, err
	}
	slog.Info("preset saved", "name", name, "values", len(p.Values))
	return p, nil
}

// List returns every saved preset ordered by name.
func (s *PresetService) List(ctx context.Context) ([]repository.Preset, error) {
	return s.Presets.List(ctx)
}

// Load returns the filters stored under name.
func (s *PresetService) Load(ctx context.Context, name string) (station.Filters, error) {
	p, err := s.Presets.ByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return station.Filters{}, err
	}
	if p == nil {
		return station.Filters{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return FiltersOf(*p), nil
}

// Delete removes the preset called name.
func (s *PresetService) Delete(ctx context.Context, name string) error {
	removed, err := s.Presets.Delete(ctx, repository.PresetID(name))
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	slog.Info("preset deleted", "name", strings.TrimSpace(name))
	return nil
}

// FiltersOf converts stored preset values back into filters. Values with an
// unknown dimension are dropped.
func FiltersOf(p repository.Preset) station.Filters {
	var f station.Filters
	for _, v := range p.Values {
		d, err := station.ParseDimension(v.Dimension)
		if err != nil {
			slog.Warn("preset value ignored", "preset", p.Name, "err", err)
			continue
		}
		f.Set(d, append(f.Values(d), v.Value))
	}
	return f
}

// Reconcile splits f into values that still occur in stations and values that
// do not. Only the kept values should be applied.
func Reconcile(f station.Filters, stations []station.Station) (kept station.Filters, stale []StaleValue) {
	for _, d := range station.Dimensions {
		values := f.Values(d)
		if len(values) == 0 {
			continue
		}
		known := make(map[string]struct{})
		for _, o := range station.Options(stations, d) {
			known[o] = struct{}{}
		}
		var keep []string
		for _, v := range values {
			if _, ok := known[v]; ok {
				keep = append(keep, v)
				continue
			}
			stale = append(stale, StaleValue{Dimension: d, Value: v})
		}
		kept.Set(d, keep)
	}
	return kept, stale
}
