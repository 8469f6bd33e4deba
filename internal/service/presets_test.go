package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/chargemap/internal/database"
	"github.com/jask/chargemap/internal/database/repository"
	"github.com/jask/chargemap/internal/station"
)

func newPresetService(t *testing.T) *PresetService {
	t.Helper()
	db, err := database.OpenAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PresetService{Presets: repository.NewPresetRepo(db)}
}

func TestPresetSaveAndLoad(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	svc := newPresetService(t)

	f := station.Filters{
		Cities:      []string{"Medellín", "Envigado"},
		ChargeTypes: []string{"DC"},
	}
	p, err := svc.Save(ctx, "  Valle DC ", f)
	require.NoError(t, err)
	require.Equal(t, "Valle DC", p.Name)
	require.Equal(t, repository.PresetID("valle dc"), p.ID)

	got, err := svc.Load(ctx, "valle dc")
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestPresetSaveOverwritesSameName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newPresetService(t)

	_, err := svc.Save(ctx, "dc", station.Filters{ChargeTypes: []string{"DC"}})
	require.NoError(t, err)
	_, err = svc.Save(ctx, "DC", station.Filters{StationTypes: []string{"Gas"}})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "DC", list[0].Name)

	got, err := svc.Load(ctx, "dc")
	require.NoError(t, err)
	require.Equal(t, station.Filters{StationTypes: []string{"Gas"}}, got)
}

func TestPresetInvalidNames(t *testing.T) {
	t.Parallel()

	svc := newPresetService(t)
	for _, name := range []string{"", "   ", "tab\tname", strings.Repeat("x", 65)} {
		_, err := svc.Save(context.Background(), name, station.Filters{})
		require.ErrorIs(t, err, ErrInvalidPresetName, "name %q", name)
	}
}

func TestPresetNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newPresetService(t)

	_, err := svc.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrPresetNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), ErrPresetNotFound)

	_, err = svc.Save(ctx, "gone", station.Filters{})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "GONE"))
	_, err = svc.Load(ctx, "gone")
	require.ErrorIs(t, err, ErrPresetNotFound)
}

func TestFiltersOfSkipsUnknownDimensions(t *testing.T) {
	f := FiltersOf(repository.Preset{Name: "x", Values: []repository.PresetValue{
		{Dimension: "city", Value: "Bello"},
		{Dimension: "address", Value: "Calle 1"},
		{Dimension: "charge_type", Value: "AC"},
	}})
	require.Equal(t, station.Filters{Cities: []string{"Bello"}, ChargeTypes: []string{"AC"}}, f)
}

func TestReconcileReportsStaleValues(t *testing.T) {
	stations := []station.Station{
		{Name: "A", City: "Medellín", StationType: "Electrica", ChargeType: "AC"},
		{Name: "B", City: "Envigado", StationType: "Gas", ChargeType: "GNV"},
	}
	kept, stale := Reconcile(station.Filters{
		Cities:       []string{"Medellín", "Sabaneta"},
		StationTypes: []string{"Hidrogeno"},
		ChargeTypes:  []string{"GNV"},
	}, stations)

	require.Equal(t, []string{"Medellín"}, kept.Cities)
	require.Empty(t, kept.StationTypes)
	require.Equal(t, []string{"GNV"}, kept.ChargeTypes)
	require.Equal(t, []StaleValue{
		{Dimension: station.City, Value: "Sabaneta"},
		{Dimension: station.StationType, Value: "Hidrogeno"},
	}, stale)
	require.Equal(t, "city=Sabaneta", stale[0].String())
}

func TestPresetNonASCIINamesAreCaseInsensitive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newPresetService(t)

	first, err := svc.Save(ctx, "Ñame", station.Filters{Cities: []string{"Itagüí"}})
	require.NoError(t, err)

	got, err := svc.Load(ctx, "ñame")
	require.NoError(t, err)
	require.Equal(t, []string{"Itagüí"}, got.Cities)

	second, err := svc.Save(ctx, "ñAME", station.Filters{Cities: []string{"Envigado"}})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.True(t, second.CreatedAt.Equal(first.CreatedAt))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, "ÑAME"))
	_, err = svc.Load(ctx, "Ñame")
	require.ErrorIs(t, err, ErrPresetNotFound)
}
