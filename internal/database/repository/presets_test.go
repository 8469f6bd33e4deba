package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/chargemap/internal/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.OpenAndMigrate(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPresetUpsertGetList(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := NewPresetRepo(openTestDB(t))
	now := database.Now()

	require.NoError(t, repo.Upsert(ctx, Preset{
		ID:        PresetID("valle"),
		Name:      "valle",
		CreatedAt: now,
		UpdatedAt: now,
		Values: []PresetValue{
			{Dimension: "city", Value: "Medellín"},
			{Dimension: "city", Value: "Envigado"},
			{Dimension: "charge_type", Value: "DC"},
		},
	}))
	require.NoError(t, repo.Upsert(ctx, Preset{ID: PresetID("Antioquia gas"), Name: "Antioquia gas", CreatedAt: now, UpdatedAt: now,
		Values: []PresetValue{{Dimension: "station_type", Value: "Gas"}}}))

	got, err := repo.ByName(ctx, "VALLE")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "valle", got.Name)
	require.Equal(t, []PresetValue{
		{Dimension: "city", Value: "Medellín"},
		{Dimension: "city", Value: "Envigado"},
		{Dimension: "charge_type", Value: "DC"},
	}, got.Values)
	require.True(t, got.CreatedAt.Equal(now))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Antioquia gas", list[0].Name)
	require.Equal(t, "valle", list[1].Name)
	require.Len(t, list[1].Values, 3)
}

func TestPresetUpsertReplacesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPresetRepo(openTestDB(t))
	now := database.Now()

	p := Preset{ID: PresetID("dc"), Name: "dc", CreatedAt: now, UpdatedAt: now,
		Values: []PresetValue{{Dimension: "charge_type", Value: "DC"}, {Dimension: "city", Value: "Bello"}}}
	require.NoError(t, repo.Upsert(ctx, p))

	p.Values = []PresetValue{{Dimension: "charge_type", Value: "AC"}}
	p.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.ByName(ctx, "dc")
	require.NoError(t, err)
	require.Equal(t, []PresetValue{{Dimension: "charge_type", Value: "AC"}}, got.Values)
	require.True(t, got.UpdatedAt.Equal(now.Add(time.Minute)))
}

func TestPresetByNameMissing(t *testing.T) {
	t.Parallel()

	repo := NewPresetRepo(openTestDB(t))
	got, err := repo.ByName(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPresetDeleteCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	repo := NewPresetRepo(db)
	now := database.Now()
	require.NoError(t, repo.Upsert(ctx, Preset{ID: PresetID("dc"), Name: "dc", CreatedAt: now, UpdatedAt: now,
		Values: []PresetValue{{Dimension: "charge_type", Value: "DC"}}}))

	removed, err := repo.Delete(ctx, PresetID("dc"))
	require.NoError(t, err)
	require.True(t, removed)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM preset_values").Scan(&count))
	require.Zero(t, count)

	removed, err = repo.Delete(ctx, PresetID("dc"))
	require.NoError(t, err)
	require.False(t, removed)
}

func TestPresetRejectsUnknownDimension(t *testing.T) {
	t.Parallel()

	repo := NewPresetRepo(openTestDB(t))
	now := database.Now()
	err := repo.Upsert(context.Background(), Preset{ID: PresetID("bad"), Name: "bad", CreatedAt: now, UpdatedAt: now,
		Values: []PresetValue{{Dimension: "address", Value: "Calle 1"}}})
	require.Error(t, err)

	got, err := repo.ByName(context.Background(), "bad")
	require.NoError(t, err)
	require.Nil(t, got, "failed upsert must roll back")
}

func TestPresetByNameFoldsNonASCIICase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPresetRepo(openTestDB(t))
	now := database.Now()
	require.Equal(t, PresetID("Ñame"), PresetID(" ñAME "))
	require.NoError(t, repo.Upsert(ctx, Preset{ID: PresetID("Ñame"), Name: "Ñame", CreatedAt: now, UpdatedAt: now,
		Values: []PresetValue{{Dimension: "city", Value: "Itagüí"}}}))

	for _, name := range []string{"Ñame", "ñame", "ÑAME"} {
		got, err := repo.ByName(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, got, name)
		require.Equal(t, "Ñame", got.Name)
	}
}
