package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nested", "chargemap.db")
	db, err := OpenAndMigrate(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(dbPath))

	var tables int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('presets', 'preset_values')`).Scan(&tables))
	require.Equal(t, 2, tables)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO presets(id, name) VALUES ('a', 'a')`); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO presets(id, name) VALUES ('b', 'A')`)
		return err
	})
	require.Error(t, err, "names are unique regardless of case")

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM presets`).Scan(&count))
	require.Zero(t, count)
}
