package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/chargemap/internal/database"
)

// PresetRepo handles presets and their values.
type PresetRepo struct {
	db *sql.DB
}

func NewPresetRepo(db *sql.DB) *PresetRepo { return &PresetRepo{db: db} }

// PresetID derives a stable id from a preset name. Names that differ only in
// case, including non-ASCII letters, share an id.
func PresetID(name string) string {
	key := "preset:" + strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// Upsert stores p and replaces its values. Values keep their slice order.
func (r *PresetRepo) Upsert(ctx context.Context, p Preset) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO presets(id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 name=excluded.name,
		 updated_at=excluded.updated_at;
		`, p.ID, p.Name, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert preset %q: %w", p.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM preset_values WHERE preset_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clear preset values: %w", err)
		}
		for i, v := range p.Values {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO preset_values(preset_id, dimension, value, position)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(preset_id, dimension, value) DO NOTHING;
			`, p.ID, v.Dimension, v.Value, i)
			if err != nil {
				return fmt.Errorf("insert preset value: %w", err)
			}
		}
		return nil
	})
}

// ByName returns the preset called name, ignoring case, or nil when there is
// none. Presets are looked up by PresetID, so stored ids must come from it.
func (r *PresetRepo) ByName(ctx context.Context, name string) (*Preset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM presets WHERE id = ?`, PresetID(name))
	var p Preset
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	values, err := r.values(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Values = values
	return &p, nil
}

// List returns every preset ordered by name, values included.
func (r *PresetRepo) List(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM presets ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	var out []Preset
	for rows.Next() {
		var p Preset
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// values are fetched after the cursor is closed; the pool holds one connection
	for i := range out {
		values, err := r.values(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Values = values
	}
	return out, nil
}

// Delete removes the preset with id. It reports whether a row was removed.
func (r *PresetRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PresetRepo) values(ctx context.Context, id string) ([]PresetValue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT dimension, value FROM preset_values WHERE preset_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PresetValue
	for rows.Next() {
		var v PresetValue
		if err := rows.Scan(&v.Dimension, &v.Value); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
