package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartadvisor/backend/pkg/preset"
)

// PresetRepository stores named context presets.
type PresetRepository struct {
	pool *pgxpool.Pool
}

func NewPresetRepository(pool *pgxpool.Pool) (*PresetRepository, error) {
	r := &PresetRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PresetRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS context_presets (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	context_data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *PresetRepository) List(ctx context.Context) ([]preset.Preset, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, description, context_data, created_at, updated_at
FROM context_presets ORDER BY created_at
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []preset.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *PresetRepository) Create(ctx context.Context, p preset.Preset) (preset.Preset, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	dataJSON, err := json.Marshal(p.ContextData)
	if err != nil {
		return preset.Preset{}, err
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO context_presets (id, name, description, context_data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, p.ID, strings.TrimSpace(p.Name), p.Description, dataJSON, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return preset.Preset{}, err
	}
	return p, nil
}

func (r *PresetRepository) GetByName(ctx context.Context, name string) (preset.Preset, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, description, context_data, created_at, updated_at
FROM context_presets WHERE name = $1
`, name)
	p, err := scanPreset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return preset.Preset{}, preset.ErrNotFound
		}
		return preset.Preset{}, err
	}
	return p, nil
}

func (r *PresetRepository) DeleteByName(ctx context.Context, name string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM context_presets WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return preset.ErrNotFound
	}
	return nil
}

func (r *PresetRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM context_presets`).Scan(&n)
	return n, err
}

func scanPreset(row pgx.Row) (preset.Preset, error) {
	var p preset.Preset
	var dataJSON []byte
	var created, updated time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &dataJSON, &created, &updated); err != nil {
		return preset.Preset{}, err
	}
	p.CreatedAt = created.UTC()
	p.UpdatedAt = updated.UTC()
	if err := json.Unmarshal(dataJSON, &p.ContextData); err != nil {
		return preset.Preset{}, err
	}
	return p, nil
}
