package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PositionRow is one persisted entity position. Position is the only durable
// field the movement core produces.
type PositionRow struct {
	EntityID int64
	Species  string
	X        int32
	Y        int32
}

type PositionRepo struct {
	db *DB
}

func NewPositionRepo(db *DB) *PositionRepo {
	return &PositionRepo{db: db}
}

// LoadAll returns every saved position.
func (r *PositionRepo) LoadAll(ctx context.Context) ([]PositionRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT entity_id, species, x, y FROM entity_positions`)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	var out []PositionRow
	for rows.Next() {
		var p PositionRow
		if err := rows.Scan(&p.EntityID, &p.Species, &p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveBatch upserts positions in a single round trip.
func (r *PositionRepo) SaveBatch(ctx context.Context, positions []PositionRow) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(
			`INSERT INTO entity_positions (entity_id, species, x, y, updated_at)
			 VALUES ($1, $2, $3, $4, now())
			 ON CONFLICT (entity_id)
			 DO UPDATE SET species = $2, x = $3, y = $4, updated_at = now()`,
			p.EntityID, p.Species, p.X, p.Y)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range positions {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert position: %w", err)
		}
	}
	return nil
}

// Delete removes one entity's saved position.
func (r *PositionRepo) Delete(ctx context.Context, entityID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM entity_positions WHERE entity_id = $1`, entityID)
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	return nil
}
