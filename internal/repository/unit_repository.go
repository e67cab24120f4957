package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

// UnitRepository provides persistence for school units.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository creates a new unit repository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// FindByID loads a unit by id.
func (r *UnitRepository) FindByID(ctx context.Context, id string) (*models.Unit, error) {
	const query = `SELECT id, name, timezone, created_at FROM units WHERE id = $1`
	var unit models.Unit
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Upsert inserts a unit or refreshes its name and timezone.
func (r *UnitRepository) Upsert(ctx context.Context, unit *models.Unit) error {
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO units (id, name, timezone, created_at)
VALUES (:id, :name, :timezone, :created_at)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    timezone = EXCLUDED.timezone`
	if _, err := r.db.NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("upsert unit: %w", err)
	}
	return nil
}
