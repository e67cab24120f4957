package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

// RoomRepository provides persistence for rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomRow struct {
	ID               string         `db:"id"`
	UnitID           string         `db:"unit_id"`
	Name             string         `db:"name"`
	Capacity         sql.NullInt64  `db:"capacity"`
	AllowedCourseIDs pq.StringArray `db:"allowed_course_ids"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (row roomRow) toModel() models.Room {
	room := models.Room{
		ID:        row.ID,
		UnitID:    row.UnitID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
	if row.Capacity.Valid {
		capacity := int(row.Capacity.Int64)
		room.Capacity = &capacity
	}
	if len(row.AllowedCourseIDs) > 0 {
		room.AllowedCourseIDs = append([]string(nil), row.AllowedCourseIDs...)
	}
	return room
}

func roomToRow(room *models.Room) roomRow {
	row := roomRow{
		ID:        room.ID,
		UnitID:    room.UnitID,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
	}
	if room.Capacity != nil {
		row.Capacity = sql.NullInt64{Int64: int64(*room.Capacity), Valid: true}
	}
	if len(room.AllowedCourseIDs) > 0 {
		row.AllowedCourseIDs = pq.StringArray(room.AllowedCourseIDs)
	}
	return row
}

const roomColumns = `id, unit_id, name, capacity, allowed_course_ids, created_at`

// ListByUnit returns the rooms of a unit ordered by name.
func (r *RoomRepository) ListByUnit(ctx context.Context, unitID string) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE unit_id = $1 ORDER BY name ASC`
	var rows []roomRow
	if err := r.db.SelectContext(ctx, &rows, query, unitID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	rooms := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.toModel())
	}
	return rooms, nil
}

// Create stores a new room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO rooms (id, unit_id, name, capacity, allowed_course_ids, created_at)
VALUES (:id, :unit_id, :name, :capacity, :allowed_course_ids, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, roomToRow(room)); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Upsert inserts a room or refreshes its attributes.
func (r *RoomRepository) Upsert(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO rooms (id, unit_id, name, capacity, allowed_course_ids, created_at)
VALUES (:id, :unit_id, :name, :capacity, :allowed_course_ids, :created_at)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    capacity = EXCLUDED.capacity,
    allowed_course_ids = EXCLUDED.allowed_course_ids`
	if _, err := r.db.NamedExecContext(ctx, query, roomToRow(room)); err != nil {
		return fmt.Errorf("upsert room: %w", err)
	}
	return nil
}
