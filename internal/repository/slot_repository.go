package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

// ErrVersionMismatch is returned when a conditional write finds the slot at another version.
var ErrVersionMismatch = errors.New("slot version mismatch")

// SlotRepository provides persistence for schedule slots and their enrolment.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

type slotRow struct {
	ID              string         `db:"id"`
	UnitID          string         `db:"unit_id"`
	TeacherID       string         `db:"teacher_id"`
	RoomID          sql.NullString `db:"room_id"`
	CourseID        sql.NullString `db:"course_id"`
	DayOfWeek       int            `db:"day_of_week"`
	StartMinute     int            `db:"start_minute"`
	DurationMinutes int            `db:"duration_minutes"`
	Active          bool           `db:"active"`
	Version         int            `db:"version"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// toModel validates a stored row once so the engine only ever sees well-formed slots.
func (row slotRow) toModel() (models.ScheduleSlot, error) {
	day := models.Weekday(row.DayOfWeek)
	if !day.Valid() {
		return models.ScheduleSlot{}, fmt.Errorf("slot %s: day_of_week %d outside MONDAY-SATURDAY", row.ID, row.DayOfWeek)
	}
	if row.DurationMinutes <= 0 {
		return models.ScheduleSlot{}, fmt.Errorf("slot %s: non-positive duration %d", row.ID, row.DurationMinutes)
	}
	if row.StartMinute < 0 || row.StartMinute+row.DurationMinutes > models.MinutesPerDay {
		return models.ScheduleSlot{}, fmt.Errorf("slot %s: start %d does not fit the day", row.ID, row.StartMinute)
	}
	slot := models.ScheduleSlot{
		ID:              row.ID,
		UnitID:          row.UnitID,
		TeacherID:       row.TeacherID,
		DayOfWeek:       day,
		StartTime:       models.Clock(row.StartMinute),
		DurationMinutes: row.DurationMinutes,
		StudentIDs:      []string{},
		Active:          row.Active,
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.RoomID.Valid && row.RoomID.String != "" {
		roomID := row.RoomID.String
		slot.RoomID = &roomID
	}
	if row.CourseID.Valid && row.CourseID.String != "" {
		courseID := row.CourseID.String
		slot.CourseID = &courseID
	}
	return slot, nil
}

const slotColumns = `id, unit_id, teacher_id, room_id, course_id, day_of_week, start_minute, duration_minutes, active, version, created_at, updated_at`

// ListActiveByUnit returns the active slots of a unit with their students, ordered by day and start.
func (r *SlotRepository) ListActiveByUnit(ctx context.Context, unitID string) ([]models.ScheduleSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots WHERE unit_id = $1 AND active = TRUE ORDER BY day_of_week ASC, start_minute ASC, id ASC`
	var rows []slotRow
	if err := r.db.SelectContext(ctx, &rows, query, unitID); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	slots := make([]models.ScheduleSlot, 0, len(rows))
	for _, row := range rows {
		slot, err := row.toModel()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := r.attachStudents(ctx, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// FindByID loads a slot with its students, active or not.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots WHERE id = $1`
	var row slotRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	slot, err := row.toModel()
	if err != nil {
		return nil, err
	}
	slots := []models.ScheduleSlot{slot}
	if err := r.attachStudents(ctx, slots); err != nil {
		return nil, err
	}
	return &slots[0], nil
}

func (r *SlotRepository) attachStudents(ctx context.Context, slots []models.ScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}
	ids := make([]string, len(slots))
	index := make(map[string]int, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
		index[slot.ID] = i
	}

	const query = `SELECT slot_id, student_id FROM slot_students WHERE slot_id = ANY($1) ORDER BY slot_id ASC, student_id ASC`
	var enrolments []struct {
		SlotID    string `db:"slot_id"`
		StudentID string `db:"student_id"`
	}
	if err := r.db.SelectContext(ctx, &enrolments, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("list slot students: %w", err)
	}
	for _, e := range enrolments {
		if i, ok := index[e.SlotID]; ok {
			slots[i].StudentIDs = append(slots[i].StudentIDs, e.StudentID)
		}
	}
	return nil
}

// Create stores a new slot together with its students.
func (r *SlotRepository) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now
	slot.Active = true
	slot.Version = 1

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create slot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `
INSERT INTO schedule_slots (id, unit_id, teacher_id, room_id, course_id, day_of_week, start_minute, duration_minutes, active, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := tx.ExecContext(ctx, query,
		slot.ID, slot.UnitID, slot.TeacherID, nullable(slot.RoomID), nullable(slot.CourseID),
		int(slot.DayOfWeek), slot.StartTime.Minutes(), slot.DurationMinutes,
		slot.Active, slot.Version, slot.CreatedAt, slot.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	if err := insertStudents(ctx, tx, slot.ID, slot.StudentIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create slot: %w", err)
	}
	return nil
}

// PlacementUpdate moves an active slot. A nil ExpectedVersion writes unconditionally.
type PlacementUpdate struct {
	SlotID          string
	DayOfWeek       models.Weekday
	StartTime       models.Clock
	RoomID          *string
	ExpectedVersion *int
}

// UpdatePlacement writes the new day, start and room in a single statement. End time is
// derived by the database. It returns sql.ErrNoRows when the slot is gone and
// ErrVersionMismatch when the expected version no longer matches.
func (r *SlotRepository) UpdatePlacement(ctx context.Context, update PlacementUpdate) error {
	query := `UPDATE schedule_slots SET day_of_week = $1, start_minute = $2, room_id = $3, version = version + 1, updated_at = $4 WHERE id = $5 AND active = TRUE`
	args := []interface{}{int(update.DayOfWeek), update.StartTime.Minutes(), nullable(update.RoomID), time.Now().UTC(), update.SlotID}
	if update.ExpectedVersion != nil {
		query += ` AND version = $6`
		args = append(args, *update.ExpectedVersion)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		// returned unwrapped: callers surface the driver message as is
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slot placement: %w", err)
	}
	if affected == 0 {
		if update.ExpectedVersion != nil {
			return ErrVersionMismatch
		}
		return sql.ErrNoRows
	}
	return nil
}

// ReplaceStudents swaps the enrolment of a slot and bumps its version.
func (r *SlotRepository) ReplaceStudents(ctx context.Context, slotID string, studentIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace students: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `UPDATE schedule_slots SET version = version + 1, updated_at = $1 WHERE id = $2 AND active = TRUE`, time.Now().UTC(), slotID)
	if err != nil {
		return fmt.Errorf("touch slot: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM slot_students WHERE slot_id = $1`, slotID); err != nil {
		return fmt.Errorf("clear slot students: %w", err)
	}
	if err := insertStudents(ctx, tx, slotID, studentIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace students: %w", err)
	}
	return nil
}

// Deactivate soft deletes a slot.
func (r *SlotRepository) Deactivate(ctx context.Context, slotID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE schedule_slots SET active = FALSE, version = version + 1, updated_at = $1 WHERE id = $2 AND active = TRUE`, time.Now().UTC(), slotID)
	if err != nil {
		return fmt.Errorf("deactivate slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate slot: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func insertStudents(ctx context.Context, tx *sqlx.Tx, slotID string, studentIDs []string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	const query = `INSERT INTO slot_students (slot_id, student_id) SELECT $1, unnest($2::text[]) ON CONFLICT DO NOTHING`
	if _, err := tx.ExecContext(ctx, query, slotID, pq.Array(studentIDs)); err != nil {
		return fmt.Errorf("insert slot students: %w", err)
	}
	return nil
}

func nullable(value *string) sql.NullString {
	if value == nil || *value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
