package dto

import (
	"time"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

// MoveRequest describes a drag gesture: the slot dropped at a new day and start.
type MoveRequest struct {
	DayOfWeek string  `json:"day_of_week" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	RoomID    *string `json:"room_id"`
	Limit     int     `json:"limit" validate:"omitempty,min=1,max=50"`
}

// ConfirmMoveRequest persists a move. Warnings must be acknowledged explicitly.
type ConfirmMoveRequest struct {
	DayOfWeek           string  `json:"day_of_week" validate:"required"`
	StartTime           string  `json:"start_time" validate:"required"`
	RoomID              *string `json:"room_id"`
	AcknowledgeWarnings bool    `json:"acknowledge_warnings"`
	ExpectedVersion     *int    `json:"expected_version" validate:"omitempty,min=1"`
}

// SlotRequest describes a new slot, checked or created.
type SlotRequest struct {
	TeacherID           string   `json:"teacher_id" validate:"required"`
	RoomID              *string  `json:"room_id"`
	CourseID            *string  `json:"course_id"`
	DayOfWeek           string   `json:"day_of_week" validate:"required"`
	StartTime           string   `json:"start_time" validate:"required"`
	DurationMinutes     int      `json:"duration_minutes" validate:"omitempty,min=5,max=720"`
	StudentIDs          []string `json:"student_ids" validate:"omitempty,dive,required"`
	AcknowledgeWarnings bool     `json:"acknowledge_warnings"`
	Limit               int      `json:"limit" validate:"omitempty,min=1,max=50"`
}

// StudentsRequest replaces the enrolment of a slot.
type StudentsRequest struct {
	StudentIDs          []string `json:"student_ids" validate:"omitempty,dive,required"`
	AcknowledgeWarnings bool     `json:"acknowledge_warnings"`
}

// RoomRequest creates a room in a unit.
type RoomRequest struct {
	ID               string   `json:"id"`
	Name             string   `json:"name" validate:"required,max=120"`
	Capacity         *int     `json:"capacity" validate:"omitempty,min=0"`
	AllowedCourseIDs []string `json:"allowed_course_ids" validate:"omitempty,dive,required"`
}

// GridBounds echoes the grid configuration so clients can draw empty cells.
type GridBounds struct {
	Days        []models.Weekday `json:"days"`
	OpeningTime models.Clock     `json:"opening_time"`
	ClosingTime models.Clock     `json:"closing_time"`
	StepMinutes int              `json:"step_minutes"`
}

// GridView is the weekly grid of a unit.
type GridView struct {
	Unit     models.Unit           `json:"unit"`
	Bounds   GridBounds            `json:"bounds"`
	Slots    []models.ScheduleSlot `json:"slots"`
	Rooms    []models.Room         `json:"rooms"`
	LoadedAt time.Time             `json:"loaded_at"`

	FromCache bool `json:"-"`
}

// Proposal is the outcome of evaluating a candidate placement without persisting it.
type Proposal struct {
	Candidate               models.ScheduleSlot `json:"candidate"`
	Conflicts               []models.Conflict   `json:"conflicts"`
	Suggestions             []models.Suggestion `json:"suggestions"`
	Blocking                bool                `json:"blocking"`
	RequiresAcknowledgement bool                `json:"requires_acknowledgement"`
}

// WriteResult is returned after a successful write. Grid is nil when the write committed but
// the reload failed; clients should fetch the grid again.
type WriteResult struct {
	Slot     models.ScheduleSlot `json:"slot"`
	Warnings []models.Conflict   `json:"warnings,omitempty"`
	Grid     *GridView           `json:"grid,omitempty"`
}
