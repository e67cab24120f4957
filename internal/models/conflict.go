package models

// ConflictKind enumerates the rules evaluated by the conflict detector.
type ConflictKind string

const (
	ConflictTeacherDoubleBooked    ConflictKind = "TEACHER_DOUBLE_BOOKED"
	ConflictRoomDoubleBooked       ConflictKind = "ROOM_DOUBLE_BOOKED"
	ConflictRoomCapacityExceeded   ConflictKind = "ROOM_CAPACITY_EXCEEDED"
	ConflictRoomCourseIncompatible ConflictKind = "ROOM_COURSE_INCOMPATIBLE"
)

// Severity decides whether a conflict blocks a placement.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Conflict is a rule violation found when placing a slot. It is never persisted.
type Conflict struct {
	Kind         ConflictKind `json:"kind"`
	Severity     Severity     `json:"severity"`
	Detail       string       `json:"detail"`
	SlotIDs      []string     `json:"slot_ids,omitempty"`
	RoomID       string       `json:"room_id,omitempty"`
	OverlapStart *Clock       `json:"overlap_start,omitempty"`
	OverlapEnd   *Clock       `json:"overlap_end,omitempty"`
}

// Blocking reports whether the conflict must be resolved before a write.
func (c Conflict) Blocking() bool {
	return c.Severity == SeverityError
}

// HasBlocking reports whether any conflict has Error severity.
func HasBlocking(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Blocking() {
			return true
		}
	}
	return false
}

// Warnings filters the advisory conflicts.
func Warnings(conflicts []Conflict) []Conflict {
	var out []Conflict
	for _, c := range conflicts {
		if c.Severity == SeverityWarning {
			out = append(out, c)
		}
	}
	return out
}

// GridPosition is a (day, start) cell of the weekly grid.
type GridPosition struct {
	DayOfWeek Weekday `json:"day_of_week"`
	StartTime Clock   `json:"start_time"`
}

// Suggestion is an alternative placement free of blocking conflicts.
type Suggestion struct {
	DayOfWeek Weekday    `json:"day_of_week"`
	StartTime Clock      `json:"start_time"`
	EndTime   Clock      `json:"end_time"`
	Score     int        `json:"score"`
	Warnings  []Conflict `json:"warnings,omitempty"`
}

// ScheduleConflictError is returned when a write is refused because of conflicts.
type ScheduleConflictError struct {
	Message   string     `json:"message"`
	Conflicts []Conflict `json:"conflicts"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
