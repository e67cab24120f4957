package models

import "time"

// DefaultSlotDuration is applied when a slot is created without an explicit duration.
const DefaultSlotDuration = 60

// Unit is a physical branch of the school; every schedule decision is scoped to one unit.
type Unit struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Timezone  string    `db:"timezone" json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduleSlot is one weekly recurring occurrence of a class.
type ScheduleSlot struct {
	ID              string    `json:"id"`
	UnitID          string    `json:"unit_id"`
	TeacherID       string    `json:"teacher_id"`
	RoomID          *string   `json:"room_id"`
	CourseID        *string   `json:"course_id,omitempty"`
	DayOfWeek       Weekday   `json:"day_of_week"`
	StartTime       Clock     `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	StudentIDs      []string  `json:"student_ids"`
	Capacity        int       `json:"capacity"` // bound room's capacity, 0 without a room
	Active          bool      `json:"active"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EndTime is always derived from the start and the duration.
func (s ScheduleSlot) EndTime() Clock {
	return s.StartTime.Add(s.DurationMinutes)
}

// HasRoom reports whether a room has been bound to the slot.
func (s ScheduleSlot) HasRoom() bool {
	return s.RoomID != nil && *s.RoomID != ""
}

// Occupancy returns the number of enrolled students.
func (s ScheduleSlot) Occupancy() int {
	return len(s.StudentIDs)
}

// MovedTo returns a copy of the slot placed at a new day and start time.
func (s ScheduleSlot) MovedTo(day Weekday, start Clock) ScheduleSlot {
	moved := s
	moved.DayOfWeek = day
	moved.StartTime = start
	moved.StudentIDs = append([]string(nil), s.StudentIDs...)
	return moved
}

// Room is a bookable classroom of a unit.
type Room struct {
	ID               string    `json:"id"`
	UnitID           string    `json:"unit_id"`
	Name             string    `json:"name"`
	Capacity         *int      `json:"capacity"`
	AllowedCourseIDs []string  `json:"allowed_course_ids,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RestrictsCourses reports whether the room limits which courses may use it.
func (r Room) RestrictsCourses() bool {
	return len(r.AllowedCourseIDs) > 0
}

// AllowsCourse reports whether the course may be taught in the room.
func (r Room) AllowsCourse(courseID *string) bool {
	if !r.RestrictsCourses() {
		return true
	}
	if courseID == nil {
		return false
	}
	for _, allowed := range r.AllowedCourseIDs {
		if allowed == *courseID {
			return true
		}
	}
	return false
}

// Grid is the in-memory weekly view of a unit.
type Grid struct {
	UnitID   string         `json:"unit_id"`
	Slots    []ScheduleSlot `json:"slots"`
	Rooms    []Room         `json:"rooms"`
	LoadedAt time.Time      `json:"loaded_at"`
}

// Slot returns the slot with the given id.
func (g *Grid) Slot(id string) (ScheduleSlot, bool) {
	for _, slot := range g.Slots {
		if slot.ID == id {
			return slot, true
		}
	}
	return ScheduleSlot{}, false
}

// RoomCapacity returns the recorded capacity of the room, 0 when there is no room or no
// recorded capacity.
func (g *Grid) RoomCapacity(roomID *string) int {
	if roomID == nil || *roomID == "" {
		return 0
	}
	room, ok := g.Room(*roomID)
	if !ok || room.Capacity == nil {
		return 0
	}
	return *room.Capacity
}

// ResolveCapacities copies each slot's capacity from its bound room.
func (g *Grid) ResolveCapacities() {
	for i := range g.Slots {
		g.Slots[i].Capacity = g.RoomCapacity(g.Slots[i].RoomID)
	}
}

// Room returns the room with the given id.
func (g *Grid) Room(id string) (Room, bool) {
	for _, room := range g.Rooms {
		if room.ID == id {
			return room, true
		}
	}
	return Room{}, false
}
