// Package scheduling holds the pure weekly-grid engine: conflict detection and
// alternative placement suggestions. Nothing in this package performs I/O.
package scheduling

import (
	"fmt"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

// Overlaps reports whether the half-open intervals [aStart,aEnd) and [bStart,bEnd) intersect.
// Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd models.Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

func overlapWindow(a, b models.ScheduleSlot) (models.Clock, models.Clock) {
	start := a.StartTime
	if b.StartTime > start {
		start = b.StartTime
	}
	end := a.EndTime()
	if b.EndTime() < end {
		end = b.EndTime()
	}
	return start, end
}

func sameTimeBlock(candidate, other models.ScheduleSlot) bool {
	return other.ID != candidate.ID &&
		other.UnitID == candidate.UnitID &&
		other.DayOfWeek == candidate.DayOfWeek &&
		Overlaps(candidate.StartTime, candidate.EndTime(), other.StartTime, other.EndTime())
}

// DetectConflicts evaluates every placement rule for candidate against the other active
// slots of its unit. Rules run in a fixed order and existing slots are visited in input
// order, so identical inputs always produce identical output.
func DetectConflicts(candidate models.ScheduleSlot, existing []models.ScheduleSlot, rooms []models.Room) []models.Conflict {
	conflicts := make([]models.Conflict, 0)

	for _, other := range existing {
		if other.TeacherID != candidate.TeacherID || !sameTimeBlock(candidate, other) {
			continue
		}
		conflicts = append(conflicts, doubleBooking(models.ConflictTeacherDoubleBooked, candidate, other,
			fmt.Sprintf("teacher %s already teaches on %s", candidate.TeacherID, candidate.DayOfWeek)))
	}

	if !candidate.HasRoom() {
		return conflicts
	}
	roomID := *candidate.RoomID

	for _, other := range existing {
		if !other.HasRoom() || *other.RoomID != roomID || !sameTimeBlock(candidate, other) {
			continue
		}
		conflicts = append(conflicts, doubleBooking(models.ConflictRoomDoubleBooked, candidate, other,
			fmt.Sprintf("room %s already booked on %s", roomID, candidate.DayOfWeek)))
	}

	room, ok := findRoom(rooms, roomID)
	if !ok {
		return conflicts
	}

	if room.Capacity != nil && candidate.Occupancy() > *room.Capacity {
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictRoomCapacityExceeded,
			Severity: models.SeverityWarning,
			Detail:   fmt.Sprintf("room %s holds %d students, slot has %d", roomID, *room.Capacity, candidate.Occupancy()),
			RoomID:   roomID,
		})
	}

	if !room.AllowsCourse(candidate.CourseID) {
		course := "(none)"
		if candidate.CourseID != nil {
			course = *candidate.CourseID
		}
		conflicts = append(conflicts, models.Conflict{
			Kind:     models.ConflictRoomCourseIncompatible,
			Severity: models.SeverityWarning,
			Detail:   fmt.Sprintf("course %s is not allowed in room %s", course, roomID),
			RoomID:   roomID,
		})
	}

	return conflicts
}

func doubleBooking(kind models.ConflictKind, candidate, other models.ScheduleSlot, detail string) models.Conflict {
	start, end := overlapWindow(candidate, other)
	conflict := models.Conflict{
		Kind:         kind,
		Severity:     models.SeverityError,
		Detail:       fmt.Sprintf("%s %s-%s (slot %s)", detail, start, end, other.ID),
		SlotIDs:      []string{other.ID},
		OverlapStart: &start,
		OverlapEnd:   &end,
	}
	if kind == models.ConflictRoomDoubleBooked {
		conflict.RoomID = *other.RoomID
	}
	return conflict
}

func findRoom(rooms []models.Room, id string) (models.Room, bool) {
	for _, room := range rooms {
		if room.ID == id {
			return room, true
		}
	}
	return models.Room{}, false
}
