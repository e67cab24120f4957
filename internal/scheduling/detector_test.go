package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func slotAt(id, teacher string, day models.Weekday, start string, room *string) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:              id,
		UnitID:          "unit-u",
		TeacherID:       teacher,
		RoomID:          room,
		DayOfWeek:       day,
		StartTime:       models.MustClock(start),
		DurationMinutes: 60,
		Active:          true,
	}
}

func kinds(conflicts []models.Conflict) []models.ConflictKind {
	out := make([]models.ConflictKind, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, c.Kind)
	}
	return out
}

func TestOverlapsHalfOpen(t *testing.T) {
	nine, ten, eleven := models.MustClock("09:00"), models.MustClock("10:00"), models.MustClock("11:00")
	half := models.MustClock("09:30")

	assert.True(t, Overlaps(nine, ten, half, eleven))
	assert.True(t, Overlaps(half, eleven, nine, ten))
	assert.False(t, Overlaps(nine, ten, ten, eleven))
	assert.False(t, Overlaps(ten, eleven, nine, ten))
}

func TestDetectConflictsIgnoresSelf(t *testing.T) {
	s := slotAt("slot-1", "teacher-t", models.Monday, "14:00", strPtr("room-1"))

	conflicts := DetectConflicts(s, []models.ScheduleSlot{s}, nil)
	assert.Empty(t, conflicts)
}

func TestDetectConflictsTeacherOverlapIsSymmetric(t *testing.T) {
	a := slotAt("a", "teacher-t", models.Tuesday, "10:00", nil)
	b := slotAt("b", "teacher-t", models.Tuesday, "10:30", nil)

	forA := DetectConflicts(a, []models.ScheduleSlot{b}, nil)
	forB := DetectConflicts(b, []models.ScheduleSlot{a}, nil)

	assert.Equal(t, []models.ConflictKind{models.ConflictTeacherDoubleBooked}, kinds(forA))
	assert.Equal(t, []models.ConflictKind{models.ConflictTeacherDoubleBooked}, kinds(forB))
	assert.Equal(t, []string{"b"}, forA[0].SlotIDs)
	assert.Equal(t, []string{"a"}, forB[0].SlotIDs)
}

func TestDetectConflictsBackToBackIsLegal(t *testing.T) {
	first := slotAt("a", "teacher-t", models.Wednesday, "09:00", strPtr("room-1"))
	second := slotAt("b", "teacher-t", models.Wednesday, "10:00", strPtr("room-1"))

	assert.Empty(t, DetectConflicts(second, []models.ScheduleSlot{first}, nil))
	assert.Empty(t, DetectConflicts(first, []models.ScheduleSlot{second}, nil))
}

func TestDetectConflictsNullRoomNeverDoubleBooks(t *testing.T) {
	a := slotAt("a", "teacher-1", models.Thursday, "15:00", nil)
	b := slotAt("b", "teacher-2", models.Thursday, "15:00", nil)
	same := slotAt("c", "teacher-1", models.Thursday, "15:30", nil)

	assert.Empty(t, DetectConflicts(b, []models.ScheduleSlot{a}, nil))

	conflicts := DetectConflicts(same, []models.ScheduleSlot{a}, nil)
	assert.NotContains(t, kinds(conflicts), models.ConflictRoomDoubleBooked)
	assert.Contains(t, kinds(conflicts), models.ConflictTeacherDoubleBooked)
}

func TestDetectConflictsRoomDoubleBooked(t *testing.T) {
	a := slotAt("a", "teacher-1", models.Friday, "18:00", strPtr("room-1"))
	b := slotAt("b", "teacher-2", models.Friday, "18:15", strPtr("room-1"))
	otherRoom := slotAt("c", "teacher-3", models.Friday, "18:15", strPtr("room-2"))

	conflicts := DetectConflicts(b, []models.ScheduleSlot{a, otherRoom}, nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictRoomDoubleBooked, conflicts[0].Kind)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
	assert.Equal(t, "room-1", conflicts[0].RoomID)
	assert.Equal(t, "18:15", conflicts[0].OverlapStart.String())
	assert.Equal(t, "19:00", conflicts[0].OverlapEnd.String())
}

func TestDetectConflictsDifferentDayOrUnit(t *testing.T) {
	a := slotAt("a", "teacher-t", models.Monday, "10:00", strPtr("room-1"))
	otherDay := slotAt("b", "teacher-t", models.Tuesday, "10:00", strPtr("room-1"))
	otherUnit := slotAt("c", "teacher-t", models.Monday, "10:00", strPtr("room-1"))
	otherUnit.UnitID = "unit-v"

	assert.Empty(t, DetectConflicts(a, []models.ScheduleSlot{otherDay, otherUnit}, nil))
}

func TestDetectConflictsCapacityWarningOnly(t *testing.T) {
	rooms := []models.Room{{ID: "room-1", UnitID: "unit-u", Capacity: intPtr(3)}}
	candidate := slotAt("a", "teacher-t", models.Monday, "10:00", strPtr("room-1"))
	candidate.StudentIDs = []string{"s1", "s2", "s3", "s4"}

	conflicts := DetectConflicts(candidate, nil, rooms)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictRoomCapacityExceeded, conflicts[0].Kind)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)
	assert.False(t, models.HasBlocking(conflicts))
}

func TestDetectConflictsCapacityBoundaries(t *testing.T) {
	candidate := slotAt("a", "teacher-t", models.Monday, "10:00", strPtr("room-1"))
	candidate.StudentIDs = []string{"s1", "s2", "s3"}

	atCapacity := []models.Room{{ID: "room-1", Capacity: intPtr(3)}}
	assert.Empty(t, DetectConflicts(candidate, nil, atCapacity))

	unknownCapacity := []models.Room{{ID: "room-1"}}
	assert.Empty(t, DetectConflicts(candidate, nil, unknownCapacity))

	assert.Empty(t, DetectConflicts(candidate, nil, nil))
}

func TestDetectConflictsCourseCompatibility(t *testing.T) {
	rooms := []models.Room{{ID: "drums", AllowedCourseIDs: []string{"drums", "percussion"}}}

	guitar := slotAt("a", "teacher-t", models.Monday, "10:00", strPtr("drums"))
	guitar.CourseID = strPtr("guitar")
	conflicts := DetectConflicts(guitar, nil, rooms)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictRoomCourseIncompatible, conflicts[0].Kind)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)

	drums := slotAt("b", "teacher-t", models.Monday, "10:00", strPtr("drums"))
	drums.CourseID = strPtr("percussion")
	assert.Empty(t, DetectConflicts(drums, nil, rooms))

	noCourse := slotAt("c", "teacher-t", models.Monday, "10:00", strPtr("drums"))
	assert.Equal(t, []models.ConflictKind{models.ConflictRoomCourseIncompatible}, kinds(DetectConflicts(noCourse, nil, rooms)))
}

func TestDetectConflictsRuleOrder(t *testing.T) {
	rooms := []models.Room{{ID: "room-1", Capacity: intPtr(1), AllowedCourseIDs: []string{"piano"}}}
	existing := []models.ScheduleSlot{
		slotAt("x", "teacher-t", models.Monday, "10:00", strPtr("room-1")),
		slotAt("y", "teacher-t", models.Monday, "10:30", nil),
	}
	candidate := slotAt("c", "teacher-t", models.Monday, "10:15", strPtr("room-1"))
	candidate.CourseID = strPtr("violin")
	candidate.StudentIDs = []string{"s1", "s2"}

	conflicts := DetectConflicts(candidate, existing, rooms)
	assert.Equal(t, []models.ConflictKind{
		models.ConflictTeacherDoubleBooked,
		models.ConflictTeacherDoubleBooked,
		models.ConflictRoomDoubleBooked,
		models.ConflictRoomCapacityExceeded,
		models.ConflictRoomCourseIncompatible,
	}, kinds(conflicts))
	assert.Equal(t, []string{"x"}, conflicts[0].SlotIDs)
	assert.Equal(t, []string{"y"}, conflicts[1].SlotIDs)
}

func TestDetectConflictsDeterministic(t *testing.T) {
	rooms := []models.Room{{ID: "room-1", Capacity: intPtr(1)}}
	existing := []models.ScheduleSlot{
		slotAt("x", "teacher-t", models.Monday, "10:00", strPtr("room-1")),
		slotAt("y", "teacher-q", models.Monday, "10:30", strPtr("room-1")),
	}
	candidate := slotAt("c", "teacher-t", models.Monday, "10:15", strPtr("room-1"))
	candidate.StudentIDs = []string{"s1", "s2"}

	first := DetectConflicts(candidate, existing, rooms)
	second := DetectConflicts(candidate, existing, rooms)
	assert.Equal(t, first, second)
}

func TestEndToEndMondayOverlap(t *testing.T) {
	rooms := []models.Room{{ID: "room-1", UnitID: "unit-u", Capacity: intPtr(4)}}
	existing := slotAt("existing", "teacher-t", models.Monday, "14:00", strPtr("room-1"))
	existing.StudentIDs = []string{"s1", "s2", "s3"}

	candidate := slotAt("new", "teacher-t", models.Monday, "14:30", strPtr("room-1"))
	candidate.StudentIDs = []string{"s4", "s5"}

	conflicts := DetectConflicts(candidate, []models.ScheduleSlot{existing}, rooms)
	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictTeacherDoubleBooked, conflicts[0].Kind)
	assert.Equal(t, models.ConflictRoomDoubleBooked, conflicts[1].Kind)
	for _, c := range conflicts {
		assert.Equal(t, models.SeverityError, c.Severity)
		assert.Equal(t, "14:30", c.OverlapStart.String())
		assert.Equal(t, "15:00", c.OverlapEnd.String())
	}

	positions := DefaultGridConfig().Positions(candidate.DurationMinutes)
	suggestions := Suggest(candidate, []models.ScheduleSlot{existing}, rooms, positions, SuggestOptions{Limit: 3})
	require.Len(t, suggestions, 3)

	for _, s := range suggestions {
		if s.DayOfWeek == models.Monday {
			assert.NotEqual(t, "14:00", s.StartTime.String())
			assert.NotEqual(t, "14:30", s.StartTime.String())
		}
		moved := candidate.MovedTo(s.DayOfWeek, s.StartTime)
		assert.False(t, models.HasBlocking(DetectConflicts(moved, []models.ScheduleSlot{existing}, rooms)))
	}

	assert.Equal(t, models.Monday, suggestions[0].DayOfWeek)
	assert.Equal(t, "15:00", suggestions[0].StartTime.String())
	assert.Equal(t, "13:00", suggestions[1].StartTime.String())
	assert.Equal(t, "16:00", suggestions[2].StartTime.String())
}
