package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

func TestGridConfigPositions(t *testing.T) {
	cfg := DefaultGridConfig()
	require.NoError(t, cfg.Validate())

	hourly := cfg.Positions(60)
	assert.Len(t, hourly, 84)
	assert.Equal(t, models.GridPosition{DayOfWeek: models.Monday, StartTime: models.MustClock("08:00")}, hourly[0])
	assert.Equal(t, models.GridPosition{DayOfWeek: models.Saturday, StartTime: models.MustClock("21:00")}, hourly[len(hourly)-1])

	long := cfg.Positions(90)
	assert.Len(t, long, 6*13)
}

func TestGridConfigValidate(t *testing.T) {
	cfg := DefaultGridConfig()
	cfg.Closing = cfg.Opening
	assert.Error(t, cfg.Validate())

	cfg = DefaultGridConfig()
	cfg.Days = []models.Weekday{7}
	assert.Error(t, cfg.Validate())

	cfg = DefaultGridConfig()
	cfg.StepMinutes = 0
	assert.Error(t, cfg.Validate())
}

func TestGridConfigContains(t *testing.T) {
	cfg := DefaultGridConfig()
	cfg.Days = []models.Weekday{models.Monday, models.Wednesday}

	assert.True(t, cfg.Contains(models.Monday, models.MustClock("14:30"), 60))
	assert.True(t, cfg.Contains(models.Wednesday, models.MustClock("21:00"), 60))
	assert.False(t, cfg.Contains(models.Wednesday, models.MustClock("21:30"), 60))
	assert.False(t, cfg.Contains(models.Tuesday, models.MustClock("10:00"), 60))
	assert.False(t, cfg.Contains(models.Monday, models.MustClock("07:00"), 60))
}

func TestSuggestPrefersSameDay(t *testing.T) {
	existing := []models.ScheduleSlot{
		slotAt("busy-1", "teacher-t", models.Tuesday, "10:00", nil),
		slotAt("busy-2", "teacher-t", models.Tuesday, "11:00", nil),
	}
	candidate := slotAt("moving", "teacher-t", models.Tuesday, "10:00", nil)

	cfg := DefaultGridConfig()
	suggestions := Suggest(candidate, existing, nil, cfg.Positions(60), SuggestOptions{Limit: 4})
	require.Len(t, suggestions, 4)

	assert.Equal(t, "09:00", suggestions[0].StartTime.String())
	assert.Equal(t, 60, suggestions[0].Score)
	assert.Equal(t, "08:00", suggestions[1].StartTime.String())
	assert.Equal(t, "12:00", suggestions[2].StartTime.String())
	assert.Equal(t, "13:00", suggestions[3].StartTime.String())
	for _, s := range suggestions {
		assert.Equal(t, models.Tuesday, s.DayOfWeek)
	}
}

func TestSuggestExcludesOriginalPosition(t *testing.T) {
	candidate := slotAt("moving", "teacher-t", models.Monday, "08:00", nil)
	cfg := DefaultGridConfig()

	suggestions := Suggest(candidate, nil, nil, cfg.Positions(60), SuggestOptions{Limit: 100})
	assert.Len(t, suggestions, 83)
	for _, s := range suggestions {
		assert.False(t, s.DayOfWeek == models.Monday && s.StartTime == candidate.StartTime)
	}
}

func TestSuggestTieBreakByDayThenTime(t *testing.T) {
	cfg := GridConfig{
		Days:        []models.Weekday{models.Monday, models.Tuesday, models.Wednesday},
		Opening:     models.MustClock("10:00"),
		Closing:     models.MustClock("11:00"),
		StepMinutes: 60,
	}
	candidate := slotAt("moving", "teacher-t", models.Tuesday, "10:00", nil)

	suggestions := Suggest(candidate, nil, nil, cfg.Positions(60), SuggestOptions{})
	require.Len(t, suggestions, 2)
	assert.Equal(t, models.Monday, suggestions[0].DayOfWeek)
	assert.Equal(t, models.Wednesday, suggestions[1].DayOfWeek)
	assert.Equal(t, suggestions[0].Score, suggestions[1].Score)
}

func TestSuggestKeepsWarnings(t *testing.T) {
	rooms := []models.Room{{ID: "room-1", Capacity: intPtr(1)}}
	candidate := slotAt("moving", "teacher-t", models.Monday, "10:00", strPtr("room-1"))
	candidate.StudentIDs = []string{"s1", "s2"}
	cfg := GridConfig{Days: []models.Weekday{models.Monday}, Opening: models.MustClock("10:00"), Closing: models.MustClock("12:00"), StepMinutes: 60}

	suggestions := Suggest(candidate, nil, rooms, cfg.Positions(60), SuggestOptions{})
	require.Len(t, suggestions, 1)
	require.Len(t, suggestions[0].Warnings, 1)
	assert.Equal(t, models.ConflictRoomCapacityExceeded, suggestions[0].Warnings[0].Kind)
}

func TestSuggestEveryResultIsConflictFree(t *testing.T) {
	existing := []models.ScheduleSlot{
		slotAt("a", "teacher-t", models.Monday, "09:00", strPtr("room-1")),
		slotAt("b", "teacher-q", models.Monday, "10:00", strPtr("room-1")),
		slotAt("c", "teacher-t", models.Monday, "11:30", strPtr("room-2")),
		slotAt("d", "teacher-q", models.Tuesday, "09:00", strPtr("room-1")),
	}
	candidate := slotAt("moving", "teacher-t", models.Monday, "10:00", strPtr("room-1"))
	positions := DefaultGridConfig().Positions(60)

	suggestions := Suggest(candidate, existing, nil, positions, SuggestOptions{Limit: 20})
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		moved := candidate.MovedTo(s.DayOfWeek, s.StartTime)
		assert.False(t, models.HasBlocking(DetectConflicts(moved, existing, nil)), "%s %s", s.DayOfWeek, s.StartTime)
	}
}

func TestSuggestNoRoomLeft(t *testing.T) {
	cfg := GridConfig{Days: []models.Weekday{models.Monday}, Opening: models.MustClock("10:00"), Closing: models.MustClock("12:00"), StepMinutes: 60}
	existing := []models.ScheduleSlot{
		slotAt("a", "teacher-t", models.Monday, "10:00", nil),
		slotAt("b", "teacher-t", models.Monday, "11:00", nil),
	}
	candidate := slotAt("new", "teacher-t", models.Monday, "10:30", nil)

	assert.Empty(t, Suggest(candidate, existing, nil, cfg.Positions(60), SuggestOptions{}))
}
