package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]Weekday{
		"MONDAY":   Monday,
		"monday":   Monday,
		" tue ":    Tuesday,
		"3":        Wednesday,
		"Saturday": Saturday,
		"fri":      Friday,
	}
	for raw, want := range cases {
		got, err := ParseWeekday(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "SUNDAY", "7", "0", "mo"} {
		_, err := ParseWeekday(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("14:30")
	require.NoError(t, err)
	assert.Equal(t, 870, c.Minutes())
	assert.Equal(t, "14:30", c.String())

	c, err = ParseClock("08:05:00")
	require.NoError(t, err)
	assert.Equal(t, "08:05", c.String())

	for _, raw := range []string{"24:00", "10:60", "1030", "aa:bb", ""} {
		_, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}

func TestClockAndWeekdayScan(t *testing.T) {
	var day Weekday
	require.NoError(t, day.Scan(int64(2)))
	assert.Equal(t, Tuesday, day)
	assert.Error(t, day.Scan(int64(7)))
	assert.Error(t, day.Scan(nil))

	var clock Clock
	require.NoError(t, clock.Scan([]byte("600")))
	assert.Equal(t, "10:00", clock.String())
	assert.Error(t, clock.Scan(int64(-5)))
}

func TestSlotJSONRoundTripUsesNames(t *testing.T) {
	room := "room-1"
	slot := ScheduleSlot{ID: "s", DayOfWeek: Friday, StartTime: MustClock("09:15"), DurationMinutes: 45, RoomID: &room}

	raw, err := json.Marshal(slot)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"day_of_week":"FRIDAY"`)
	assert.Contains(t, string(raw), `"start_time":"09:15"`)
	assert.Equal(t, "10:00", slot.EndTime().String())
}

func TestRoomAllowsCourse(t *testing.T) {
	open := Room{ID: "r"}
	assert.True(t, open.AllowsCourse(nil))

	course := "piano"
	restricted := Room{ID: "r", AllowedCourseIDs: []string{"piano"}}
	assert.True(t, restricted.AllowsCourse(&course))
	assert.False(t, restricted.AllowsCourse(nil))
	other := "drums"
	assert.False(t, restricted.AllowsCourse(&other))
}

func TestJWTClaimsCanAccessUnit(t *testing.T) {
	claims := &JWTClaims{Role: RoleCoordinator, UnitIDs: []string{"unit-a"}}
	assert.True(t, claims.CanAccessUnit("unit-a"))
	assert.False(t, claims.CanAccessUnit("unit-b"))

	root := &JWTClaims{Role: RoleSuperAdmin}
	assert.True(t, root.CanAccessUnit("unit-b"))

	var none *JWTClaims
	assert.False(t, none.CanAccessUnit("unit-a"))
}
