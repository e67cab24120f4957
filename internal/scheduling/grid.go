package scheduling

import (
	"fmt"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

// GridConfig bounds the weekly grid a unit schedules into.
type GridConfig struct {
	Days        []models.Weekday
	Opening     models.Clock
	Closing     models.Clock
	StepMinutes int
}

// DefaultGridConfig is Monday-Saturday, 08:00-22:00, hourly.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Days:        append([]models.Weekday(nil), models.AllWeekdays...),
		Opening:     models.MustClock("08:00"),
		Closing:     models.MustClock("22:00"),
		StepMinutes: 60,
	}
}

// Validate checks the grid bounds.
func (c GridConfig) Validate() error {
	if len(c.Days) == 0 {
		return fmt.Errorf("grid needs at least one day")
	}
	for _, day := range c.Days {
		if !day.Valid() {
			return fmt.Errorf("grid day %d outside MONDAY-SATURDAY", int(day))
		}
	}
	if c.StepMinutes <= 0 {
		return fmt.Errorf("grid step must be positive, got %d", c.StepMinutes)
	}
	if c.Closing <= c.Opening {
		return fmt.Errorf("grid closing %s must be after opening %s", c.Closing, c.Opening)
	}
	return nil
}

// Positions enumerates every (day, start) at which a class of the given duration fits
// between opening and closing, ordered by day then time.
func (c GridConfig) Positions(durationMinutes int) []models.GridPosition {
	if durationMinutes <= 0 {
		durationMinutes = models.DefaultSlotDuration
	}
	step := c.StepMinutes
	if step <= 0 {
		step = 60
	}
	days := make([]models.Weekday, 0, len(c.Days))
	seen := make(map[models.Weekday]bool, len(c.Days))
	for _, day := range models.AllWeekdays {
		for _, enabled := range c.Days {
			if enabled == day && !seen[day] {
				days = append(days, day)
				seen[day] = true
			}
		}
	}

	var positions []models.GridPosition
	for _, day := range days {
		for start := c.Opening; start.Add(durationMinutes) <= c.Closing; start = start.Add(step) {
			positions = append(positions, models.GridPosition{DayOfWeek: day, StartTime: start})
		}
	}
	return positions
}

// Contains reports whether a slot of the given duration placed at (day, start) lies inside
// the grid bounds. Off-step starts are accepted so classes can begin at half hours.
func (c GridConfig) Contains(day models.Weekday, start models.Clock, durationMinutes int) bool {
	enabled := false
	for _, d := range c.Days {
		if d == day {
			enabled = true
			break
		}
	}
	return enabled && start >= c.Opening && start.Add(durationMinutes) <= c.Closing
}
