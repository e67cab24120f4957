package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ICSExporter renders each class as a weekly recurring calendar event.
type ICSExporter struct {
	location *time.Location
	now      func() time.Time
}

// NewICSExporter builds an exporter anchoring events on the current week in loc.
func NewICSExporter(loc *time.Location, now func() time.Time) *ICSExporter {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ICSExporter{location: loc, now: now}
}

// ContentType implements Renderer.
func (e *ICSExporter) ContentType() string { return "text/calendar" }

// Extension implements Renderer.
func (e *ICSExporter) Extension() string { return "ics" }

// Render produces an iCalendar feed with one RRULE:FREQ=WEEKLY event per class.
func (e *ICSExporter) Render(grid Grid) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schedule-grid-api//weekly grid//EN")
	if grid.Title != "" {
		cal.SetName(grid.Title)
	}
	cal.SetXWRTimezone(e.location.String())

	monday := e.weekStart()
	stamp := e.now().UTC()
	for _, entry := range grid.Entries {
		if entry.SlotID == "" {
			return nil, fmt.Errorf("ics entry on %s has no slot id", entry.Day)
		}
		day := monday.AddDate(0, 0, entry.DayOffset)
		start := day.Add(time.Duration(entry.StartMinute) * time.Minute)
		end := day.Add(time.Duration(entry.EndMinute) * time.Minute)

		event := cal.AddEvent(entry.SlotID + "@schedule-grid")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(entry.label())
		if entry.Room != "" {
			event.SetLocation(entry.Room)
		}
		event.SetDescription(fmt.Sprintf("Teacher: %s\nStudents: %d", entry.Teacher, entry.Students))
		event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}

	return []byte(cal.Serialize()), nil
}

func (e *ICSExporter) weekStart() time.Time {
	now := e.now().In(e.location)
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.location)
}
