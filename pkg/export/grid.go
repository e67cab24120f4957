package export

import (
	"fmt"
	"strconv"
)

// Renderer turns a weekly grid into a downloadable document.
type Renderer interface {
	Render(grid Grid) ([]byte, error)
	ContentType() string
	Extension() string
}

// GridEntry is one class placed on the weekly grid. DayIndex is the column in Grid.Days;
// DayOffset counts days from Monday.
type GridEntry struct {
	SlotID      string
	Day         string
	DayIndex    int
	DayOffset   int
	StartMinute int
	EndMinute   int
	Teacher     string
	Room        string
	Course      string
	Students    int
}

// Grid is the renderer input. Entries are expected in day then start order.
type Grid struct {
	Title         string
	Days          []string
	OpeningMinute int
	ClosingMinute int
	StepMinutes   int
	Entries       []GridEntry
}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

var gridHeaders = []string{"Day", "Start", "End", "Teacher", "Room", "Course", "Students", "Slot"}

// Dataset flattens the grid into one row per class.
func (g Grid) Dataset() Dataset {
	rows := make([]map[string]string, 0, len(g.Entries))
	for _, e := range g.Entries {
		rows = append(rows, map[string]string{
			"Day":      e.Day,
			"Start":    formatMinute(e.StartMinute),
			"End":      formatMinute(e.EndMinute),
			"Teacher":  e.Teacher,
			"Room":     e.Room,
			"Course":   e.Course,
			"Students": strconv.Itoa(e.Students),
			"Slot":     e.SlotID,
		})
	}
	return Dataset{Headers: gridHeaders, Rows: rows}
}

// Rows returns the row start minutes of the week matrix.
func (g Grid) Rows() []int {
	step := g.StepMinutes
	if step <= 0 {
		step = 60
	}
	var rows []int
	for m := g.OpeningMinute; m < g.ClosingMinute; m += step {
		rows = append(rows, m)
	}
	return rows
}

// Cell lists the entries of a day that start inside [from, from+step).
func (g Grid) Cell(dayIndex, from int) []GridEntry {
	step := g.StepMinutes
	if step <= 0 {
		step = 60
	}
	var out []GridEntry
	for _, e := range g.Entries {
		if e.DayIndex == dayIndex && e.StartMinute >= from && e.StartMinute < from+step {
			out = append(out, e)
		}
	}
	return out
}

func (e GridEntry) label() string {
	text := e.Teacher
	if e.Course != "" {
		text = e.Course + " / " + text
	}
	if e.Room != "" {
		text += " @ " + e.Room
	}
	return text
}

func formatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
