package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleGrid() Grid {
	return Grid{
		Title:         "Unit Centro",
		Days:          []string{"MONDAY", "TUESDAY"},
		OpeningMinute: 8 * 60,
		ClosingMinute: 12 * 60,
		StepMinutes:   60,
		Entries: []GridEntry{
			{SlotID: "s1", Day: "MONDAY", DayIndex: 0, DayOffset: 0, StartMinute: 9 * 60, EndMinute: 10 * 60, Teacher: "Ana", Room: "Sala 1", Course: "piano", Students: 3},
			{SlotID: "s2", Day: "TUESDAY", DayIndex: 1, DayOffset: 1, StartMinute: 10*60 + 30, EndMinute: 11*60 + 30, Teacher: "Rui", Students: 1},
		},
	}
}

func TestGridCells(t *testing.T) {
	g := sampleGrid()
	assert.Equal(t, []int{480, 540, 600, 660}, g.Rows())
	require.Len(t, g.Cell(0, 540), 1)
	require.Len(t, g.Cell(1, 600), 1)
	assert.Empty(t, g.Cell(1, 660))
}

func TestCSVExporter(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleGrid())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Start,End,Teacher,Room,Course,Students,Slot", lines[0])
	assert.Equal(t, "MONDAY,09:00,10:00,Ana,Sala 1,piano,3,s1", lines[1])
	assert.Equal(t, "TUESDAY,10:30,11:30,Rui,,,1,s2", lines[2])
}

func TestPDFExporter(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleGrid())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Grid{})
	assert.Error(t, err)
}

func TestXLSXExporter(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleGrid())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{weekSheet, listSheet}, f.GetSheetList())
	value, err := f.GetCellValue(weekSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "09:00-10:00 piano / Ana @ Sala 1", value)

	slot, err := f.GetCellValue(listSheet, "H3")
	require.NoError(t, err)
	assert.Equal(t, "s2", slot)
}

func TestICSExporter(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	now := func() time.Time { return time.Date(2024, 5, 16, 12, 0, 0, 0, loc) }

	out, err := NewICSExporter(loc, now).Render(sampleGrid())
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY")
	assert.Contains(t, body, "UID:s1@schedule-grid")
	// Monday 13 May 2024 09:00 BRT is 12:00 UTC.
	assert.Contains(t, body, "DTSTART:20240513T120000Z")
}

func TestPNGExporter(t *testing.T) {
	out, err := NewPNGExporter().Render(sampleGrid())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
}

func TestRenderersDescribeThemselves(t *testing.T) {
	renderers := []Renderer{NewCSVExporter(), NewPDFExporter(), NewXLSXExporter(), NewICSExporter(nil, nil), NewPNGExporter()}
	seen := map[string]bool{}
	for _, r := range renderers {
		assert.NotEmpty(t, r.ContentType())
		seen[r.Extension()] = true
	}
	assert.Len(t, seen, 5)
}
