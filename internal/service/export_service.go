package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/internal/dto"
	"github.com/noah-isme/schedule-grid-api/internal/models"
	appErrors "github.com/noah-isme/schedule-grid-api/pkg/errors"
	"github.com/noah-isme/schedule-grid-api/pkg/export"
)

// Export formats understood by ExportService.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
	FormatPNG  = "png"
)

type gridReader interface {
	GetGrid(ctx context.Context, unitID string) (*dto.GridView, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Timezone string
}

// ExportResult is a rendered document ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders a unit's weekly grid as a downloadable document.
type ExportService struct {
	grids     gridReader
	renderers map[string]export.Renderer
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Calendar feeds are rendered in the unit's own
// timezone when it has one, otherwise in cfg.Timezone.
func NewExportService(grids gridReader, cfg ExportConfig, logger *zap.Logger) (*ExportService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("EXPORT_TIMEZONE: %w", err)
		}
	}
	return &ExportService{
		grids: grids,
		renderers: map[string]export.Renderer{
			FormatCSV:  export.NewCSVExporter(),
			FormatPDF:  export.NewPDFExporter(),
			FormatXLSX: export.NewXLSXExporter(),
			FormatPNG:  export.NewPNGExporter(),
		},
		location: loc,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Formats lists the supported export formats.
func (s *ExportService) Formats() []string {
	return []string{FormatCSV, FormatPDF, FormatXLSX, FormatICS, FormatPNG}
}

// Export renders the grid of a unit in the requested format.
func (s *ExportService) Export(ctx context.Context, unitID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}

	view, err := s.grids.GetGrid(ctx, unitID)
	if err != nil {
		return nil, err
	}

	renderer, err := s.renderer(format, view.Unit)
	if err != nil {
		return nil, err
	}

	payload, err := renderer.Render(BuildExportGrid(view))
	if err != nil {
		s.logger.Error("grid export failed", zap.String("unit_id", unitID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grid")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("grid_%s.%s", sanitizeFilename(unitID), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

func (s *ExportService) renderer(format string, unit models.Unit) (export.Renderer, error) {
	if format == FormatICS {
		loc := s.location
		if unit.Timezone != "" {
			if unitLoc, err := time.LoadLocation(unit.Timezone); err == nil {
				loc = unitLoc
			} else {
				s.logger.Warn("unit timezone not loadable", zap.String("unit_id", unit.ID), zap.String("timezone", unit.Timezone))
			}
		}
		return export.NewICSExporter(loc, s.now), nil
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q, expected one of %s", format, strings.Join(s.Formats(), ", ")))
	}
	return renderer, nil
}

// BuildExportGrid projects a grid view onto the renderer input, one entry per slot ordered
// by day then start time.
func BuildExportGrid(view *dto.GridView) export.Grid {
	columns := make(map[models.Weekday]int, len(view.Bounds.Days))
	days := make([]string, 0, len(view.Bounds.Days))
	for i, day := range view.Bounds.Days {
		columns[day] = i
		days = append(days, day.String())
	}
	roomNames := make(map[string]string, len(view.Rooms))
	for _, room := range view.Rooms {
		roomNames[room.ID] = room.Name
	}

	slots := append([]models.ScheduleSlot(nil), view.Slots...)
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].StartTime < slots[j].StartTime
	})

	entries := make([]export.GridEntry, 0, len(slots))
	for _, slot := range slots {
		column, ok := columns[slot.DayOfWeek]
		if !ok {
			column = -1
		}
		entry := export.GridEntry{
			SlotID:      slot.ID,
			Day:         slot.DayOfWeek.String(),
			DayIndex:    column,
			DayOffset:   slot.DayOfWeek.Index(),
			StartMinute: slot.StartTime.Minutes(),
			EndMinute:   slot.EndTime().Minutes(),
			Teacher:     slot.TeacherID,
			Students:    slot.Occupancy(),
		}
		if slot.HasRoom() {
			entry.Room = *slot.RoomID
			if name := roomNames[*slot.RoomID]; name != "" {
				entry.Room = name
			}
		}
		if slot.CourseID != nil {
			entry.Course = *slot.CourseID
		}
		entries = append(entries, entry)
	}

	title := view.Unit.Name
	if title == "" {
		title = view.Unit.ID
	}
	return export.Grid{
		Title:         title + " weekly grid",
		Days:          days,
		OpeningMinute: view.Bounds.OpeningTime.Minutes(),
		ClosingMinute: view.Bounds.ClosingTime.Minutes(),
		StepMinutes:   view.Bounds.StepMinutes,
		Entries:       entries,
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
