// Package seed loads a unit's rooms and slots from a YAML fixture.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/schedule-grid-api/internal/models"
	"github.com/noah-isme/schedule-grid-api/internal/scheduling"
)

// Fixture is the YAML document accepted by cmd/seed.
type Fixture struct {
	Units []UnitFixture `yaml:"units"`
}

// UnitFixture describes one unit with its rooms and weekly slots.
type UnitFixture struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Timezone string        `yaml:"timezone"`
	Rooms    []RoomFixture `yaml:"rooms"`
	Slots    []SlotFixture `yaml:"slots"`
}

// RoomFixture describes a room. Capacity is optional.
type RoomFixture struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Capacity       *int     `yaml:"capacity"`
	AllowedCourses []string `yaml:"allowed_courses"`
}

// SlotFixture describes a slot using day names and HH:MM times.
type SlotFixture struct {
	ID       string   `yaml:"id"`
	Teacher  string   `yaml:"teacher"`
	Room     string   `yaml:"room"`
	Course   string   `yaml:"course"`
	Day      string   `yaml:"day"`
	Start    string   `yaml:"start"`
	Duration int      `yaml:"duration"`
	Students []string `yaml:"students"`
}

// Parse decodes a fixture document.
func Parse(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fixture); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	for i, unit := range fixture.Units {
		if unit.ID == "" || unit.Name == "" {
			return nil, fmt.Errorf("unit #%d needs id and name", i+1)
		}
	}
	return &fixture, nil
}

// Unit converts the fixture into a model.
func (u UnitFixture) Unit() models.Unit {
	return models.Unit{ID: u.ID, Name: u.Name, Timezone: u.Timezone}
}

// Room converts the fixture into a model.
func (r RoomFixture) Room(unitID string) models.Room {
	return models.Room{
		ID:               r.ID,
		UnitID:           unitID,
		Name:             r.Name,
		Capacity:         r.Capacity,
		AllowedCourseIDs: r.AllowedCourses,
	}
}

// Slot converts the fixture into a model.
func (s SlotFixture) Slot(unitID string) (models.ScheduleSlot, error) {
	day, err := models.ParseWeekday(s.Day)
	if err != nil {
		return models.ScheduleSlot{}, fmt.Errorf("slot %s: %w", s.ID, err)
	}
	start, err := models.ParseClock(s.Start)
	if err != nil {
		return models.ScheduleSlot{}, fmt.Errorf("slot %s: %w", s.ID, err)
	}
	if s.Teacher == "" {
		return models.ScheduleSlot{}, fmt.Errorf("slot %s: teacher is required", s.ID)
	}
	duration := s.Duration
	if duration <= 0 {
		duration = models.DefaultSlotDuration
	}
	slot := models.ScheduleSlot{
		ID:              s.ID,
		UnitID:          unitID,
		TeacherID:       s.Teacher,
		DayOfWeek:       day,
		StartTime:       start,
		DurationMinutes: duration,
		StudentIDs:      s.Students,
		Active:          true,
	}
	if s.Room != "" {
		room := s.Room
		slot.RoomID = &room
	}
	if s.Course != "" {
		course := s.Course
		slot.CourseID = &course
	}
	return slot, nil
}

type unitStore interface {
	Upsert(ctx context.Context, unit *models.Unit) error
}

type roomStore interface {
	Upsert(ctx context.Context, room *models.Room) error
	ListByUnit(ctx context.Context, unitID string) ([]models.Room, error)
}

type slotStore interface {
	ListActiveByUnit(ctx context.Context, unitID string) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	Create(ctx context.Context, slot *models.ScheduleSlot) error
}

// Report summarises what Apply wrote.
type Report struct {
	Units        int
	Rooms        int
	SlotsCreated int
	SlotsKept    int
	SlotsSkipped int
}

// Loader writes fixtures through the repositories.
type Loader struct {
	units  unitStore
	rooms  roomStore
	slots  slotStore
	grid   scheduling.GridConfig
	logger *zap.Logger
}

// NewLoader constructs a Loader.
func NewLoader(units unitStore, rooms roomStore, slots slotStore, grid scheduling.GridConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{units: units, rooms: rooms, slots: slots, grid: grid, logger: logger}
}

// Apply upserts units and rooms and creates slots that do not exist yet. Slots outside the
// grid or with blocking conflicts against what is already stored are skipped and logged.
func (l *Loader) Apply(ctx context.Context, fixture *Fixture) (Report, error) {
	var report Report
	for _, uf := range fixture.Units {
		unit := uf.Unit()
		if err := l.units.Upsert(ctx, &unit); err != nil {
			return report, err
		}
		report.Units++

		for _, rf := range uf.Rooms {
			room := rf.Room(unit.ID)
			if err := l.rooms.Upsert(ctx, &room); err != nil {
				return report, err
			}
			report.Rooms++
		}

		rooms, err := l.rooms.ListByUnit(ctx, unit.ID)
		if err != nil {
			return report, err
		}
		existing, err := l.slots.ListActiveByUnit(ctx, unit.ID)
		if err != nil {
			return report, err
		}
		grid := models.Grid{UnitID: unit.ID, Rooms: rooms}

		for _, sf := range uf.Slots {
			slot, err := sf.Slot(unit.ID)
			if err != nil {
				return report, err
			}
			if slot.ID != "" {
				if _, err := l.slots.FindByID(ctx, slot.ID); err == nil {
					report.SlotsKept++
					continue
				} else if !errors.Is(err, sql.ErrNoRows) {
					return report, err
				}
			}
			if !l.grid.Contains(slot.DayOfWeek, slot.StartTime, slot.DurationMinutes) {
				l.logger.Warn("seed slot outside grid", zap.String("slot_id", slot.ID), zap.Stringer("day_of_week", slot.DayOfWeek), zap.Stringer("start_time", slot.StartTime))
				report.SlotsSkipped++
				continue
			}
			conflicts := scheduling.DetectConflicts(slot, existing, rooms)
			if models.HasBlocking(conflicts) {
				l.logger.Warn("seed slot conflicts", zap.String("slot_id", slot.ID), zap.String("detail", conflicts[0].Detail))
				report.SlotsSkipped++
				continue
			}
			slot.Capacity = grid.RoomCapacity(slot.RoomID)
			if err := l.slots.Create(ctx, &slot); err != nil {
				return report, err
			}
			existing = append(existing, slot)
			report.SlotsCreated++
		}
	}
	return report, nil
}
