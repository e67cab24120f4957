package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/internal/dto"
	"github.com/noah-isme/schedule-grid-api/internal/models"
	"github.com/noah-isme/schedule-grid-api/internal/repository"
	"github.com/noah-isme/schedule-grid-api/internal/scheduling"
	appErrors "github.com/noah-isme/schedule-grid-api/pkg/errors"
)

type gridUnitRepository interface {
	FindByID(ctx context.Context, id string) (*models.Unit, error)
}

type gridRoomRepository interface {
	ListByUnit(ctx context.Context, unitID string) ([]models.Room, error)
}

type gridSlotRepository interface {
	ListActiveByUnit(ctx context.Context, unitID string) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	Create(ctx context.Context, slot *models.ScheduleSlot) error
	UpdatePlacement(ctx context.Context, update repository.PlacementUpdate) error
	ReplaceStudents(ctx context.Context, slotID string, studentIDs []string) error
	Deactivate(ctx context.Context, slotID string) error
}

// GridService loads a unit's weekly grid from the record store, runs the conflict detector
// and suggestion generator against it and persists confirmed changes.
type GridService struct {
	units     gridUnitRepository
	rooms     gridRoomRepository
	slots     gridSlotRepository
	cache     *CacheService
	metrics   *MetricsService
	settings  GridSettings
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGridService wires the grid orchestrator.
func NewGridService(units gridUnitRepository, rooms gridRoomRepository, slots gridSlotRepository, cache *CacheService, metrics *MetricsService, settings GridSettings, validate *validator.Validate, logger *zap.Logger) *GridService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridService{
		units:     units,
		rooms:     rooms,
		slots:     slots,
		cache:     cache,
		metrics:   metrics,
		settings:  settings,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// GetGrid returns the active slots and rooms of a unit, served from cache when enabled.
func (s *GridService) GetGrid(ctx context.Context, unitID string) (*dto.GridView, error) {
	var cached dto.GridView
	if s.cache.Get(ctx, GridCacheKey(unitID), &cached) {
		cached.FromCache = true
		return &cached, nil
	}

	unit, err := s.ensureUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	view, err := s.view(ctx, unit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, GridCacheKey(unitID), view, s.settings.CacheTTL)
	return view, nil
}

// ProposeMove evaluates dropping a slot at a new day and start without persisting anything.
func (s *GridService) ProposeMove(ctx context.Context, unitID, slotID string, req dto.MoveRequest) (*dto.Proposal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	day, start, err := parsePlacement(req.DayOfWeek, req.StartTime)
	if err != nil {
		return nil, err
	}

	grid, err := s.load(ctx, unitID)
	if err != nil {
		return nil, err
	}
	slot, ok := grid.Slot(slotID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}
	candidate, err := s.placeCandidate(grid, slot, day, start, req.RoomID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(grid, candidate, req.Limit), nil
}

// ConfirmMove persists a move after re-evaluating it against a fresh copy of the grid. It never
// writes while an Error-severity conflict is present, requires acknowledgement of warnings, and
// attempts the write exactly once. On success the whole grid is reloaded from the store.
func (s *GridService) ConfirmMove(ctx context.Context, unitID, slotID string, req dto.ConfirmMoveRequest) (*dto.WriteResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	day, start, err := parsePlacement(req.DayOfWeek, req.StartTime)
	if err != nil {
		return nil, err
	}

	grid, err := s.load(ctx, unitID)
	if err != nil {
		return nil, err
	}
	slot, ok := grid.Slot(slotID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != slot.Version {
		s.metrics.RecordMove(MoveStale)
		return nil, appErrors.Clone(appErrors.ErrStaleWrite, fmt.Sprintf("slot is at version %d, expected %d", slot.Version, *req.ExpectedVersion))
	}
	candidate, err := s.placeCandidate(grid, slot, day, start, req.RoomID)
	if err != nil {
		return nil, err
	}

	conflicts := scheduling.DetectConflicts(candidate, grid.Slots, grid.Rooms)
	s.metrics.RecordConflicts(conflicts)
	if err := s.gate(conflicts, req.AcknowledgeWarnings); err != nil {
		return nil, err
	}

	err = s.slots.UpdatePlacement(ctx, repository.PlacementUpdate{
		SlotID:          slot.ID,
		DayOfWeek:       candidate.DayOfWeek,
		StartTime:       candidate.StartTime,
		RoomID:          candidate.RoomID,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return nil, s.writeFailure(slot.ID, err)
	}
	s.metrics.RecordMove(MoveApplied)
	s.logger.Info("slot moved",
		zap.String("unit_id", unitID),
		zap.String("slot_id", slot.ID),
		zap.Stringer("day_of_week", candidate.DayOfWeek),
		zap.Stringer("start_time", candidate.StartTime),
		zap.Int("warnings", len(models.Warnings(conflicts))),
	)

	candidate.Version = slot.Version + 1
	return s.afterWrite(ctx, unitID, candidate, models.Warnings(conflicts)), nil
}

// CheckSlot evaluates an unsaved slot against the unit's grid.
func (s *GridService) CheckSlot(ctx context.Context, unitID string, req dto.SlotRequest) (*dto.Proposal, error) {
	candidate, err := s.candidateFromRequest(unitID, req)
	if err != nil {
		return nil, err
	}
	grid, err := s.load(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRoom(grid, candidate.RoomID); err != nil {
		return nil, err
	}
	candidate.Capacity = grid.RoomCapacity(candidate.RoomID)
	return s.evaluate(grid, candidate, req.Limit), nil
}

// CreateSlot inserts a new slot under the same blocking rules as ConfirmMove.
func (s *GridService) CreateSlot(ctx context.Context, unitID string, req dto.SlotRequest) (*dto.WriteResult, error) {
	candidate, err := s.candidateFromRequest(unitID, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureUnit(ctx, unitID); err != nil {
		return nil, err
	}
	grid, err := s.load(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRoom(grid, candidate.RoomID); err != nil {
		return nil, err
	}
	candidate.Capacity = grid.RoomCapacity(candidate.RoomID)

	conflicts := scheduling.DetectConflicts(candidate, grid.Slots, grid.Rooms)
	s.metrics.RecordConflicts(conflicts)
	if err := s.gate(conflicts, req.AcknowledgeWarnings); err != nil {
		return nil, err
	}

	if err := s.slots.Create(ctx, &candidate); err != nil {
		return nil, s.writeFailure(candidate.ID, err)
	}
	s.metrics.RecordMove(MoveApplied)
	s.logger.Info("slot created", zap.String("unit_id", unitID), zap.String("slot_id", candidate.ID))

	return s.afterWrite(ctx, unitID, candidate, models.Warnings(conflicts)), nil
}

// ReplaceStudents swaps a slot's enrolment. Only advisory conflicts are evaluated since the
// placement itself does not change.
func (s *GridService) ReplaceStudents(ctx context.Context, unitID, slotID string, req dto.StudentsRequest) (*dto.WriteResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid students payload")
	}
	grid, err := s.load(ctx, unitID)
	if err != nil {
		return nil, err
	}
	slot, ok := grid.Slot(slotID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}

	candidate := slot.MovedTo(slot.DayOfWeek, slot.StartTime)
	candidate.StudentIDs = dedupe(req.StudentIDs)
	warnings := models.Warnings(scheduling.DetectConflicts(candidate, grid.Slots, grid.Rooms))
	s.metrics.RecordConflicts(warnings)
	if err := s.gate(warnings, req.AcknowledgeWarnings); err != nil {
		return nil, err
	}

	if err := s.slots.ReplaceStudents(ctx, slotID, candidate.StudentIDs); err != nil {
		return nil, s.writeFailure(slotID, err)
	}
	return s.afterWrite(ctx, unitID, candidate, warnings), nil
}

// DeactivateSlot soft deletes a slot of the unit.
func (s *GridService) DeactivateSlot(ctx context.Context, unitID, slotID string) error {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return appErrors.Store(err)
	}
	if slot.UnitID != unitID || !slot.Active {
		return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}
	if err := s.slots.Deactivate(ctx, slotID); err != nil {
		return s.writeFailure(slotID, err)
	}
	s.cache.Invalidate(ctx, GridCacheKey(unitID))
	s.logger.Info("slot deactivated", zap.String("unit_id", unitID), zap.String("slot_id", slotID))
	return nil
}

// Bounds returns the grid configuration as exposed to clients.
func (s *GridService) Bounds() dto.GridBounds {
	return dto.GridBounds{
		Days:        s.settings.Grid.Days,
		OpeningTime: s.settings.Grid.Opening,
		ClosingTime: s.settings.Grid.Closing,
		StepMinutes: s.settings.Grid.StepMinutes,
	}
}

func (s *GridService) evaluate(grid *models.Grid, candidate models.ScheduleSlot, limit int) *dto.Proposal {
	conflicts := scheduling.DetectConflicts(candidate, grid.Slots, grid.Rooms)
	s.metrics.RecordConflicts(conflicts)

	// Alternatives are only searched for placements that cannot be saved as requested.
	blocking := models.HasBlocking(conflicts)
	suggestions := []models.Suggestion{}
	if blocking {
		opts := s.settings.Suggestions
		if limit > 0 {
			opts.Limit = limit
		}
		suggestions = scheduling.Suggest(candidate, grid.Slots, grid.Rooms, s.settings.Grid.Positions(candidate.DurationMinutes), opts)
		s.metrics.ObserveSuggestions(len(suggestions))
	}

	return &dto.Proposal{
		Candidate:               candidate,
		Conflicts:               conflicts,
		Suggestions:             suggestions,
		Blocking:                blocking,
		RequiresAcknowledgement: !blocking && len(models.Warnings(conflicts)) > 0,
	}
}

// gate refuses writes with blocking conflicts or unacknowledged warnings.
func (s *GridService) gate(conflicts []models.Conflict, acknowledged bool) error {
	if models.HasBlocking(conflicts) {
		s.metrics.RecordMove(MoveBlocked)
		conflictErr := &models.ScheduleConflictError{Message: "placement has blocking conflicts", Conflicts: conflicts}
		return appErrors.Wrap(conflictErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictErr.Message)
	}
	warnings := models.Warnings(conflicts)
	if len(warnings) > 0 && !acknowledged {
		s.metrics.RecordMove(MoveUnacknowledged)
		conflictErr := &models.ScheduleConflictError{Message: "placement has warnings that must be acknowledged", Conflicts: warnings}
		return appErrors.Wrap(conflictErr, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, conflictErr.Message)
	}
	return nil
}

func (s *GridService) writeFailure(slotID string, err error) error {
	switch {
	case errors.Is(err, repository.ErrVersionMismatch):
		s.metrics.RecordMove(MoveStale)
		return appErrors.Wrap(err, appErrors.ErrStaleWrite.Code, appErrors.ErrStaleWrite.Status, appErrors.ErrStaleWrite.Message)
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	default:
		s.metrics.RecordMove(MoveStoreError)
		s.logger.Warn("record store write failed", zap.String("slot_id", slotID), zap.Error(err))
		return appErrors.Store(err)
	}
}

// afterWrite drops the cached view and reloads the whole grid from the store. The write has
// already committed, so a failed reload is logged and the result carries no grid.
func (s *GridService) afterWrite(ctx context.Context, unitID string, written models.ScheduleSlot, warnings []models.Conflict) *dto.WriteResult {
	s.cache.Invalidate(ctx, GridCacheKey(unitID))
	result := &dto.WriteResult{Slot: written, Warnings: warnings}

	unit, err := s.ensureUnit(ctx, unitID)
	if err == nil {
		result.Grid, err = s.view(ctx, unit)
	}
	if err != nil {
		s.logger.Warn("grid reload after write failed",
			zap.String("unit_id", unitID),
			zap.String("slot_id", written.ID),
			zap.Error(err),
		)
		return result
	}

	for _, slot := range result.Grid.Slots {
		if slot.ID == written.ID {
			result.Slot = slot
			break
		}
	}
	return result
}

func (s *GridService) view(ctx context.Context, unit *models.Unit) (*dto.GridView, error) {
	grid, err := s.load(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	return &dto.GridView{
		Unit:     *unit,
		Bounds:   s.Bounds(),
		Slots:    grid.Slots,
		Rooms:    grid.Rooms,
		LoadedAt: grid.LoadedAt,
	}, nil
}

// load always reads from the record store; the cache only serves GetGrid.
func (s *GridService) load(ctx context.Context, unitID string) (*models.Grid, error) {
	start := time.Now()
	slots, err := s.slots.ListActiveByUnit(ctx, unitID)
	s.metrics.ObserveDBQuery("list_slots", time.Since(start))
	if err != nil {
		return nil, appErrors.Store(err)
	}

	start = time.Now()
	rooms, err := s.rooms.ListByUnit(ctx, unitID)
	s.metrics.ObserveDBQuery("list_rooms", time.Since(start))
	if err != nil {
		return nil, appErrors.Store(err)
	}

	grid := &models.Grid{UnitID: unitID, Slots: slots, Rooms: rooms, LoadedAt: s.now().UTC()}
	grid.ResolveCapacities()
	return grid, nil
}

func (s *GridService) ensureUnit(ctx context.Context, unitID string) (*models.Unit, error) {
	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Store(err)
	}
	return unit, nil
}

func (s *GridService) placeCandidate(grid *models.Grid, slot models.ScheduleSlot, day models.Weekday, start models.Clock, roomID *string) (models.ScheduleSlot, error) {
	candidate := slot.MovedTo(day, start)
	if roomID != nil {
		if *roomID == "" {
			candidate.RoomID = nil
		} else {
			id := *roomID
			candidate.RoomID = &id
		}
	}
	if err := s.checkRoom(grid, candidate.RoomID); err != nil {
		return models.ScheduleSlot{}, err
	}
	candidate.Capacity = grid.RoomCapacity(candidate.RoomID)
	if !s.settings.Grid.Contains(day, start, candidate.DurationMinutes) {
		return models.ScheduleSlot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %s-%s is outside the grid", day, start, candidate.EndTime()))
	}
	return candidate, nil
}

func (s *GridService) candidateFromRequest(unitID string, req dto.SlotRequest) (models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ScheduleSlot{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	day, start, err := parsePlacement(req.DayOfWeek, req.StartTime)
	if err != nil {
		return models.ScheduleSlot{}, err
	}
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = s.settings.DefaultDuration
	}
	candidate := models.ScheduleSlot{
		UnitID:          unitID,
		TeacherID:       req.TeacherID,
		RoomID:          nonEmpty(req.RoomID),
		CourseID:        nonEmpty(req.CourseID),
		DayOfWeek:       day,
		StartTime:       start,
		DurationMinutes: duration,
		StudentIDs:      dedupe(req.StudentIDs),
		Active:          true,
	}
	if !s.settings.Grid.Contains(day, start, duration) {
		return models.ScheduleSlot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %s-%s is outside the grid", day, start, candidate.EndTime()))
	}
	return candidate, nil
}

func (s *GridService) checkRoom(grid *models.Grid, roomID *string) error {
	if roomID == nil {
		return nil
	}
	if _, ok := grid.Room(*roomID); !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %s does not belong to unit %s", *roomID, grid.UnitID))
	}
	return nil
}

func parsePlacement(rawDay, rawStart string) (models.Weekday, models.Clock, error) {
	day, err := models.ParseWeekday(rawDay)
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	start, err := models.ParseClock(rawStart)
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return day, start, nil
}

func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
