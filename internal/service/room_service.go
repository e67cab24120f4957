package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/internal/dto"
	"github.com/noah-isme/schedule-grid-api/internal/models"
	appErrors "github.com/noah-isme/schedule-grid-api/pkg/errors"
)

type roomRepository interface {
	ListByUnit(ctx context.Context, unitID string) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
}

// RoomService manages the room catalogue of a unit.
type RoomService struct {
	units     gridUnitRepository
	repo      roomRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService builds the service.
func NewRoomService(units gridUnitRepository, repo roomRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{units: units, repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the rooms of a unit.
func (s *RoomService) List(ctx context.Context, unitID string) ([]models.Room, error) {
	if err := s.ensureUnit(ctx, unitID); err != nil {
		return nil, err
	}
	rooms, err := s.repo.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, appErrors.Store(err)
	}
	return rooms, nil
}

// Create adds a room to a unit.
func (s *RoomService) Create(ctx context.Context, unitID string, req dto.RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	if err := s.ensureUnit(ctx, unitID); err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:               req.ID,
		UnitID:           unitID,
		Name:             req.Name,
		Capacity:         req.Capacity,
		AllowedCourseIDs: dedupe(req.AllowedCourseIDs),
	}
	if len(room.AllowedCourseIDs) == 0 {
		room.AllowedCourseIDs = nil
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Store(err)
	}
	s.cache.Invalidate(ctx, GridCacheKey(unitID))
	s.logger.Info("room created", zap.String("unit_id", unitID), zap.String("room_id", room.ID))
	return room, nil
}

func (s *RoomService) ensureUnit(ctx context.Context, unitID string) error {
	if _, err := s.units.FindByID(ctx, unitID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return appErrors.Store(err)
	}
	return nil
}
