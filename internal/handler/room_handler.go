package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-grid-api/internal/dto"
	"github.com/noah-isme/schedule-grid-api/internal/models"
	"github.com/noah-isme/schedule-grid-api/internal/service"
	appErrors "github.com/noah-isme/schedule-grid-api/pkg/errors"
	"github.com/noah-isme/schedule-grid-api/pkg/response"
)

type roomService interface {
	List(ctx context.Context, unitID string) ([]models.Room, error)
	Create(ctx context.Context, unitID string, req dto.RoomRequest) (*models.Room, error)
}

// RoomHandler exposes the room catalogue of a unit.
type RoomHandler struct {
	service roomService
}

// NewRoomHandler constructs the handler.
func NewRoomHandler(svc *service.RoomService) *RoomHandler {
	return &RoomHandler{service: svc}
}

// List godoc
// @Summary List rooms of a unit
// @Tags Rooms
// @Produce json
// @Param unitId path string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /units/{unitId}/rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.service.List(c.Request.Context(), c.Param("unitId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, map[string]interface{}{"count": len(rooms)})
}

// Create godoc
// @Summary Create a room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param payload body dto.RoomRequest true "Room"
// @Success 201 {object} response.Envelope
// @Router /units/{unitId}/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req dto.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.service.Create(c.Request.Context(), c.Param("unitId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}
