package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/internal/dto"
	"github.com/noah-isme/schedule-grid-api/internal/middleware"
	"github.com/noah-isme/schedule-grid-api/internal/service"
	appErrors "github.com/noah-isme/schedule-grid-api/pkg/errors"
	"github.com/noah-isme/schedule-grid-api/pkg/response"
)

type gridService interface {
	GetGrid(ctx context.Context, unitID string) (*dto.GridView, error)
	ProposeMove(ctx context.Context, unitID, slotID string, req dto.MoveRequest) (*dto.Proposal, error)
	ConfirmMove(ctx context.Context, unitID, slotID string, req dto.ConfirmMoveRequest) (*dto.WriteResult, error)
	CheckSlot(ctx context.Context, unitID string, req dto.SlotRequest) (*dto.Proposal, error)
	CreateSlot(ctx context.Context, unitID string, req dto.SlotRequest) (*dto.WriteResult, error)
	ReplaceStudents(ctx context.Context, unitID, slotID string, req dto.StudentsRequest) (*dto.WriteResult, error)
	DeactivateSlot(ctx context.Context, unitID, slotID string) error
}

// GridHandler exposes the weekly grid of a unit.
type GridHandler struct {
	service gridService
	logger  *zap.Logger
}

// NewGridHandler constructs the handler.
func NewGridHandler(svc *service.GridService, logger *zap.Logger) *GridHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridHandler{service: svc, logger: logger}
}

// Get godoc
// @Summary Weekly grid of a unit
// @Description Active slots and rooms of the unit together with the grid bounds.
// @Tags Grid
// @Produce json
// @Param unitId path string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /units/{unitId}/grid [get]
func (h *GridHandler) Get(c *gin.Context) {
	view, err := h.service.GetGrid(c.Request.Context(), c.Param("unitId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, view.FromCache)
	response.JSON(c, http.StatusOK, view, middleware.ResponseMeta(c))
}

// Propose godoc
// @Summary Evaluate a move without saving it
// @Description Returns the conflicts of dropping the slot at the given day and start, plus the closest conflict-free alternatives.
// @Tags Grid
// @Accept json
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param slotId path string true "Slot ID"
// @Param payload body dto.MoveRequest true "Target placement"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /units/{unitId}/grid/slots/{slotId}/propose [post]
func (h *GridHandler) Propose(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return
	}
	proposal, err := h.service.ProposeMove(c.Request.Context(), c.Param("unitId"), c.Param("slotId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, middleware.ResponseMeta(c))
}

// Move godoc
// @Summary Confirm a move
// @Description Persists the move unless it has blocking conflicts (409) or unacknowledged warnings (412). The whole grid is reloaded on success.
// @Tags Grid
// @Accept json
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param slotId path string true "Slot ID"
// @Param payload body dto.ConfirmMoveRequest true "Target placement"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /units/{unitId}/grid/slots/{slotId}/move [post]
func (h *GridHandler) Move(c *gin.Context) {
	var req dto.ConfirmMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid move payload"))
		return
	}
	result, err := h.service.ConfirmMove(c.Request.Context(), c.Param("unitId"), c.Param("slotId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("grid move confirmed", append(actorFields(c), zap.String("slot_id", result.Slot.ID))...)
	response.JSON(c, http.StatusOK, result, middleware.ResponseMeta(c))
}

// Check godoc
// @Summary Check an unsaved slot
// @Tags Grid
// @Accept json
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param payload body dto.SlotRequest true "Slot"
// @Success 200 {object} response.Envelope
// @Router /units/{unitId}/grid/check [post]
func (h *GridHandler) Check(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	proposal, err := h.service.CheckSlot(c.Request.Context(), c.Param("unitId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proposal, middleware.ResponseMeta(c))
}

// Create godoc
// @Summary Create a slot
// @Tags Grid
// @Accept json
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param payload body dto.SlotRequest true "Slot"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /units/{unitId}/grid/slots [post]
func (h *GridHandler) Create(c *gin.Context) {
	var req dto.SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	result, err := h.service.CreateSlot(c.Request.Context(), c.Param("unitId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("grid slot created", append(actorFields(c), zap.String("slot_id", result.Slot.ID))...)
	response.Created(c, result)
}

// Students godoc
// @Summary Replace the students of a slot
// @Tags Grid
// @Accept json
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param slotId path string true "Slot ID"
// @Param payload body dto.StudentsRequest true "Students"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /units/{unitId}/grid/slots/{slotId}/students [put]
func (h *GridHandler) Students(c *gin.Context) {
	var req dto.StudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid students payload"))
		return
	}
	result, err := h.service.ReplaceStudents(c.Request.Context(), c.Param("unitId"), c.Param("slotId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, middleware.ResponseMeta(c))
}

// Delete godoc
// @Summary Deactivate a slot
// @Tags Grid
// @Param unitId path string true "Unit ID"
// @Param slotId path string true "Slot ID"
// @Success 204
// @Router /units/{unitId}/grid/slots/{slotId} [delete]
func (h *GridHandler) Delete(c *gin.Context) {
	if err := h.service.DeactivateSlot(c.Request.Context(), c.Param("unitId"), c.Param("slotId")); err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("grid slot deactivated", append(actorFields(c), zap.String("slot_id", c.Param("slotId")))...)
	response.NoContent(c)
}
