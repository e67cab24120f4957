package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-grid-api/internal/service"
	"github.com/noah-isme/schedule-grid-api/pkg/response"
)

type gridExporter interface {
	Export(ctx context.Context, unitID, format string) (*service.ExportResult, error)
}

// ExportHandler streams rendered grids.
type ExportHandler struct {
	service gridExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Download the weekly grid
// @Tags Grid
// @Produce octet-stream
// @Param unitId path string true "Unit ID"
// @Param format query string false "csv, pdf, xlsx, ics or png" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /units/{unitId}/grid/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	result, err := h.service.Export(c.Request.Context(), c.Param("unitId"), c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, result.ContentType, result.Filename, result.Payload)
}
