package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolkit/planner-api/internal/models"
	appErrors "github.com/schoolkit/planner-api/pkg/errors"
	"github.com/schoolkit/planner-api/pkg/response"
)

type timetableService interface {
	Get() models.Timetable
	SetCell(day string, period int, value string) error
	Replace(ctx context.Context, grid models.Timetable) bool
	Save(ctx context.Context) bool
	Reset(ctx context.Context) bool
	Import(ctx context.Context, raw []byte) (bool, error)
	Export() ([]byte, error)
}

// TimetableHandler handles timetable grid endpoints.
type TimetableHandler struct {
	service        timetableService
	exportFilename string
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc timetableService, exportFilename string) *TimetableHandler {
	if exportFilename == "" {
		exportFilename = "timetable.json"
	}
	return &TimetableHandler{service: svc, exportFilename: exportFilename}
}

// Get godoc
// @Summary Current timetable grid
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Get())
}

// Save godoc
// @Summary Replace and persist the full grid
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body models.Timetable true "Grid keyed by weekday"
// @Success 200 {object} response.Envelope
// @Router /timetable [put]
func (h *TimetableHandler) Save(c *gin.Context) {
	var grid models.Timetable
	if err := c.ShouldBindJSON(&grid); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	persisted := h.service.Replace(c.Request.Context(), grid)
	response.JSON(c, http.StatusOK, h.service.Get(), map[string]interface{}{"persisted": persisted})
}

type setCellRequest struct {
	Day    string `json:"day"`
	Period int    `json:"period"`
	Value  string `json:"value"`
}

// SetCell godoc
// @Summary Update one slot in the in-memory grid
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body setCellRequest true "Cell position and label"
// @Success 200 {object} response.Envelope
// @Router /timetable/cell [patch]
func (h *TimetableHandler) SetCell(c *gin.Context) {
	var req setCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.SetCell(req.Day, req.Period, req.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Get())
}

// Reset godoc
// @Summary Blank every cell and persist
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/reset [post]
func (h *TimetableHandler) Reset(c *gin.Context) {
	persisted := h.service.Reset(c.Request.Context())
	response.JSON(c, http.StatusOK, h.service.Get(), map[string]interface{}{"persisted": persisted})
}

// Import godoc
// @Summary Replace the grid from an uploaded JSON document
// @Tags Timetable
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/import [post]
func (h *TimetableHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read upload"))
		return
	}
	persisted, err := h.service.Import(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Get(), map[string]interface{}{"persisted": persisted})
}

// Export godoc
// @Summary Download the grid as re-importable JSON
// @Tags Timetable
// @Produce json
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	data, err := h.service.Export()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportFilename))
	c.Data(http.StatusOK, "application/json", data)
}
