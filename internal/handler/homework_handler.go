package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolkit/planner-api/internal/models"
	"github.com/schoolkit/planner-api/internal/service"
	appErrors "github.com/schoolkit/planner-api/pkg/errors"
	"github.com/schoolkit/planner-api/pkg/export"
	"github.com/schoolkit/planner-api/pkg/response"
)

type homeworkService interface {
	Add(ctx context.Context, req service.AddHomeworkRequest) (service.MutationResult, error)
	SetStatus(ctx context.Context, id int64, status models.Status) (service.MutationResult, error)
	MarkDone(ctx context.Context, id int64) (service.MutationResult, error)
	Delete(ctx context.Context, id int64) service.MutationResult
	Query(filter models.HomeworkFilter) []models.HomeworkView
	Upcoming(filter models.HomeworkFilter) []models.HomeworkView
	UpcomingCutoff() int
}

type homeworkExporter interface {
	HomeworkList(filter models.HomeworkFilter, format string, encoding export.Encoding) (*service.ExportFile, error)
}

// HomeworkHandler handles homework endpoints.
type HomeworkHandler struct {
	service  homeworkService
	exporter homeworkExporter
}

// NewHomeworkHandler constructs a homework handler.
func NewHomeworkHandler(svc homeworkService, exporter homeworkExporter) *HomeworkHandler {
	return &HomeworkHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List homework with derived days-until-due
// @Tags Homework
// @Produce json
// @Param status query string false "Status label or all"
// @Param q query string false "Keyword over subject and content"
// @Param sort query string false "due_asc, due_desc or created_desc"
// @Success 200 {object} response.Envelope
// @Router /homework [get]
func (h *HomeworkHandler) List(c *gin.Context) {
	filter := filterFromQuery(c)
	views := h.service.Query(filter)

	upcoming := 0
	for _, v := range views {
		if v.DaysUntilDue <= h.service.UpcomingCutoff() {
			upcoming++
		}
	}
	response.JSON(c, http.StatusOK, views, map[string]interface{}{
		"count":    len(views),
		"upcoming": upcoming,
	})
}

// Upcoming godoc
// @Summary List homework due within the highlight window
// @Tags Homework
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /homework/upcoming [get]
func (h *HomeworkHandler) Upcoming(c *gin.Context) {
	views := h.service.Upcoming(filterFromQuery(c))
	response.JSON(c, http.StatusOK, views, map[string]interface{}{
		"count":       len(views),
		"cutoff_days": h.service.UpcomingCutoff(),
	})
}

// Add godoc
// @Summary Register a homework
// @Tags Homework
// @Accept json
// @Produce json
// @Param payload body service.AddHomeworkRequest true "Homework payload"
// @Success 201 {object} response.Envelope
// @Router /homework [post]
func (h *HomeworkHandler) Add(c *gin.Context) {
	var req service.AddHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result.Record, map[string]interface{}{"persisted": result.Persisted})
}

type setStatusRequest struct {
	Status models.Status `json:"status"`
}

// SetStatus godoc
// @Summary Change the status of a homework
// @Tags Homework
// @Accept json
// @Produce json
// @Param id path int true "Homework ID"
// @Param payload body setStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /homework/{id}/status [patch]
func (h *HomeworkHandler) SetStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Record, mutationMeta(result))
}

// MarkDone godoc
// @Summary Mark a homework as done
// @Tags Homework
// @Produce json
// @Param id path int true "Homework ID"
// @Success 200 {object} response.Envelope
// @Router /homework/{id}/done [post]
func (h *HomeworkHandler) MarkDone(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.MarkDone(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Record, mutationMeta(result))
}

// Delete godoc
// @Summary Delete a homework
// @Tags Homework
// @Produce json
// @Param id path int true "Homework ID"
// @Success 200 {object} response.Envelope
// @Router /homework/{id} [delete]
func (h *HomeworkHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result := h.service.Delete(c.Request.Context(), id)
	response.JSON(c, http.StatusOK, nil, mutationMeta(result))
}

// Export godoc
// @Summary Download the filtered homework list
// @Tags Homework
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Param encoding query string false "utf8bom or sjis (csv only)"
// @Success 200 {file} file
// @Router /homework/export [get]
func (h *HomeworkHandler) Export(c *gin.Context) {
	file, err := h.exporter.HomeworkList(
		filterFromQuery(c),
		c.DefaultQuery("format", service.FormatCSV),
		export.Encoding(c.Query("encoding")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func filterFromQuery(c *gin.Context) models.HomeworkFilter {
	return models.HomeworkFilter{
		Status:  c.DefaultQuery("status", "all"),
		Keyword: strings.TrimSpace(c.Query("q")),
		Sort:    c.DefaultQuery("sort", models.SortDueAsc),
	}
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "homework id must be an integer")
	}
	return id, nil
}

func mutationMeta(result service.MutationResult) map[string]interface{} {
	return map[string]interface{}{
		"found":     result.Found,
		"persisted": result.Persisted,
	}
}
