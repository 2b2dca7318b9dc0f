package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/schoolkit/planner-api/pkg/errors"
	"github.com/schoolkit/planner-api/pkg/response"
)

type subjectService interface {
	List() []string
	Register(ctx context.Context, name string) (added, persisted bool, err error)
}

// SubjectHandler handles subject list endpoints.
type SubjectHandler struct {
	service subjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary Current subject list
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	subjects := h.service.List()
	response.JSON(c, http.StatusOK, subjects, map[string]interface{}{"count": len(subjects)})
}

type registerSubjectRequest struct {
	Name string `json:"name"`
}

// Register godoc
// @Summary Register a new subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body registerSubjectRequest true "Subject name"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Register(c *gin.Context) {
	var req registerSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	added, persisted, err := h.service.Register(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"added": added, "persisted": persisted}
	if !added {
		response.JSON(c, http.StatusOK, h.service.List(), meta)
		return
	}
	response.Created(c, h.service.List(), meta)
}
