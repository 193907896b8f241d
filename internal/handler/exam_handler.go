package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/service"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/response"
)

// ExamHandler exposes the examination schedule.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// List godoc
// @Summary List examinations
// @Tags Examinations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /examinations [get]
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.exams.List(roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams)
}

// Upsert godoc
// @Summary Schedule or reschedule an examination
// @Tags Examinations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.UpsertExamRequest true "Examination payload"
// @Success 200 {object} response.Envelope
// @Router /examinations [put]
func (h *ExamHandler) Upsert(c *gin.Context) {
	var req service.UpsertExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	exam, err := h.exams.Upsert(c.Request.Context(), roleFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam)
}

// Remove godoc
// @Summary Delete an examination; an absent id is a no-op
// @Tags Examinations
// @Security BearerAuth
// @Param id path int true "Examination ID"
// @Success 204
// @Router /examinations/{id} [delete]
func (h *ExamHandler) Remove(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid examination id"))
		return
	}
	if err := h.exams.Remove(c.Request.Context(), roleFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
