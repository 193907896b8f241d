package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/dispatch"
	"github.com/eduerp-dev/eduerp-api/internal/models"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/response"
)

// NavigationHandler exposes the module state machine.
type NavigationHandler struct {
	dispatcher *dispatch.Dispatcher
}

// NewNavigationHandler constructs NavigationHandler.
func NewNavigationHandler(dispatcher *dispatch.Dispatcher) *NavigationHandler {
	return &NavigationHandler{dispatcher: dispatcher}
}

type activateRequest struct {
	Module string `json:"module" binding:"required"`
}

// List godoc
// @Summary List the caller's modules with the active one marked
// @Tags Navigation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /navigation [get]
func (h *NavigationHandler) List(c *gin.Context) {
	nav, err := h.dispatcher.Navigation(roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nav)
}

// Activate godoc
// @Summary Activate a module and load its view payload
// @Tags Navigation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body activateRequest true "Module to activate"
// @Success 200 {object} response.Envelope
// @Router /navigation/activate [post]
func (h *NavigationHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	view, err := h.dispatcher.Activate(c.Request.Context(), roleFromContext(c), models.Module(req.Module))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
