package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/service"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/response"
)

// AuthHandler exposes the demo login surface.
type AuthHandler struct {
	sessions *service.SessionService
	metrics  *service.MetricsService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(sessions *service.SessionService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{sessions: sessions, metrics: metrics}
}

// Login godoc
// @Summary Start a demo session for a role
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordLogin(req.Role)
	response.JSON(c, http.StatusOK, result)
}

// Session godoc
// @Summary Return the current persisted session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.sessions.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Logout godoc
// @Summary End the session without touching application data
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
