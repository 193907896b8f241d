package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/service"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/response"
)

// LibraryHandler exposes the content library.
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler constructs LibraryHandler.
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// List godoc
// @Summary List library books
// @Tags Library
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /library/books [get]
func (h *LibraryHandler) List(c *gin.Context) {
	books, err := h.library.List(roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books)
}

// Upsert godoc
// @Summary Add or update a library book
// @Tags Library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.UpsertBookRequest true "Book payload"
// @Success 200 {object} response.Envelope
// @Router /library/books [put]
func (h *LibraryHandler) Upsert(c *gin.Context) {
	var req service.UpsertBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	book, err := h.library.Upsert(c.Request.Context(), roleFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book)
}

// Remove godoc
// @Summary Delete a library book; an absent id is a no-op
// @Tags Library
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Router /library/books/{id} [delete]
func (h *LibraryHandler) Remove(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book id"))
		return
	}
	if err := h.library.Remove(c.Request.Context(), roleFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
