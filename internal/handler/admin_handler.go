package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/service"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/response"
)

// maxUploadBytes bounds bulk-import and restore payloads.
const maxUploadBytes = 8 << 20

// AdminHandler exposes bulk import, backup, restore, and factory reset.
type AdminHandler struct {
	imports *service.ImportService
	backups *service.BackupService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(imports *service.ImportService, backups *service.BackupService) *AdminHandler {
	return &AdminHandler{imports: imports, backups: backups}
}

// ImportUsers godoc
// @Summary Bulk import users from CSV
// @Description Header must name at least name, email, and type; bad rows are counted, not fatal.
// @Tags Admin
// @Accept text/csv
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/import/users [post]
func (h *AdminHandler) ImportUsers(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	result, err := h.imports.ImportUsers(c.Request.Context(), roleFromContext(c), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ExportUsers godoc
// @Summary Export both rosters as CSV in the import column layout
// @Tags Admin
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /admin/export/users [get]
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	data, err := h.imports.ExportUsers(roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=users.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// CreateBackup godoc
// @Summary Queue a backup bundle export
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Router /admin/backups [post]
func (h *AdminHandler) CreateBackup(c *gin.Context) {
	artifact, err := h.backups.CreateBackup(roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, artifact)
}

// BackupStatus godoc
// @Summary Poll a backup job
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /admin/backups/{id} [get]
func (h *AdminHandler) BackupStatus(c *gin.Context) {
	artifact, err := h.backups.Status(roleFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artifact)
}

// DownloadBackup godoc
// @Summary Download a finished backup bundle by signed token
// @Tags Admin
// @Produce application/json
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /admin/backups/download [get]
func (h *AdminHandler) DownloadBackup(c *gin.Context) {
	data, fileName, err := h.backups.Download(c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/json", data)
}

// Restore godoc
// @Summary Replace all collections from a backup bundle
// @Description Collections absent from the bundle become empty. A malformed file fails whole.
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Success 204
// @Router /admin/restore [post]
func (h *AdminHandler) Restore(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unreadable request body"))
		return
	}
	if err := h.backups.Restore(c.Request.Context(), roleFromContext(c), raw); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// FactoryReset godoc
// @Summary Erase every persisted document, session included
// @Tags Admin
// @Security BearerAuth
// @Success 204
// @Router /admin/factory-reset [post]
func (h *AdminHandler) FactoryReset(c *gin.Context) {
	if err := h.backups.FactoryReset(c.Request.Context(), roleFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
