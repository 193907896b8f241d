package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/middleware"
	"github.com/eduerp-dev/eduerp-api/internal/models"
)

func roleFromContext(c *gin.Context) models.UserRole {
	role, ok := middleware.CurrentRole(c)
	if !ok {
		return ""
	}
	return role
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
