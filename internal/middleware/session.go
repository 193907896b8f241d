package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduerp-dev/eduerp-api/internal/models"
	"github.com/eduerp-dev/eduerp-api/internal/service"
	appErrors "github.com/eduerp-dev/eduerp-api/pkg/errors"
	"github.com/eduerp-dev/eduerp-api/pkg/response"
)

// ContextUserKey is the gin context key storing the session claims.
const ContextUserKey = "currentUser"

// Session protects routes by requiring a valid session token.
func Session(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := sessions.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// CurrentRole extracts the caller's role from the gin context. Routes behind
// Session always carry one; elsewhere it returns false.
func CurrentRole(c *gin.Context) (models.UserRole, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return "", false
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return "", false
	}
	return claims.Role, true
}
