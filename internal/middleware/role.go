package middleware

import (
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireAdmin allows only admins through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok || role != models.RoleAdmin {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminOrManager allows admins and managers through.
func RequireAdminOrManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok || !role.IsPrivileged() {
			apierrors.Forbidden(c, "Admin or Manager access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
