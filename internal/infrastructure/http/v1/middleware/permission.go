package middleware

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/core/apperror"
	appctx "kiosko/internal/core/context"
	"kiosko/internal/domain/auth"
)

// RequirePermission lets the request through when the user's role holds permission.
// It must run after Auth.
func RequirePermission(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if !auth.Can(auth.Role(user.Role), permission) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("required_permission", string(permission)).
					WithDetail("role", user.Role),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
