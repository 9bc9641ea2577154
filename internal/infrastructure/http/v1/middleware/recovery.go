// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"kiosko/internal/core/apperror"
	"kiosko/pkg/logger"
)

// Recovery recovers from panics and answers 500. It runs outside ErrorHandler,
// so it writes the response itself. The stack is logged, never returned.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", err)))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    apperror.CodeInternal,
					"message": "Internal server error",
					"details": map[string]any{"request_id": c.GetString("request_id")},
				})
			}
		}()
		c.Next()
	}
}
