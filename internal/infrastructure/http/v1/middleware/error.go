package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiosko/internal/core/apperror"
	"kiosko/pkg/logger"
)

// ErrorHandler turns the last error recorded on the context into a JSON body
// {code, message, details}. Causes are logged and never sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}
			details := appErr.Details
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				details = map[string]any{"request_id": c.GetString("request_id")}
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": details,
			})
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    apperror.CodeInternal,
			"message": "Internal server error",
			"details": map[string]any{"request_id": c.GetString("request_id")},
		})
	}
}
