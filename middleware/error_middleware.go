package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wandero/wanderobackend/httperr"
)

// ErrorRenderer turns errors recorded on the context into the one JSON
// envelope the API speaks: {"status": "fail"|"error", "message": ...}.
// Handlers never write error bodies themselves, they record the error and
// abort. Server-side failures are logged here with their internals; the
// response only ever carries the public message.
func ErrorRenderer(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, msg := httperr.Resolve(err)

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request.Context(), "request failed",
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", RequestIDFrom(c),
			)
		}

		c.JSON(status, gin.H{
			"status":  httperr.StatusLabel(status),
			"message": msg,
		})
	}
}

// Recovered is wired into gin's CustomRecovery so even panics answer in
// the envelope format.
func Recovered(logger *slog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, err any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", RequestIDFrom(c),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "something went wrong",
		})
	}
}
