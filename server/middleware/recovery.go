package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/logger"
)

// Recovery turns a handler panic into a 500 with the standard error body.
// The stack goes to the log, never to the client.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err := apperrors.Internal(fmt.Errorf("panic: %v", rec))
			log.WithContext(c.Request.Context()).WithError(err).Error("handler panicked", logger.Fields(
				"stack", string(debug.Stack()),
				"route", c.FullPath(),
				"method", c.Request.Method,
			))
			c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
		}()
		c.Next()
	}
}
