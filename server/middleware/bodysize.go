package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimit restricts request bodies to maxBytes. Reads past the limit
// fail, which surfaces as a bind error in the handler.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
