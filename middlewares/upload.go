package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadLimit caps the request body of upload endpoints at maxMB megabytes.
func UploadLimit(maxMB int64) gin.HandlerFunc {
	limit := maxMB << 20
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"status":  false,
				"message": "file too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
