package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PipelineAuthMiddleware guards the machine-to-machine pipeline routes,
// notably the quote cache refresh, by checking the X-API-Key header
// against the configured key. An empty configured key disables the
// pipeline entirely rather than leaving it open.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortPipeline(c, http.StatusServiceUnavailable,
				"PIPELINE_NOT_CONFIGURED", "Pipeline endpoints are not configured")
			return
		}
		presented := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			abortPipeline(c, http.StatusUnauthorized,
				"INVALID_API_KEY", "Invalid or missing API key")
			return
		}
		c.Next()
	}
}

func abortPipeline(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status,
		gin.H{"error": gin.H{"code": code, "message": message}})
}
