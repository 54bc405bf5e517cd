package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
)

const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests whose X-API-Key is not one of keys. With no
// keys configured every request is rejected.
func RequireAPIKey(keys []string) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		allowed = append(allowed, []byte(k))
	}
	if len(allowed) == 0 {
		logrus.Warn("RequireAPIKey: no API keys configured, protected routes will refuse all requests")
	}

	return func(c *gin.Context) {
		key := []byte(c.GetHeader(APIKeyHeader))
		if len(key) == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "API key required"})
			return
		}
		for _, k := range allowed {
			if subtle.ConstantTimeCompare(key, k) == 1 {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid API key"})
	}
}
