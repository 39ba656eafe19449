package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/cv-helper/cv-helper-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TimingSafeCompare compares two strings in constant time.
func TimingSafeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// TokenAuthMiddleware validates the shared server token. The legacy clients
// send it as a query parameter, so that is where it is read from.
func TokenAuthMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")

		if token == "" || !TimingSafeCompare(token, validToken) {
			logger.Warn("Missing or invalid server token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.String(http.StatusUnauthorized, "Token is missing or not valid.")
			c.Abort()
			return
		}

		c.Next()
	}
}
