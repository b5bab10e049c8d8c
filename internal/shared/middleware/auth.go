package middleware

import (
	"net/http"
	"strings"

	"github.com/Sarthak8822/Finance/internal/shared/token"
	"github.com/gin-gonic/gin"
)

const usernameKey = "username"

// AuthMiddleware rejects any request that does not carry a valid bearer
// token. It runs before business logic, so an unauthenticated request never
// produces side effects. On success the token's subject is stored in the
// request context for handlers.
//
// The gate does not re-fetch account state: a deactivated user holding an
// unexpired token still passes. That staleness window is accepted; tokens
// are stateless and there is no revocation list.
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		subject, err := tokens.Validate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(usernameKey, subject)
		c.Next()
	}
}

// GetUsername returns the authenticated subject set by AuthMiddleware.
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(usernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}
