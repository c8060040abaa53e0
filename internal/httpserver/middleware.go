package httpserver

import (
	"net/http"
	"strings"

	"storefront/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	shopperIDKey = "shopperID"
	roleKey      = "role"
)

// authMiddleware resolves the current principal from a bearer token. Cart and
// checkout operations require a non-empty shopper id.
func authMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization header"})
			return
		}

		claims, err := auth.ParseToken(secret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(shopperIDKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

func shopperID(c *gin.Context) string {
	return c.GetString(shopperIDKey)
}
