package middlewares

import (
	"net/http"

	"github.com/geocoder89/hrhub/internal/authz"
	"github.com/gin-gonic/gin"
)

// RequireAdmin gates admin-only route groups. Finer-grained checks
// (self vs admin, self-delete) live in the handlers via the guard.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := IdentityFromContext(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing identity context",
			})
			return
		}
		if err := authz.RequireAdmin(caller); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Unauthorized access",
			})
			return
		}
		c.Next()
	}
}
