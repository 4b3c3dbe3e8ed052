package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/geocoder89/hrhub/internal/auth"
	"github.com/geocoder89/hrhub/internal/authz"
	"github.com/geocoder89/hrhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt  TokenVerifier
	prom *observability.Prom
}

func NewAuthMiddleware(jwt TokenVerifier, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, prom: prom}
}

func (m *AuthMiddleware) authFailure(reason string) {
	if m.prom != nil {
		m.prom.AuthFailuresTotal.WithLabelValues(reason).Inc()
	}
}

// RequireAuth verifies the bearer token and stashes the decoded
// identity on the request context. Expired and invalid tokens both
// yield 401 but with distinguishable messages.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.authFailure("missing_token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or invalid Authorization header",
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			m.authFailure("missing_token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or invalid access token",
			})
			return
		}

		claims, err := m.jwt.VerifyToken(raw)
		if err != nil {
			message := "Invalid token"
			reason := "invalid_token"

			if errors.Is(err, auth.ErrTokenExpired) {
				message = "Token has expired"
				reason = "expired_token"
			}

			m.authFailure(reason)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": message,
			})
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// IdentityFromContext bundles the stashed claims into the explicit
// identity value the authorization guard works with.
func IdentityFromContext(c *gin.Context) (authz.Identity, bool) {
	id, okID := UserIDFromContext(c)
	role, okRole := RoleFromContext(c)

	if !okID || !okRole || id == "" {
		return authz.Identity{}, false
	}

	return authz.Identity{UserID: id, Role: role}, true
}
