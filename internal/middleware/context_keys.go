package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// Using a custom type prevents collisions.
type contextKey string

const (
	userIDKey    = contextKey("userID")
	roleKey      = contextKey("role")
	loggerCtxKey = contextKey("logger")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRoleFromContext retrieves the authenticated user's role.
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	role, ok := c.Request.Context().Value(roleKey).(domain.Role)
	return role, ok
}

// WithIdentity returns a context carrying the user ID and role, as the auth middleware stores them.
func WithIdentity(ctx context.Context, userID string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
