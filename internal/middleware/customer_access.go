package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
)

// AccessChecker decides whether an authenticated user may use the customer API.
type AccessChecker interface {
	CheckAccess(ctx context.Context, userID string) error
}

// RequireCustomerAccess rejects callers whose account was blocked or whose login was
// disabled after their token was issued. Must run after AuthMiddleware.
func RequireCustomerAccess(checker AccessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			logger.Error("User ID not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		err := checker.CheckAccess(c.Request.Context(), userID)
		if err == nil {
			c.Next()
			return
		}
		if reason, denied := apperrors.AccessDeniedReason(err); denied {
			logger.Warn("Customer access denied", slog.String("reason", reason))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperrors.ErrAccessDenied.Error(), "reason": reason})
			return
		}
		logger.Error("Customer access check failed", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable. Please retry."})
	}
}
