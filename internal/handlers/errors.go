package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/slada12/secure-blu-vault/internal/middleware"
)

// statusFor maps a service error to its HTTP status. The second result is false
// for server-side failures whose message must not reach the client.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest, true
	case errors.Is(err, apperrors.ErrTransferForbidden),
		errors.Is(err, apperrors.ErrAccessDenied),
		errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadySettled),
		errors.Is(err, apperrors.ErrIdempotencyMismatch):
		return http.StatusConflict, true
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, apperrors.ErrStoreOperationFailed):
		return http.StatusServiceUnavailable, false
	}
	return http.StatusInternalServerError, false
}

// respondError writes the error reply for a failed service call.
// fallback is shown instead of err for server-side failures.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, expose := statusFor(err)

	body := dto.ErrorResponse{Error: fallback}
	if expose {
		body.Error = err.Error()
		if reason, ok := apperrors.ForbiddenReason(err); ok {
			body.Error = apperrors.ErrTransferForbidden.Error()
			body.Reason = reason
		} else if reason, ok := apperrors.AccessDeniedReason(err); ok {
			body.Error = apperrors.ErrAccessDenied.Error()
			body.Reason = reason
		}
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	} else {
		if status == http.StatusServiceUnavailable {
			body.Error = "Service temporarily unavailable, nothing was applied. Please retry."
		}
		logger.Error(fallback, slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, body)
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// callerID returns the authenticated user, writing a 401 when it is missing.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
