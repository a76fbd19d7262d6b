package repositories

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// NotificationRepositoryFacade defines access to user notifications
type NotificationRepositoryFacade interface {
	ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)

	// MarkNotificationRead returns apperrors.ErrNotFound when the notification does not belong to userID.
	MarkNotificationRead(ctx context.Context, userID string, notificationID string) error
}
