package services

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

// NotificationSvc lists and acknowledges a user's notifications.
type NotificationSvc interface {
	ListNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID string, notificationID string) error
}

// AuditSvc exposes the audit log to administrators.
type AuditSvc interface {
	ListAuditEntries(ctx context.Context, params dto.ListAuditLogsParams) ([]domain.AuditEntry, error)
}
