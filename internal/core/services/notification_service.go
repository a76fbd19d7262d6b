package services

import (
	"context"
	"log/slog"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

// NotificationService lists and acknowledges notifications for the calling user.
type NotificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo portsrepo.NotificationRepositoryFacade, opts ...Option) *NotificationService {
	return &NotificationService{BaseService: newBaseService(opts), notificationRepo: notificationRepo}
}

var _ portssvc.NotificationSvc = (*NotificationService)(nil)

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) ([]domain.Notification, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	notifications, err := s.notificationRepo.ListNotificationsByUser(ctx, userID, params.UnreadOnly, limit)
	if err != nil {
		err = storeErr(err)
		s.LogError(ctx, err, "Failed to list notifications", slog.String("user_id", userID))
		return nil, err
	}
	return notifications, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.notificationRepo.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to mark notification read",
			slog.String("user_id", userID),
			slog.String("notification_id", notificationID))
		return err
	}
	return nil
}

// AuditService exposes the audit log.
type AuditService struct {
	BaseService
	auditRepo portsrepo.AuditReader
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditReader, opts ...Option) *AuditService {
	return &AuditService{BaseService: newBaseService(opts), auditRepo: auditRepo}
}

var _ portssvc.AuditSvc = (*AuditService)(nil)

func (s *AuditService) ListAuditEntries(ctx context.Context, params dto.ListAuditLogsParams) ([]domain.AuditEntry, error) {
	limit := params.Limit
	if limit <= 0 || limit > domain.MaxAuditPage {
		limit = domain.MaxAuditPage
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entries, err := s.auditRepo.ListAuditEntries(ctx, domain.AuditFilter{TargetCustomerID: params.CustomerID, Limit: limit})
	if err != nil {
		err = storeErr(err)
		s.LogError(ctx, err, "Failed to list audit entries")
		return nil, err
	}
	return entries, nil
}
