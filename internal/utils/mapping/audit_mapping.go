package mapping

import (
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/models"
)

// ToModelAuditLog converts a domain AuditEntry to a model AuditLog
func ToModelAuditLog(d domain.AuditEntry) models.AuditLog {
	return models.AuditLog{
		AuditID:          d.AuditID,
		AdminID:          d.AdminID,
		Action:           string(d.Action),
		TargetCustomerID: d.TargetCustomerID,
		Details:          d.Details,
		CreatedAt:        d.CreatedAt,
	}
}

// ToDomainAuditEntrySlice converts audit rows to domain entries
func ToDomainAuditEntrySlice(ms []models.AuditLog) []domain.AuditEntry {
	ds := make([]domain.AuditEntry, len(ms))
	for i, m := range ms {
		ds[i] = domain.AuditEntry{
			AuditID:          m.AuditID,
			AdminID:          m.AdminID,
			Action:           domain.AuditAction(m.Action),
			TargetCustomerID: m.TargetCustomerID,
			Details:          m.Details,
			CreatedAt:        m.CreatedAt,
		}
	}
	return ds
}

// ToDomainNotificationSlice converts notification rows
func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = domain.Notification(m)
	}
	return ds
}

// ToModelNotification converts a domain Notification to a model Notification
func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification(d)
}

// ToDomainCardRequest converts a model CardRequest to a domain CardRequest
func ToDomainCardRequest(m models.CardRequest) domain.CardRequest {
	return domain.CardRequest{
		RequestID:   m.RequestID,
		CustomerID:  m.CustomerID,
		CardType:    domain.CardType(m.CardType),
		Status:      domain.CardRequestStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
		ProcessedBy: m.ProcessedBy,
	}
}

// ToDomainCardRequestSlice converts card request rows
func ToDomainCardRequestSlice(ms []models.CardRequest) []domain.CardRequest {
	ds := make([]domain.CardRequest, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCardRequest(m)
	}
	return ds
}

// ToDomainOutboxMessageSlice converts claimed outbox rows
func ToDomainOutboxMessageSlice(ms []models.OutboxEvent) []domain.OutboxMessage {
	ds := make([]domain.OutboxMessage, len(ms))
	for i, m := range ms {
		ds[i] = domain.OutboxMessage(m)
	}
	return ds
}
