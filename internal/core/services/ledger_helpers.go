package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/utils"
)

// Reference prefixes.
const (
	refPrefixTransfer = "TXN"
	refPrefixFunding  = "FUND"
)

// maxReferenceAttempts bounds regeneration after a store-reported reference collision.
const maxReferenceAttempts = 3

// parseAmount accepts a positive decimal with at most two fractional digits.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidAmount, raw)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, fmt.Errorf("%w: amount has more than two decimal places", apperrors.ErrInvalidAmount)
	}
	return amount, nil
}

// withUniqueReference runs apply with freshly generated references until the
// store accepts one or maxReferenceAttempts is reached.
func withUniqueReference[T any](prefix string, now time.Time, apply func(reference string) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := utils.GenerateReference(prefix, now)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
		}
		out, err := apply(ref)
		if !errors.Is(err, apperrors.ErrReferenceConflict) {
			return out, err
		}
		lastErr = err
	}
	return zero, fmt.Errorf("%w: could not allocate a unique reference: %w", apperrors.ErrStoreOperationFailed, lastErr)
}

func newAuditEntry(adminID string, action domain.AuditAction, customerID string, details string, at time.Time) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:          uuid.NewString(),
		AdminID:          domain.StringPtr(adminID),
		Action:           action,
		TargetCustomerID: domain.StringPtr(customerID),
		Details:          details,
		CreatedAt:        at,
	}
}

func newNotification(userID, title, message string, at time.Time) domain.Notification {
	return domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		CreatedAt:      at,
	}
}

// ledgerEvent builds the outbox message describing a money movement.
func (s *BaseService) ledgerEvent(eventType string, txn domain.Transaction, currency, actorID string, at time.Time) (domain.OutboxMessage, error) {
	payload, err := json.Marshal(domain.LedgerEvent{
		EventType:     eventType,
		TransactionID: txn.TransactionID,
		CustomerID:    txn.CustomerID,
		Reference:     txn.Reference,
		Amount:        txn.Amount.StringFixed(2),
		Currency:      currency,
		Status:        string(txn.Status),
		ActorID:       actorID,
		OccurredAt:    at,
	})
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("%w: encode %s event: %w", apperrors.ErrInternal, eventType, err)
	}
	return domain.OutboxMessage{
		Exchange:   s.settings.EventsExchange,
		RoutingKey: eventType,
		Payload:    payload,
	}, nil
}
