package domain

import "time"

type CardType string

const (
	CardTypeDebit  CardType = "debit"
	CardTypeCredit CardType = "credit"
)

type CardRequestStatus string

const (
	CardRequestPending  CardRequestStatus = "pending"
	CardRequestApproved CardRequestStatus = "approved"
	CardRequestRejected CardRequestStatus = "rejected"
)

// CardRequest is a customer's application for a payment card.
type CardRequest struct {
	RequestID   string            `json:"requestID"`
	CustomerID  string            `json:"customerID"`
	CardType    CardType          `json:"cardType"`
	Status      CardRequestStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	ProcessedAt *time.Time        `json:"processedAt,omitempty"`
	ProcessedBy *string           `json:"processedBy,omitempty"`
}

// CardDecision resolves a pending card request. The customer's card status,
// the audit entry, the notification and the outbox events are written together with it.
type CardDecision struct {
	RequestID    string
	Status       CardRequestStatus
	AdminID      string
	At           time.Time
	Audit        AuditEntry
	Notification Notification
	Events       []OutboxMessage
}
