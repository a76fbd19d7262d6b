package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferPosting is everything a store applies atomically for one transfer:
// the sender debit, the recipient credit (internal only), the transaction row,
// the idempotency record and the outbox events.
type TransferPosting struct {
	Transaction    Transaction
	SenderID       string
	RecipientID    string // empty for external transfers
	Classification Classification
	Idempotency    *IdempotencyRecord
	Events         []OutboxMessage
}

// AppliedTransfer is the store's answer to a TransferPosting.
// Replayed is true when the idempotency key matched an earlier transfer, in which
// case Transaction is that earlier transaction and nothing new was applied.
type AppliedTransfer struct {
	Transaction    Transaction
	Classification Classification
	SenderBalance  decimal.Decimal
	Replayed       bool
}

// IdempotencyRecord ties a client key to the transaction created for it.
type IdempotencyRecord struct {
	CustomerID     string
	Key            string
	RequestHash    string
	TransactionID  string
	Classification Classification
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// SettlementAction is the administrator's decision on a pending transfer.
type SettlementAction string

const (
	SettlementApprove SettlementAction = "approve"
	SettlementReject  SettlementAction = "reject"
)

// ResultingStatus is the status a pending transaction takes after the action.
func (a SettlementAction) ResultingStatus() TransactionStatus {
	if a == SettlementReject {
		return TxStatusRejected
	}
	return TxStatusCompleted
}

// Settlement resolves a pending transaction. On reject the owning customer is
// refunded the stored amount in the same store transaction.
type Settlement struct {
	TransactionID string
	Action        SettlementAction
	AdminID       string
	At            time.Time
	Audit         AuditEntry
	Notification  *Notification
	Events        []OutboxMessage
}

// FundingPosting credits a customer out of band.
type FundingPosting struct {
	CustomerID   string
	Transaction  Transaction
	Audit        AuditEntry
	Notification Notification
	Events       []OutboxMessage
}

// TransactionEdit overwrites amount and created_at of an existing transaction.
type TransactionEdit struct {
	TransactionID string
	Amount        decimal.Decimal
	CreatedAt     time.Time
	Audit         AuditEntry
}
