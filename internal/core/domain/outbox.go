package domain

import "time"

// Routing keys of ledger events.
const (
	EventTransferCompleted   = "transfer.completed"
	EventTransferPending     = "transfer.pending"
	EventTransferApproved    = "transfer.approved"
	EventTransferRejected    = "transfer.rejected"
	EventAccountFunded       = "account.funded"
	EventCardRequestResolved = "card_request.resolved"
)

// OutboxMessage is a ledger event persisted in the same store transaction as the
// change it describes, and delivered later by the outbox dispatcher.
type OutboxMessage struct {
	ID         int64
	Exchange   string
	RoutingKey string
	Payload    []byte
	Attempts   int
}

// LedgerEvent is the payload published for money movements.
type LedgerEvent struct {
	EventType     string    `json:"eventType"`
	TransactionID string    `json:"transactionID"`
	CustomerID    string    `json:"customerID"`
	Reference     string    `json:"reference"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency,omitempty"`
	Status        string    `json:"status"`
	ActorID       string    `json:"actorID,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// CardRequestEvent is the payload published when a card request is resolved.
type CardRequestEvent struct {
	EventType  string    `json:"eventType"`
	RequestID  string    `json:"requestID"`
	CustomerID string    `json:"customerID"`
	CardType   string    `json:"cardType"`
	Status     string    `json:"status"`
	ActorID    string    `json:"actorID"`
	OccurredAt time.Time `json:"occurredAt"`
}
