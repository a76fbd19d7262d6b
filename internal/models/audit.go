package models

import "time"

// AuditLog is a row of the append-only audit_logs table.
type AuditLog struct {
	AuditID          string    `db:"id"`
	AdminID          *string   `db:"admin_id"` // Nullable for system actions
	Action           string    `db:"action"`
	TargetCustomerID *string   `db:"target_customer_id"`
	Details          string    `db:"details"`
	CreatedAt        time.Time `db:"created_at"`
}

// Notification is a row of the notifications table.
type Notification struct {
	NotificationID string    `db:"id"`
	UserID         string    `db:"user_id"`
	Title          string    `db:"title"`
	Message        string    `db:"message"`
	Read           bool      `db:"read"`
	CreatedAt      time.Time `db:"created_at"`
}

// CardRequest is a row of the card_requests table.
type CardRequest struct {
	RequestID   string     `db:"id"`
	CustomerID  string     `db:"customer_id"`
	CardType    string     `db:"card_type"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
	ProcessedBy *string    `db:"processed_by"`
}

// OutboxEvent is a row of the event_outbox table.
type OutboxEvent struct {
	ID         int64  `db:"id"`
	Exchange   string `db:"exchange"`
	RoutingKey string `db:"routing_key"`
	Payload    []byte `db:"payload"`
	Attempts   int    `db:"attempts"`
}
