package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
// International recipient details are stored in the intl_* columns.
type Transaction struct {
	TransactionID    string          `db:"id"`
	CustomerID       string          `db:"customer_id"`
	Type             string          `db:"type"`
	Amount           decimal.Decimal `db:"amount"`
	Description      string          `db:"description"`
	RecipientName    *string         `db:"recipient_name"`
	RecipientAccount *string         `db:"recipient_account"`
	SenderName       *string         `db:"sender_name"`
	SenderAccount    *string         `db:"sender_account"`
	Reference        string          `db:"reference"`
	Status           string          `db:"status"`
	TransferType     *string         `db:"transfer_type"`
	IntlSwiftCode    *string         `db:"intl_swift_code"`
	IntlBankName     *string         `db:"intl_bank_name"`
	IntlRoutingNo    *string         `db:"intl_routing_number"`
	IntlBankAddress  *string         `db:"intl_bank_address"`
	IntlCountry      *string         `db:"intl_country"`
	IdempotencyKey   *string         `db:"idempotency_key"`
	SettledAt        *time.Time      `db:"settled_at"`
	SettledBy        *string         `db:"settled_by"`
	CreatedAt        time.Time       `db:"created_at"`
}

// PendingTransfer is a pending transaction joined with its sender.
type PendingTransfer struct {
	Transaction
	SenderCustomerName string `db:"sender_customer_name"`
	SenderAccountNo    string `db:"sender_account_number"`
}

// IdempotencyKey is a row of the idempotency_keys table.
type IdempotencyKey struct {
	CustomerID     string    `db:"customer_id"`
	Key            string    `db:"key"`
	RequestHash    string    `db:"request_hash"`
	TransactionID  string    `db:"transaction_id"`
	Classification string    `db:"classification"`
	CreatedAt      time.Time `db:"created_at"`
	ExpiresAt      time.Time `db:"expires_at"`
}
