package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is relative to the owning account.
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// TransactionStatus of a ledger entry. Only pending entries can be settled.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusRejected  TransactionStatus = "rejected"
)

// TransferType is the customer-chosen kind of transfer.
type TransferType string

const (
	TransferDomestic      TransferType = "domestic"
	TransferInternational TransferType = "international"
)

// Classification decides how a transfer is applied.
type Classification string

const (
	// Internal transfers move both balances and complete immediately.
	Internal Classification = "internal"
	// External transfers debit the sender only and wait for settlement.
	External Classification = "external"
)

// InternationalRecipient is free-text banking detail captured for international transfers.
type InternationalRecipient struct {
	Name          string  `json:"name"`
	AccountNumber string  `json:"accountNumber"` // account number or IBAN
	SwiftCode     string  `json:"swiftCode"`
	BankName      string  `json:"bankName"`
	RoutingNumber *string `json:"routingNumber,omitempty"`
	BankAddress   *string `json:"bankAddress,omitempty"`
	Country       string  `json:"country"`
}

// Transaction is a ledger entry owned by exactly one customer account.
type Transaction struct {
	TransactionID    string                  `json:"transactionID"`
	CustomerID       string                  `json:"customerID"`
	Type             TransactionType         `json:"type"`
	Amount           decimal.Decimal         `json:"amount"`
	Description      string                  `json:"description"`
	RecipientName    *string                 `json:"recipientName,omitempty"`
	RecipientAccount *string                 `json:"recipientAccount,omitempty"`
	SenderName       *string                 `json:"senderName,omitempty"`
	SenderAccount    *string                 `json:"senderAccount,omitempty"`
	Reference        string                  `json:"reference"`
	Status           TransactionStatus       `json:"status"`
	TransferType     *TransferType           `json:"transferType,omitempty"`
	International    *InternationalRecipient `json:"international,omitempty"`
	IdempotencyKey   *string                 `json:"-"`
	SettledAt        *time.Time              `json:"settledAt,omitempty"`
	SettledBy        *string                 `json:"settledBy,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// IsPending reports whether the transaction still awaits settlement.
func (t Transaction) IsPending() bool {
	return t.Status == TxStatusPending
}

// CounterpartyName returns the recipient for debits and the sender for credits.
func (t Transaction) CounterpartyName() string {
	name := t.SenderName
	if t.Type == Debit {
		name = t.RecipientName
	}
	if name == nil {
		return ""
	}
	return *name
}

// PendingTransfer is a pending transaction joined with its sender, as shown in the settlement queue.
type PendingTransfer struct {
	Transaction
	SenderCustomerName string `json:"senderCustomerName"`
	SenderAccountNo    string `json:"senderAccountNumber"`
}

// IsSWIFTCode reports whether code has the shape of a SWIFT/BIC code:
// 4 letter bank code, 2 letter country, 2 character location, optional 3 character branch.
func IsSWIFTCode(code string) bool {
	if len(code) != 8 && len(code) != 11 {
		return false
	}
	for i, r := range code {
		isLetter := r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		if i < 6 && !isLetter {
			return false
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}

// Validate checks that the required free-text fields are present.
// The details are not verified against any bank directory.
func (r InternationalRecipient) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("recipient name is required")
	case strings.TrimSpace(r.AccountNumber) == "":
		return errors.New("recipient account number or IBAN is required")
	case !IsSWIFTCode(strings.TrimSpace(r.SwiftCode)):
		return errors.New("a valid SWIFT/BIC code is required")
	case strings.TrimSpace(r.BankName) == "":
		return errors.New("bank name is required")
	case strings.TrimSpace(r.Country) == "":
		return errors.New("country is required")
	}
	return nil
}
