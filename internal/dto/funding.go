package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// FundAccountRequest credits a customer out of band.
type FundAccountRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=255"`
}

// FundAccountResponse returns the credit transaction and the resulting balance.
type FundAccountResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
}

// AddTransactionRequest inserts a historical transaction record.
// It never changes the customer's balance.
type AddTransactionRequest struct {
	Type                domain.TransactionType `json:"type" binding:"required,oneof=credit debit"`
	Amount              string                 `json:"amount" binding:"required"`
	Description         string                 `json:"description" binding:"max=255"`
	CounterpartyName    string                 `json:"counterpartyName"`
	CounterpartyAccount string                 `json:"counterpartyAccount"`
	CreatedAt           time.Time              `json:"createdAt" binding:"required"`
}

// EditTransactionRequest overwrites the amount and date of a transaction.
type EditTransactionRequest struct {
	Amount    string    `json:"amount" binding:"required"`
	CreatedAt time.Time `json:"createdAt" binding:"required"`
}
