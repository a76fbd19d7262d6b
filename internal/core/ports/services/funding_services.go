package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

// FundingSvcFacade lets administrators inject funds and correct history.
type FundingSvcFacade interface {
	// FundAccount credits the customer and returns the credit transaction and new balance.
	FundAccount(ctx context.Context, customerID string, req dto.FundAccountRequest, adminID string) (*domain.Transaction, decimal.Decimal, error)

	// AddTransactionRecord inserts a completed historical entry. The balance is not touched.
	AddTransactionRecord(ctx context.Context, customerID string, req dto.AddTransactionRequest, adminID string) (*domain.Transaction, error)

	// EditTransaction overwrites amount and created_at. The balance is not touched.
	EditTransaction(ctx context.Context, transactionID string, req dto.EditTransactionRequest, adminID string) (*domain.Transaction, error)

	// EditCustomerProfile overwrites profile fields and the display currency without converting the balance.
	EditCustomerProfile(ctx context.Context, customerID string, req dto.UpdateCustomerProfileRequest, adminID string) (*domain.CustomerDetails, error)
}
