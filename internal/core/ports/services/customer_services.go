package services

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

// AccountSvc serves the authenticated customer's own account.
type AccountSvc interface {
	GetMyAccount(ctx context.Context, userID string) (*domain.CustomerDetails, error)
	ListMyTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
	GetMyTransaction(ctx context.Context, userID string, reference string) (*domain.Transaction, error)
	OpenAccount(ctx context.Context, userID string, req dto.OpenAccountRequest) (*domain.CustomerDetails, error)
	// CheckAccess returns an apperrors.AccessDeniedError when the caller may not use the API.
	CheckAccess(ctx context.Context, userID string) error
}

// CustomerReaderSvc defines admin read operations on customers
type CustomerReaderSvc interface {
	ListCustomers(ctx context.Context, params dto.ListCustomersParams) ([]domain.CustomerDetails, *string, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.CustomerDetails, error)
}

// CustomerStatusSvc drives the account status state machine and permission toggles
type CustomerStatusSvc interface {
	ChangeStatus(ctx context.Context, customerID string, status domain.AccountStatus, adminID string) (*domain.Customer, error)
	SetTransferPermission(ctx context.Context, customerID string, enabled bool, adminID string) (*domain.Customer, error)
	SetLoginPermission(ctx context.Context, customerID string, enabled bool, adminID string) (*domain.Customer, error)
}

// CustomerProvisionSvc opens accounts on behalf of users
type CustomerProvisionSvc interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, adminID string) (*domain.CustomerDetails, error)
}

// CustomerAdminSvcFacade combines all customer administration interfaces
type CustomerAdminSvcFacade interface {
	CustomerReaderSvc
	CustomerStatusSvc
	CustomerProvisionSvc
}
