package repositories

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// CustomerReader defines read operations for customer accounts
type CustomerReader interface {
	// FindCustomerByID retrieves a customer by its identifier.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindCustomerByUserID retrieves the customer linked to an authenticated user.
	FindCustomerByUserID(ctx context.Context, userID string) (*domain.Customer, error)

	// FindCustomerByAccountNumber retrieves a customer by exact account number.
	FindCustomerByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error)

	// FindCustomerDetails retrieves a customer joined with its profile.
	FindCustomerDetails(ctx context.Context, customerID string) (*domain.CustomerDetails, error)

	// ListCustomers returns a page of customers, newest first, and the token for the next page.
	ListCustomers(ctx context.Context, params domain.PageParams) ([]domain.CustomerDetails, *string, error)
}

// RecipientFinder supports the recipient resolver.
type RecipientFinder interface {
	// SearchByAccountNumber matches account numbers containing fragment.
	SearchByAccountNumber(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error)

	// SearchByName matches profile names containing fragment, case-insensitively.
	SearchByName(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error)
}

// CustomerWriter defines admin mutations of customer accounts.
// Each method writes the audit entry in the same store transaction as the change.
type CustomerWriter interface {
	// ProvisionCustomer inserts the profile and the customer in one transaction.
	// The account number comes from the store's sequence. ErrDuplicate when the user already has an account.
	ProvisionCustomer(ctx context.Context, provision domain.CustomerProvision) (*domain.CustomerDetails, error)
	UpdateStatus(ctx context.Context, customerID string, change domain.StatusChange, audit domain.AuditEntry) (*domain.Customer, error)
	SetPermission(ctx context.Context, customerID string, permission domain.Permission, enabled bool, audit domain.AuditEntry) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, customerID string, profile domain.Profile, currency string, audit domain.AuditEntry) (*domain.CustomerDetails, error)
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	RecipientFinder
	CustomerWriter
}
