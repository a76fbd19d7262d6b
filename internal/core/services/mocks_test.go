package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock CustomerRepository ---
type MockCustomerRepository struct {
	mock.Mock
}

var _ portsrepo.CustomerRepositoryFacade = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomerByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomerByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomerDetails(ctx context.Context, customerID string) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, params domain.PageParams) ([]domain.CustomerDetails, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.Get(1).(string)
		next = &token
	}
	return args.Get(0).([]domain.CustomerDetails), next, args.Error(2)
}

func (m *MockCustomerRepository) SearchByAccountNumber(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error) {
	args := m.Called(ctx, fragment, excludeCustomerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipient), args.Error(1)
}

func (m *MockCustomerRepository) SearchByName(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error) {
	args := m.Called(ctx, fragment, excludeCustomerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipient), args.Error(1)
}

func (m *MockCustomerRepository) UpdateStatus(ctx context.Context, customerID string, change domain.StatusChange, audit domain.AuditEntry) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, change, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SetPermission(ctx context.Context, customerID string, permission domain.Permission, enabled bool, audit domain.AuditEntry) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, permission, enabled, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) UpdateProfile(ctx context.Context, customerID string, profile domain.Profile, currency string, audit domain.AuditEntry) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, customerID, profile, currency, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

func (m *MockCustomerRepository) ProvisionCustomer(ctx context.Context, provision domain.CustomerProvision) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, provision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByReference(ctx context.Context, customerID string, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, customerID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByCustomer(ctx context.Context, customerID string, params domain.PageParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, customerID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.Get(1).(string)
		next = &token
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionRepository) ListPendingTransfers(ctx context.Context, limit int) ([]domain.PendingTransfer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingTransfer), args.Error(1)
}

func (m *MockTransactionRepository) ApplyTransfer(ctx context.Context, posting domain.TransferPosting) (*domain.AppliedTransfer, error) {
	args := m.Called(ctx, posting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppliedTransfer), args.Error(1)
}

func (m *MockTransactionRepository) SettleTransaction(ctx context.Context, settlement domain.Settlement) (*domain.Transaction, error) {
	args := m.Called(ctx, settlement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FundAccount(ctx context.Context, posting domain.FundingPosting) (*domain.Transaction, decimal.Decimal, error) {
	args := m.Called(ctx, posting)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockTransactionRepository) InsertTransactionRecord(ctx context.Context, txn domain.Transaction, audit domain.AuditEntry) error {
	args := m.Called(ctx, txn, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) EditTransaction(ctx context.Context, edit domain.TransactionEdit) (*domain.Transaction, error) {
	args := m.Called(ctx, edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindIdempotencyRecord(ctx context.Context, customerID string, key string) (*domain.IdempotencyRecord, error) {
	args := m.Called(ctx, customerID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdempotencyRecord), args.Error(1)
}

func (m *MockTransactionRepository) PurgeExpiredIdempotencyKeys(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock CardRequestRepository ---
type MockCardRequestRepository struct {
	mock.Mock
}

var _ portsrepo.CardRequestRepositoryFacade = (*MockCardRequestRepository)(nil)

func (m *MockCardRequestRepository) FindCardRequestByID(ctx context.Context, requestID string) (*domain.CardRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardRequest), args.Error(1)
}

func (m *MockCardRequestRepository) ListCardRequests(ctx context.Context, status *domain.CardRequestStatus, limit int) ([]domain.CardRequest, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardRequest), args.Error(1)
}

func (m *MockCardRequestRepository) CreateCardRequest(ctx context.Context, request domain.CardRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockCardRequestRepository) ResolveCardRequest(ctx context.Context, decision domain.CardDecision) (*domain.CardRequest, error) {
	args := m.Called(ctx, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardRequest), args.Error(1)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditReader = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) ListAuditEntries(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}
