package handlers_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransferService ---
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) SubmitTransfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.AppliedTransfer, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppliedTransfer), args.Error(1)
}

var _ portssvc.TransferSvc = (*MockTransferService)(nil)

// --- Mock RecipientService ---
type MockRecipientService struct {
	mock.Mock
}

func (m *MockRecipientService) SearchRecipients(ctx context.Context, userID string, query string) ([]domain.Recipient, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipient), args.Error(1)
}

var _ portssvc.RecipientSvc = (*MockRecipientService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetMyAccount(ctx context.Context, userID string) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

func (m *MockAccountService) ListMyTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, params)
	var next *string
	if v, ok := args.Get(1).(*string); ok {
		next = v
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockAccountService) GetMyTransaction(ctx context.Context, userID string, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockAccountService) OpenAccount(ctx context.Context, userID string, req dto.OpenAccountRequest) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

func (m *MockAccountService) CheckAccess(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portssvc.AccountSvc = (*MockAccountService)(nil)

// --- Mock NotificationService ---
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

var _ portssvc.NotificationSvc = (*MockNotificationService)(nil)

// --- Mock CardRequestService ---
type MockCardRequestService struct {
	mock.Mock
}

func (m *MockCardRequestService) RequestCard(ctx context.Context, userID string, cardType domain.CardType) (*domain.CardRequest, error) {
	args := m.Called(ctx, userID, cardType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardRequest), args.Error(1)
}

func (m *MockCardRequestService) ListCardRequests(ctx context.Context, status *domain.CardRequestStatus, limit int) ([]domain.CardRequest, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CardRequest), args.Error(1)
}

func (m *MockCardRequestService) ApproveCardRequest(ctx context.Context, requestID string, adminID string) (*domain.CardRequest, error) {
	args := m.Called(ctx, requestID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardRequest), args.Error(1)
}

func (m *MockCardRequestService) RejectCardRequest(ctx context.Context, requestID string, adminID string) (*domain.CardRequest, error) {
	args := m.Called(ctx, requestID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardRequest), args.Error(1)
}

var _ portssvc.CardRequestSvcFacade = (*MockCardRequestService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) ListPendingTransfers(ctx context.Context, limit int) ([]domain.PendingTransfer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingTransfer), args.Error(1)
}

func (m *MockSettlementService) ApproveTransfer(ctx context.Context, transactionID string, adminID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockSettlementService) RejectTransfer(ctx context.Context, transactionID string, adminID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.SettlementSvcFacade = (*MockSettlementService)(nil)

// --- Mock CustomerAdminService ---
type MockCustomerAdminService struct {
	mock.Mock
}

func (m *MockCustomerAdminService) ListCustomers(ctx context.Context, params dto.ListCustomersParams) ([]domain.CustomerDetails, *string, error) {
	args := m.Called(ctx, params)
	var next *string
	if v, ok := args.Get(1).(*string); ok {
		next = v
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.CustomerDetails), next, args.Error(2)
}

func (m *MockCustomerAdminService) GetCustomer(ctx context.Context, customerID string) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

func (m *MockCustomerAdminService) ChangeStatus(ctx context.Context, customerID string, status domain.AccountStatus, adminID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, status, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerAdminService) SetTransferPermission(ctx context.Context, customerID string, enabled bool, adminID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, enabled, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerAdminService) SetLoginPermission(ctx context.Context, customerID string, enabled bool, adminID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, enabled, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerAdminService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, adminID string) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

var _ portssvc.CustomerAdminSvcFacade = (*MockCustomerAdminService)(nil)

// --- Mock FundingService ---
type MockFundingService struct {
	mock.Mock
}

func (m *MockFundingService) FundAccount(ctx context.Context, customerID string, req dto.FundAccountRequest, adminID string) (*domain.Transaction, decimal.Decimal, error) {
	args := m.Called(ctx, customerID, req, adminID)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockFundingService) AddTransactionRecord(ctx context.Context, customerID string, req dto.AddTransactionRequest, adminID string) (*domain.Transaction, error) {
	args := m.Called(ctx, customerID, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockFundingService) EditTransaction(ctx context.Context, transactionID string, req dto.EditTransactionRequest, adminID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockFundingService) EditCustomerProfile(ctx context.Context, customerID string, req dto.UpdateCustomerProfileRequest, adminID string) (*domain.CustomerDetails, error) {
	args := m.Called(ctx, customerID, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDetails), args.Error(1)
}

var _ portssvc.FundingSvcFacade = (*MockFundingService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) ListAuditEntries(ctx context.Context, params dto.ListAuditLogsParams) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

var _ portssvc.AuditSvc = (*MockAuditService)(nil)
