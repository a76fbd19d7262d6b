package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/slada12/secure-blu-vault/internal/utils"
)

// AccountService serves the authenticated customer's own account and history.
type AccountService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	txnRepo      portsrepo.TransactionReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(customerRepo portsrepo.CustomerRepositoryFacade, txnRepo portsrepo.TransactionReader, opts ...Option) *AccountService {
	return &AccountService{
		BaseService:  newBaseService(opts),
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
	}
}

var _ portssvc.AccountSvc = (*AccountService)(nil)

func (s *AccountService) GetMyAccount(ctx context.Context, userID string) (*domain.CustomerDetails, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for user", slog.String("user_id", userID))
		return nil, err
	}
	details, err := s.customerRepo.FindCustomerDetails(ctx, customer.CustomerID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer details", slog.String("customer_id", customer.CustomerID))
		return nil, err
	}
	return details, nil
}

func (s *AccountService) ListMyTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for user", slog.String("user_id", userID))
		return nil, nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, next, err := s.txnRepo.ListTransactionsByCustomer(ctx, customer.CustomerID, domain.PageParams{Limit: limit, NextToken: params.NextToken})
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to list transactions", slog.String("customer_id", customer.CustomerID))
		return nil, nil, err
	}
	return txns, next, nil
}

// GetMyTransaction looks up one of the caller's transactions by reference, for receipts.
func (s *AccountService) GetMyTransaction(ctx context.Context, userID string, reference string) (*domain.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for user", slog.String("user_id", userID))
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByReference(ctx, customer.CustomerID, strings.TrimSpace(reference))
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load transaction", slog.String("reference", reference))
		return nil, err
	}
	return txn, nil
}

// OpenAccount provisions the caller's account. A user holds at most one.
func (s *AccountService) OpenAccount(ctx context.Context, userID string, req dto.OpenAccountRequest) (*domain.CustomerDetails, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	provision, err := newProvision(userID, req, s.now())
	if err != nil {
		s.logFailure(ctx, err, "Invalid account opening request", slog.String("user_id", userID))
		return nil, err
	}
	details, err := s.customerRepo.ProvisionCustomer(ctx, provision)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to open account", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "Account opened",
		slog.String("customer_id", details.CustomerID),
		slog.String("account_number", details.AccountNumber))
	return details, nil
}

// CheckAccess refuses callers whose account is blocked or whose login was disabled.
// Users without an account pass so that they can open one.
func (s *AccountService) CheckAccess(ctx context.Context, userID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for access check", slog.String("user_id", userID))
		return err
	}
	if reason, blocked := customer.AccessBlocked(); blocked {
		err := apperrors.NewAccessDenied(string(reason))
		s.LogWarn(ctx, err, "Customer access refused", slog.String("customer_id", customer.CustomerID))
		return err
	}
	return nil
}

func newProvision(userID string, req dto.OpenAccountRequest, now time.Time) (domain.CustomerProvision, error) {
	userID = strings.TrimSpace(userID)
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	switch {
	case userID == "":
		return domain.CustomerProvision{}, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	case len([]rune(name)) < 2:
		return domain.CustomerProvision{}, fmt.Errorf("%w: name must be at least 2 characters", apperrors.ErrValidation)
	case email == "":
		return domain.CustomerProvision{}, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	currency := domain.DefaultCurrency
	if req.Currency != nil {
		currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
		if !domain.IsCurrencyCode(currency) {
			return domain.CustomerProvision{}, fmt.Errorf("%w: %q is not a currency code", apperrors.ErrValidation, *req.Currency)
		}
	}
	routing, err := utils.GenerateRoutingNumber()
	if err != nil {
		return domain.CustomerProvision{}, fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
	}

	var phone *string
	if req.Phone != nil {
		phone = domain.StringPtr(strings.TrimSpace(*req.Phone))
	}
	return domain.CustomerProvision{
		CustomerID:    uuid.NewString(),
		RoutingNumber: routing,
		Currency:      currency,
		Profile:       domain.Profile{UserID: userID, Name: name, Email: email, Phone: phone},
		CreatedAt:     now,
	}, nil
}
