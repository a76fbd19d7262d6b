package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

// CustomerAdminService drives the account status state machine and the
// independent permission toggles.
type CustomerAdminService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerAdminService creates a new CustomerAdminService.
func NewCustomerAdminService(customerRepo portsrepo.CustomerRepositoryFacade, opts ...Option) *CustomerAdminService {
	return &CustomerAdminService{BaseService: newBaseService(opts), customerRepo: customerRepo}
}

var _ portssvc.CustomerAdminSvcFacade = (*CustomerAdminService)(nil)

func (s *CustomerAdminService) ListCustomers(ctx context.Context, params dto.ListCustomersParams) ([]domain.CustomerDetails, *string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	customers, next, err := s.customerRepo.ListCustomers(ctx, domain.PageParams{Limit: limit, NextToken: params.NextToken})
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to list customers")
		return nil, nil, err
	}
	return customers, next, nil
}

func (s *CustomerAdminService) GetCustomer(ctx context.Context, customerID string) (*domain.CustomerDetails, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	details, err := s.customerRepo.FindCustomerDetails(ctx, customerID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to get customer", slog.String("customer_id", customerID))
		return nil, err
	}
	return details, nil
}

// CreateCustomer opens an account for an already registered user.
func (s *CustomerAdminService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, adminID string) (*domain.CustomerDetails, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	provision, err := newProvision(req.UserID, req.OpenAccountRequest, now)
	if err != nil {
		s.logFailure(ctx, err, "Invalid customer creation request", slog.String("user_id", req.UserID))
		return nil, err
	}
	audit := newAuditEntry(adminID, domain.ActionCreateCustomer, provision.CustomerID,
		fmt.Sprintf("Customer account opened for %s by admin", provision.Profile.Name), now)
	provision.Audit = &audit

	details, err := s.customerRepo.ProvisionCustomer(ctx, provision)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to create customer", slog.String("user_id", req.UserID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer created",
		slog.String("customer_id", details.CustomerID),
		slog.String("account_number", details.AccountNumber))
	return details, nil
}

var statusAudit = map[domain.AccountStatus]struct {
	action domain.AuditAction
	verb   string
}{
	domain.StatusActive:  {domain.ActionUnblockCustomer, "activated"},
	domain.StatusBlocked: {domain.ActionBlockCustomer, "blocked"},
	domain.StatusFrozen:  {domain.ActionFreezeAccount, "frozen"},
}

// ChangeStatus moves the customer to status and writes the flag bundle that
// belongs to it. Every state is reachable from every other.
func (s *CustomerAdminService) ChangeStatus(ctx context.Context, customerID string, status domain.AccountStatus, adminID string) (*domain.Customer, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	current, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for status change", slog.String("customer_id", customerID))
		return nil, err
	}

	meta := statusAudit[status]
	audit := newAuditEntry(adminID, meta.action, customerID, fmt.Sprintf("Account %s by admin", meta.verb), s.now())
	updated, err := s.customerRepo.UpdateStatus(ctx, customerID, current.StatusTransition(status), audit)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to change customer status", slog.String("customer_id", customerID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer status changed",
		slog.String("customer_id", customerID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(updated.Status)))
	return updated, nil
}

func (s *CustomerAdminService) SetTransferPermission(ctx context.Context, customerID string, enabled bool, adminID string) (*domain.Customer, error) {
	action := domain.ActionDisableTransfers
	if enabled {
		action = domain.ActionEnableTransfers
	}
	return s.setPermission(ctx, customerID, domain.PermissionSendMoney, enabled, action, "Transfer", adminID)
}

func (s *CustomerAdminService) SetLoginPermission(ctx context.Context, customerID string, enabled bool, adminID string) (*domain.Customer, error) {
	action := domain.ActionDisableLogin
	if enabled {
		action = domain.ActionEnableLogin
	}
	return s.setPermission(ctx, customerID, domain.PermissionLogin, enabled, action, "Login", adminID)
}

func (s *CustomerAdminService) setPermission(ctx context.Context, customerID string, permission domain.Permission, enabled bool, action domain.AuditAction, label, adminID string) (*domain.Customer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	audit := newAuditEntry(adminID, action, customerID, fmt.Sprintf("%s permission %s", label, state), s.now())
	updated, err := s.customerRepo.SetPermission(ctx, customerID, permission, enabled, audit)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to set customer permission",
			slog.String("customer_id", customerID),
			slog.String("permission", string(permission)))
		return nil, err
	}
	s.LogInfo(ctx, "Customer permission changed",
		slog.String("customer_id", customerID),
		slog.String("permission", string(permission)),
		slog.Bool("enabled", enabled))
	return updated, nil
}
