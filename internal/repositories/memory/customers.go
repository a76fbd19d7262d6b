package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/utils/pagination"
)

func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *Store) FindCustomerByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.UserID == userID {
			out := *c
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindCustomerByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.AccountNumber == accountNumber {
			out := *c
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindCustomerDetails(ctx context.Context, customerID string) (*domain.CustomerDetails, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	d := s.details(c)
	return &d, nil
}

func (s *Store) ListCustomers(ctx context.Context, params domain.PageParams) ([]domain.CustomerDetails, *string, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, nil, err
	}
	var (
		cursorAt time.Time
		cursorID string
	)
	if params.NextToken != nil && *params.NextToken != "" {
		var err error
		cursorAt, cursorID, err = pagination.DecodeCursor(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	s.mu.Lock()
	all := make([]domain.CustomerDetails, 0, len(s.customers))
	for _, c := range s.customers {
		all = append(all, s.details(c))
	}
	s.mu.Unlock()

	key := func(d domain.CustomerDetails) (time.Time, string) { return d.CreatedAt, d.CustomerID }
	newestFirst(all, key)

	page := make([]domain.CustomerDetails, 0, params.Limit)
	for _, d := range all {
		if cursorID != "" && !pagination.After(d.CreatedAt, d.CustomerID, cursorAt, cursorID) {
			continue
		}
		page = append(page, d)
		if len(page) == params.Limit {
			break
		}
	}
	return page, pagination.NextToken(page, params.Limit, key), nil
}

func (s *Store) SearchByAccountNumber(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error) {
	return s.search(ctx, excludeCustomerID, limit, func(c *domain.Customer, p domain.Profile) bool {
		return strings.Contains(c.AccountNumber, fragment)
	})
}

func (s *Store) SearchByName(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error) {
	needle := strings.ToLower(fragment)
	return s.search(ctx, excludeCustomerID, limit, func(c *domain.Customer, p domain.Profile) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
}

func (s *Store) search(ctx context.Context, excludeCustomerID string, limit int, match func(*domain.Customer, domain.Profile) bool) ([]domain.Recipient, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Recipient{}
	for _, c := range s.customers {
		if c.CustomerID == excludeCustomerID {
			continue
		}
		p := s.profiles[c.UserID]
		if match(c, p) {
			out = append(out, domain.Recipient{CustomerID: c.CustomerID, Name: p.Name, AccountNumber: c.AccountNumber})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ProvisionCustomer opens an account with a zero balance and both permissions enabled.
func (s *Store) ProvisionCustomer(ctx context.Context, p domain.CustomerProvision) (*domain.CustomerDetails, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := p.Profile.UserID
	if _, exists := s.profiles[userID]; exists {
		return nil, fmt.Errorf("%w: user %s already has an account", apperrors.ErrDuplicate, userID)
	}
	if _, exists := s.customers[p.CustomerID]; exists {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrDuplicate, p.CustomerID)
	}

	c := &domain.Customer{
		CustomerID:    p.CustomerID,
		UserID:        userID,
		AccountNumber: fmt.Sprintf("%010d", s.nextAccount),
		RoutingNumber: domain.StringPtr(p.RoutingNumber),
		Balance:       decimal.Zero,
		Currency:      p.Currency,
		Status:        domain.StatusActive,
		CardStatus:    domain.CardStatusNone,
		CanSendMoney:  true,
		CanLogin:      true,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.CreatedAt,
	}
	s.nextAccount++
	s.customers[c.CustomerID] = c
	s.profiles[userID] = p.Profile
	if p.Audit != nil {
		s.audit = append(s.audit, *p.Audit)
	}
	d := s.details(c)
	return &d, nil
}

func (s *Store) UpdateStatus(ctx context.Context, customerID string, change domain.StatusChange, audit domain.AuditEntry) (*domain.Customer, error) {
	return s.mutateCustomer(ctx, customerID, audit, func(c *domain.Customer) {
		*c = c.Apply(change)
	})
}

func (s *Store) SetPermission(ctx context.Context, customerID string, permission domain.Permission, enabled bool, audit domain.AuditEntry) (*domain.Customer, error) {
	switch permission {
	case domain.PermissionSendMoney, domain.PermissionLogin:
	default:
		return nil, fmt.Errorf("%w: unknown permission %q", apperrors.ErrValidation, permission)
	}
	return s.mutateCustomer(ctx, customerID, audit, func(c *domain.Customer) {
		if permission == domain.PermissionSendMoney {
			c.CanSendMoney = enabled
		} else {
			c.CanLogin = enabled
		}
	})
}

func (s *Store) mutateCustomer(ctx context.Context, customerID string, audit domain.AuditEntry, fn func(*domain.Customer)) (*domain.Customer, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	fn(c)
	c.UpdatedAt = audit.CreatedAt
	s.audit = append(s.audit, audit)
	out := *c
	return &out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, customerID string, profile domain.Profile, currency string, audit domain.AuditEntry) (*domain.CustomerDetails, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	profile.UserID = c.UserID
	s.profiles[c.UserID] = profile
	c.Currency = currency
	c.UpdatedAt = audit.CreatedAt
	s.audit = append(s.audit, audit)
	d := s.details(c)
	return &d, nil
}
