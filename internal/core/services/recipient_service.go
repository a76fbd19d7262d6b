package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
)

const (
	// MinRecipientQueryLength is the shortest query that reaches the store.
	MinRecipientQueryLength = 3
	// MaxRecipientResults caps recipient search results.
	MaxRecipientResults = 5
)

// RecipientService resolves internal transfer recipients.
type RecipientService struct {
	BaseService
	customerRepo interface {
		portsrepo.CustomerReader
		portsrepo.RecipientFinder
	}
}

// NewRecipientService creates a new RecipientService.
func NewRecipientService(customerRepo portsrepo.CustomerRepositoryFacade, opts ...Option) *RecipientService {
	return &RecipientService{BaseService: newBaseService(opts), customerRepo: customerRepo}
}

var _ portssvc.RecipientSvc = (*RecipientService)(nil)

// SearchRecipients matches account numbers first and falls back to names.
// Short queries return an empty result without touching the store.
func (s *RecipientService) SearchRecipients(ctx context.Context, userID string, query string) ([]domain.Recipient, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinRecipientQueryLength {
		return []domain.Recipient{}, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	self, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load searching customer", slog.String("user_id", userID))
		return nil, err
	}

	hits, err := s.customerRepo.SearchByAccountNumber(ctx, query, self.CustomerID, MaxRecipientResults)
	if err != nil {
		err = storeErr(err)
		s.LogError(ctx, err, "Recipient search by account number failed")
		return nil, err
	}
	if len(hits) > 0 {
		return hits, nil
	}

	hits, err = s.customerRepo.SearchByName(ctx, query, self.CustomerID, MaxRecipientResults)
	if err != nil {
		err = storeErr(err)
		s.LogError(ctx, err, "Recipient search by name failed")
		return nil, err
	}
	s.LogDebug(ctx, "Recipient search completed", slog.Int("results", len(hits)))
	return hits, nil
}
