package repositories

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// CardRequestReader defines read operations for card requests
type CardRequestReader interface {
	FindCardRequestByID(ctx context.Context, requestID string) (*domain.CardRequest, error)
	ListCardRequests(ctx context.Context, status *domain.CardRequestStatus, limit int) ([]domain.CardRequest, error)
}

// CardRequestWriter defines write operations for card requests
type CardRequestWriter interface {
	// CreateCardRequest stores the request and marks the customer's card status pending.
	// A second pending request for the same customer yields apperrors.ErrDuplicate.
	CreateCardRequest(ctx context.Context, request domain.CardRequest) error

	// ResolveCardRequest applies a decision to a pending request. A request that is
	// no longer pending yields apperrors.ErrConflict.
	ResolveCardRequest(ctx context.Context, decision domain.CardDecision) (*domain.CardRequest, error)
}

// CardRequestRepositoryFacade combines all card-request repository interfaces
type CardRequestRepositoryFacade interface {
	CardRequestReader
	CardRequestWriter
}
