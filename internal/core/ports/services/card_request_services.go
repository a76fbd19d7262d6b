package services

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// CardRequestSvcFacade handles card applications.
type CardRequestSvcFacade interface {
	RequestCard(ctx context.Context, userID string, cardType domain.CardType) (*domain.CardRequest, error)
	ListCardRequests(ctx context.Context, status *domain.CardRequestStatus, limit int) ([]domain.CardRequest, error)
	ApproveCardRequest(ctx context.Context, requestID string, adminID string) (*domain.CardRequest, error)
	RejectCardRequest(ctx context.Context, requestID string, adminID string) (*domain.CardRequest, error)
}
