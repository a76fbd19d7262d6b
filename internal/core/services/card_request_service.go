package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
)

// CardRequestService handles card applications and their review.
type CardRequestService struct {
	BaseService
	customerRepo portsrepo.CustomerReader
	cardRepo     portsrepo.CardRequestRepositoryFacade
}

// NewCardRequestService creates a new CardRequestService.
func NewCardRequestService(customerRepo portsrepo.CustomerReader, cardRepo portsrepo.CardRequestRepositoryFacade, opts ...Option) *CardRequestService {
	return &CardRequestService{
		BaseService:  newBaseService(opts),
		customerRepo: customerRepo,
		cardRepo:     cardRepo,
	}
}

var _ portssvc.CardRequestSvcFacade = (*CardRequestService)(nil)

func (s *CardRequestService) RequestCard(ctx context.Context, userID string, cardType domain.CardType) (*domain.CardRequest, error) {
	if cardType != domain.CardTypeDebit && cardType != domain.CardTypeCredit {
		return nil, fmt.Errorf("%w: unknown card type %q", apperrors.ErrValidation, cardType)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for card request", slog.String("user_id", userID))
		return nil, err
	}

	request := domain.CardRequest{
		RequestID:  uuid.NewString(),
		CustomerID: customer.CustomerID,
		CardType:   cardType,
		Status:     domain.CardRequestPending,
		CreatedAt:  s.now(),
	}
	if err := s.cardRepo.CreateCardRequest(ctx, request); err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to create card request", slog.String("customer_id", customer.CustomerID))
		return nil, err
	}
	s.LogInfo(ctx, "Card request created",
		slog.String("request_id", request.RequestID),
		slog.String("card_type", string(cardType)))
	return &request, nil
}

func (s *CardRequestService) ListCardRequests(ctx context.Context, status *domain.CardRequestStatus, limit int) ([]domain.CardRequest, error) {
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	if limit > maxPendingLimit {
		limit = maxPendingLimit
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	requests, err := s.cardRepo.ListCardRequests(ctx, status, limit)
	if err != nil {
		err = storeErr(err)
		s.LogError(ctx, err, "Failed to list card requests")
		return nil, err
	}
	return requests, nil
}

func (s *CardRequestService) ApproveCardRequest(ctx context.Context, requestID string, adminID string) (*domain.CardRequest, error) {
	return s.resolve(ctx, requestID, adminID, domain.CardRequestApproved)
}

func (s *CardRequestService) RejectCardRequest(ctx context.Context, requestID string, adminID string) (*domain.CardRequest, error) {
	return s.resolve(ctx, requestID, adminID, domain.CardRequestRejected)
}

func (s *CardRequestService) resolve(ctx context.Context, requestID, adminID string, status domain.CardRequestStatus) (*domain.CardRequest, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resolved, err := s.decide(ctx, requestID, adminID, status)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve card request",
			slog.String("request_id", requestID),
			slog.String("status", string(status)))
		return nil, err
	}
	s.LogInfo(ctx, "Card request resolved",
		slog.String("request_id", requestID),
		slog.String("status", string(status)))
	return resolved, nil
}

func (s *CardRequestService) decide(ctx context.Context, requestID, adminID string, status domain.CardRequestStatus) (*domain.CardRequest, error) {
	request, err := s.cardRepo.FindCardRequestByID(ctx, requestID)
	if err != nil {
		return nil, storeErr(err)
	}
	if request.Status != domain.CardRequestPending {
		return nil, fmt.Errorf("%w: card request is already %s", apperrors.ErrConflict, request.Status)
	}
	customer, err := s.customerRepo.FindCustomerByID(ctx, request.CustomerID)
	if err != nil {
		return nil, storeErr(err)
	}

	at := s.now()
	action, verb, title := domain.ActionApproveCardRequest, "approved", "Card Request Approved"
	if status == domain.CardRequestRejected {
		action, verb, title = domain.ActionRejectCardRequest, "rejected", "Card Request Rejected"
	}

	payload, err := json.Marshal(domain.CardRequestEvent{
		EventType:  domain.EventCardRequestResolved,
		RequestID:  request.RequestID,
		CustomerID: request.CustomerID,
		CardType:   string(request.CardType),
		Status:     string(status),
		ActorID:    adminID,
		OccurredAt: at,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode card request event: %w", apperrors.ErrInternal, err)
	}

	resolved, err := s.cardRepo.ResolveCardRequest(ctx, domain.CardDecision{
		RequestID: requestID,
		Status:    status,
		AdminID:   adminID,
		At:        at,
		Audit:     newAuditEntry(adminID, action, request.CustomerID, fmt.Sprintf("%s card request %s", request.CardType, verb), at),
		Notification: newNotification(customer.UserID, title,
			fmt.Sprintf("Your %s card request has been %s.", request.CardType, verb), at),
		Events: []domain.OutboxMessage{{
			Exchange:   s.settings.EventsExchange,
			RoutingKey: domain.EventCardRequestResolved,
			Payload:    payload,
		}},
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return resolved, nil
}
