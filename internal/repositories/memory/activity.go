package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

func (s *Store) ListAuditEntries(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.AuditEntry{}
	for i := len(s.audit) - 1; i >= 0 && len(out) < filter.Limit; i-- {
		e := s.audit[i]
		if filter.TargetCustomerID != nil && (e.TargetCustomerID == nil || *e.TargetCustomerID != *filter.TargetCustomerID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Notification{}
	for i := len(s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := s.notifications[i]
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.NotificationID == notificationID && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *Store) FindCardRequestByID(ctx context.Context, requestID string) (*domain.CardRequest, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.cardRequests[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *Store) ListCardRequests(ctx context.Context, status *domain.CardRequestStatus, limit int) ([]domain.CardRequest, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	out := []domain.CardRequest{}
	for _, r := range s.cardRequests {
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, *r)
	}
	s.mu.Unlock()

	newestFirst(out, func(r domain.CardRequest) (time.Time, string) { return r.CreatedAt, r.RequestID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateCardRequest(ctx context.Context, request domain.CardRequest) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[request.CustomerID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for _, r := range s.cardRequests {
		if r.CustomerID == request.CustomerID && r.Status == domain.CardRequestPending {
			return fmt.Errorf("%w: customer %s already has a pending card request", apperrors.ErrDuplicate, request.CustomerID)
		}
	}
	stored := request
	s.cardRequests[request.RequestID] = &stored
	c.CardStatus = domain.CardStatusPending
	c.UpdatedAt = request.CreatedAt
	return nil
}

func (s *Store) ResolveCardRequest(ctx context.Context, decision domain.CardDecision) (*domain.CardRequest, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.cardRequests[decision.RequestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if r.Status != domain.CardRequestPending {
		return nil, fmt.Errorf("%w: card request %s is %s", apperrors.ErrConflict, r.RequestID, r.Status)
	}
	at := decision.At
	by := decision.AdminID
	r.Status = decision.Status
	r.ProcessedAt = &at
	r.ProcessedBy = &by
	if c, ok := s.customers[r.CustomerID]; ok {
		c.CardStatus = domain.CardStatus(decision.Status)
		c.UpdatedAt = at
	}
	s.audit = append(s.audit, decision.Audit)
	s.addNotification(decision.Notification)
	s.enqueue(decision.Events)
	out := *r
	return &out, nil
}
