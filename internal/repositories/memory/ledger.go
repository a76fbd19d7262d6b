package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/utils/pagination"
)

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *Store) FindTransactionByReference(ctx context.Context, customerID string, reference string) (*domain.Transaction, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.references[reference]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	t := s.transactions[id]
	if t.CustomerID != customerID {
		return nil, apperrors.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *Store) ListTransactionsByCustomer(ctx context.Context, customerID string, params domain.PageParams) ([]domain.Transaction, *string, error) {
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
	var owned []domain.Transaction
	for _, t := range s.transactions {
		if t.CustomerID == customerID {
			owned = append(owned, *t)
		}
	}
	s.mu.Unlock()

	key := func(t domain.Transaction) (time.Time, string) { return t.CreatedAt, t.TransactionID }
	newestFirst(owned, key)

	page := make([]domain.Transaction, 0, params.Limit)
	for _, t := range owned {
		if cursorID != "" && !pagination.After(t.CreatedAt, t.TransactionID, cursorAt, cursorID) {
			continue
		}
		page = append(page, t)
		if len(page) == params.Limit {
			break
		}
	}
	return page, pagination.NextToken(page, params.Limit, key), nil
}

func (s *Store) ListPendingTransfers(ctx context.Context, limit int) ([]domain.PendingTransfer, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.PendingTransfer{}
	for _, t := range s.transactions {
		if !t.IsPending() {
			continue
		}
		pt := domain.PendingTransfer{Transaction: *t}
		if c, ok := s.customers[t.CustomerID]; ok {
			pt.SenderCustomerName = s.profiles[c.UserID].Name
			pt.SenderAccountNo = c.AccountNumber
		}
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TransactionID < out[j].TransactionID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ApplyTransfer applies a transfer posting atomically. Eligibility and funds
// are checked against the current balances, not the caller's snapshot.
func (s *Store) ApplyTransfer(ctx context.Context, p domain.TransferPosting) (*domain.AppliedTransfer, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if err := positive(p.Transaction.Amount); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.customers[p.SenderID]
	if !ok {
		return nil, fmt.Errorf("sender %s: %w", p.SenderID, apperrors.ErrNotFound)
	}

	if p.Idempotency != nil {
		k := idempotencyKey{customerID: p.SenderID, key: p.Idempotency.Key}
		if rec, found := s.idempotency[k]; found {
			if rec.RequestHash != p.Idempotency.RequestHash {
				return nil, apperrors.ErrIdempotencyMismatch
			}
			original := s.transactions[rec.TransactionID]
			return &domain.AppliedTransfer{
				Transaction:    *original,
				Classification: rec.Classification,
				SenderBalance:  sender.Balance,
				Replayed:       true,
			}, nil
		}
	}

	if reason, blocked := sender.SendBlocked(); blocked {
		return nil, apperrors.NewTransferForbidden(string(reason))
	}
	amount := p.Transaction.Amount
	if !sender.CanCover(amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	var recipient *domain.Customer
	if p.Classification == domain.Internal {
		recipient, ok = s.customers[p.RecipientID]
		if !ok {
			return nil, fmt.Errorf("recipient %s: %w", p.RecipientID, apperrors.ErrNotFound)
		}
	}

	if err := s.insertTransaction(p.Transaction); err != nil {
		return nil, err
	}

	now := p.Transaction.CreatedAt
	sender.Balance = sender.Balance.Sub(amount)
	sender.UpdatedAt = now
	if recipient != nil {
		recipient.Balance = recipient.Balance.Add(amount)
		recipient.UpdatedAt = now
	}
	if p.Idempotency != nil {
		rec := *p.Idempotency
		rec.TransactionID = p.Transaction.TransactionID
		rec.Classification = p.Classification
		s.idempotency[idempotencyKey{customerID: p.SenderID, key: rec.Key}] = rec
	}
	s.enqueue(p.Events)

	return &domain.AppliedTransfer{
		Transaction:    p.Transaction,
		Classification: p.Classification,
		SenderBalance:  sender.Balance,
	}, nil
}

// SettleTransaction resolves a pending transaction exactly once.
func (s *Store) SettleTransaction(ctx context.Context, st domain.Settlement) (*domain.Transaction, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[st.TransactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !t.IsPending() {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrAlreadySettled, t.TransactionID, t.Status)
	}

	if st.Action == domain.SettlementReject {
		owner, ok := s.customers[t.CustomerID]
		if !ok {
			return nil, fmt.Errorf("owner %s: %w", t.CustomerID, apperrors.ErrNotFound)
		}
		owner.Balance = owner.Balance.Add(t.Amount)
		owner.UpdatedAt = st.At
	}

	at := st.At
	by := st.AdminID
	t.Status = st.Action.ResultingStatus()
	t.SettledAt = &at
	t.SettledBy = &by

	s.audit = append(s.audit, st.Audit)
	if st.Notification != nil {
		s.addNotification(*st.Notification)
	}
	s.enqueue(st.Events)

	out := *t
	return &out, nil
}

func (s *Store) FundAccount(ctx context.Context, p domain.FundingPosting) (*domain.Transaction, decimal.Decimal, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, decimal.Zero, err
	}
	if err := positive(p.Transaction.Amount); err != nil {
		return nil, decimal.Zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[p.CustomerID]
	if !ok {
		return nil, decimal.Zero, apperrors.ErrNotFound
	}
	if err := s.insertTransaction(p.Transaction); err != nil {
		return nil, decimal.Zero, err
	}
	c.Balance = c.Balance.Add(p.Transaction.Amount)
	c.UpdatedAt = p.Transaction.CreatedAt
	s.audit = append(s.audit, p.Audit)
	s.addNotification(p.Notification)
	s.enqueue(p.Events)

	out := p.Transaction
	return &out, c.Balance, nil
}

func (s *Store) InsertTransactionRecord(ctx context.Context, txn domain.Transaction, audit domain.AuditEntry) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if err := positive(txn.Amount); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[txn.CustomerID]; !ok {
		return apperrors.ErrNotFound
	}
	if err := s.insertTransaction(txn); err != nil {
		return err
	}
	s.audit = append(s.audit, audit)
	return nil
}

func (s *Store) EditTransaction(ctx context.Context, edit domain.TransactionEdit) (*domain.Transaction, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if err := positive(edit.Amount); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[edit.TransactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if t.IsPending() {
		return nil, fmt.Errorf("%w: transaction %s is awaiting settlement", apperrors.ErrConflict, t.Reference)
	}
	t.Amount = edit.Amount
	t.CreatedAt = edit.CreatedAt
	s.audit = append(s.audit, edit.Audit)
	out := *t
	return &out, nil
}

func (s *Store) FindIdempotencyRecord(ctx context.Context, customerID string, key string) (*domain.IdempotencyRecord, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.idempotency[idempotencyKey{customerID: customerID, key: key}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rec, nil
}

func (s *Store) PurgeExpiredIdempotencyKeys(ctx context.Context, now time.Time) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, rec := range s.idempotency {
		if !rec.ExpiresAt.After(now) {
			delete(s.idempotency, k)
			n++
		}
	}
	return n, nil
}
