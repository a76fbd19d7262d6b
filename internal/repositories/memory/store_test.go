package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/platform/clock"
	"github.com/slada12/secure-blu-vault/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.FixedClock
	store *memory.Store
	alice domain.CustomerDetails
	bob   domain.CustomerDetails
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewFixedClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	s.store = memory.NewStore(memory.WithClock(s.clock))
	s.alice = s.store.SeedCustomer(domain.CustomerDetails{
		Customer: domain.Customer{Balance: decimal.NewFromInt(1000), CanSendMoney: true, CanLogin: true},
		Profile:  domain.Profile{Name: "Alice Carter", Email: "alice@example.com"},
	})
	s.bob = s.store.SeedCustomer(domain.CustomerDetails{
		Customer: domain.Customer{Balance: decimal.NewFromInt(500), CanSendMoney: true, CanLogin: true},
		Profile:  domain.Profile{Name: "Bob Stone", Email: "bob@example.com"},
	})
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) posting(amount int64, class domain.Classification) domain.TransferPosting {
	status := domain.TxStatusCompleted
	recipientID := s.bob.CustomerID
	if class == domain.External {
		status = domain.TxStatusPending
		recipientID = ""
	}
	return domain.TransferPosting{
		Transaction: domain.Transaction{
			TransactionID: uuid.NewString(),
			CustomerID:    s.alice.CustomerID,
			Type:          domain.Debit,
			Amount:        decimal.NewFromInt(amount),
			Reference:     "TXN-" + uuid.NewString(),
			Status:        status,
			CreatedAt:     s.clock.Now(),
		},
		SenderID:       s.alice.CustomerID,
		RecipientID:    recipientID,
		Classification: class,
		Events:         []domain.OutboxMessage{{Exchange: "vault.events", RoutingKey: domain.EventTransferCompleted, Payload: []byte(`{}`)}},
	}
}

func (s *StoreTestSuite) balance(customerID string) decimal.Decimal {
	c, err := s.store.FindCustomerByID(s.ctx, customerID)
	s.Require().NoError(err)
	return c.Balance
}

func (s *StoreTestSuite) TestSeedCustomer_AssignsAccountNumbers() {
	s.Len(s.alice.AccountNumber, 10)
	s.NotEqual(s.alice.AccountNumber, s.bob.AccountNumber)
	s.Equal(domain.StatusActive, s.alice.Status)
	s.Equal(domain.DefaultCurrency, s.alice.Currency)
}

func (s *StoreTestSuite) TestProvisionCustomer_OpensAccountOnce() {
	audit := domain.AuditEntry{AuditID: uuid.NewString(), Action: domain.ActionCreateCustomer}
	provision := domain.CustomerProvision{
		CustomerID:    uuid.NewString(),
		RoutingNumber: "021000021",
		Currency:      "EUR",
		Profile:       domain.Profile{UserID: "user-carol", Name: "Carol Reyes", Email: "carol@example.com"},
		CreatedAt:     s.clock.Now(),
		Audit:         &audit,
	}

	details, err := s.store.ProvisionCustomer(s.ctx, provision)
	s.Require().NoError(err)
	s.Len(details.AccountNumber, 10)
	s.NotEqual(s.alice.AccountNumber, details.AccountNumber)
	s.NotEqual(s.bob.AccountNumber, details.AccountNumber)
	s.Require().NotNil(details.RoutingNumber)
	s.Equal("021000021", *details.RoutingNumber)
	s.True(details.Balance.IsZero())
	s.Equal("EUR", details.Currency)
	s.Equal(domain.StatusActive, details.Status)
	s.True(details.CanLogin)
	s.True(details.CanSendMoney)
	s.Equal("Carol Reyes", details.Profile.Name)

	found, err := s.store.FindCustomerByUserID(s.ctx, "user-carol")
	s.Require().NoError(err)
	s.Equal(details.CustomerID, found.CustomerID)
	entries, err := s.store.ListAuditEntries(s.ctx, domain.AuditFilter{Limit: 10})
	s.Require().NoError(err)
	s.Len(entries, 1)

	provision.CustomerID = uuid.NewString()
	provision.Audit = nil
	_, err = s.store.ProvisionCustomer(s.ctx, provision)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StoreTestSuite) TestApplyTransfer_InternalMovesBothBalances() {
	applied, err := s.store.ApplyTransfer(s.ctx, s.posting(250, domain.Internal))
	s.Require().NoError(err)

	s.True(decimal.NewFromInt(750).Equal(applied.SenderBalance))
	s.True(decimal.NewFromInt(750).Equal(s.balance(s.alice.CustomerID)))
	s.True(decimal.NewFromInt(750).Equal(s.balance(s.bob.CustomerID)))

	pending, err := s.store.CountPendingOutbox(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), pending)
}

func (s *StoreTestSuite) TestApplyTransfer_RechecksFundsUnderLock() {
	_, err := s.store.ApplyTransfer(s.ctx, s.posting(1001, domain.External))
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.True(decimal.NewFromInt(1000).Equal(s.balance(s.alice.CustomerID)))
}

func (s *StoreTestSuite) TestApplyTransfer_RechecksEligibility() {
	_, err := s.store.UpdateStatus(s.ctx, s.alice.CustomerID, s.alice.StatusTransition(domain.StatusFrozen), domain.AuditEntry{Action: domain.ActionFreezeAccount})
	s.Require().NoError(err)

	_, err = s.store.ApplyTransfer(s.ctx, s.posting(10, domain.Internal))
	s.ErrorIs(err, apperrors.ErrTransferForbidden)
	reason, ok := apperrors.ForbiddenReason(err)
	s.True(ok)
	s.Equal("frozen", reason)
}

func (s *StoreTestSuite) TestApplyTransfer_DuplicateReference() {
	p := s.posting(10, domain.External)
	_, err := s.store.ApplyTransfer(s.ctx, p)
	s.Require().NoError(err)

	again := s.posting(10, domain.External)
	again.Transaction.Reference = p.Transaction.Reference
	_, err = s.store.ApplyTransfer(s.ctx, again)
	s.ErrorIs(err, apperrors.ErrReferenceConflict)
	s.True(decimal.NewFromInt(990).Equal(s.balance(s.alice.CustomerID)), "conflicting posting must not debit")
}

func (s *StoreTestSuite) TestApplyTransfer_IdempotencyReplayAndMismatch() {
	p := s.posting(100, domain.External)
	p.Idempotency = &domain.IdempotencyRecord{CustomerID: s.alice.CustomerID, Key: "k1", RequestHash: "h1", ExpiresAt: s.clock.Now().Add(time.Hour)}
	first, err := s.store.ApplyTransfer(s.ctx, p)
	s.Require().NoError(err)

	retry := s.posting(100, domain.External)
	retry.Idempotency = &domain.IdempotencyRecord{CustomerID: s.alice.CustomerID, Key: "k1", RequestHash: "h1"}
	replayed, err := s.store.ApplyTransfer(s.ctx, retry)
	s.Require().NoError(err)
	s.True(replayed.Replayed)
	s.Equal(first.Transaction.Reference, replayed.Transaction.Reference)
	s.Equal(domain.External, replayed.Classification)
	s.True(decimal.NewFromInt(900).Equal(s.balance(s.alice.CustomerID)))

	other := s.posting(5, domain.External)
	other.Idempotency = &domain.IdempotencyRecord{CustomerID: s.alice.CustomerID, Key: "k1", RequestHash: "different"}
	_, err = s.store.ApplyTransfer(s.ctx, other)
	s.ErrorIs(err, apperrors.ErrIdempotencyMismatch)
}

func (s *StoreTestSuite) TestSettleTransaction_RejectRefundsOnce() {
	applied, err := s.store.ApplyTransfer(s.ctx, s.posting(300, domain.External))
	s.Require().NoError(err)

	settle := domain.Settlement{
		TransactionID: applied.Transaction.TransactionID,
		Action:        domain.SettlementReject,
		AdminID:       "admin-1",
		At:            s.clock.Now(),
		Audit:         domain.AuditEntry{AuditID: uuid.NewString(), Action: domain.ActionRejectTransfer},
	}
	txn, err := s.store.SettleTransaction(s.ctx, settle)
	s.Require().NoError(err)
	s.Equal(domain.TxStatusRejected, txn.Status)
	s.True(decimal.NewFromInt(1000).Equal(s.balance(s.alice.CustomerID)))

	_, err = s.store.SettleTransaction(s.ctx, settle)
	s.ErrorIs(err, apperrors.ErrAlreadySettled)
	s.True(decimal.NewFromInt(1000).Equal(s.balance(s.alice.CustomerID)), "second reject must not refund again")

	entries, err := s.store.ListAuditEntries(s.ctx, domain.AuditFilter{Limit: 10})
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *StoreTestSuite) TestEditTransaction_RefusesPending() {
	applied, err := s.store.ApplyTransfer(s.ctx, s.posting(300, domain.External))
	s.Require().NoError(err)

	edit := domain.TransactionEdit{
		TransactionID: applied.Transaction.TransactionID,
		Amount:        decimal.NewFromInt(900),
		CreatedAt:     s.clock.Now(),
		Audit:         domain.AuditEntry{AuditID: uuid.NewString(), Action: domain.ActionEditTransaction},
	}
	_, err = s.store.EditTransaction(s.ctx, edit)
	s.ErrorIs(err, apperrors.ErrConflict)

	stored, err := s.store.FindTransactionByID(s.ctx, applied.Transaction.TransactionID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(300).Equal(stored.Amount))
	entries, err := s.store.ListAuditEntries(s.ctx, domain.AuditFilter{Limit: 10})
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *StoreTestSuite) TestListTransactionsByCustomer_Paginates() {
	for i := 0; i < 5; i++ {
		s.clock.Advance(time.Minute)
		_, err := s.store.ApplyTransfer(s.ctx, s.posting(1, domain.External))
		s.Require().NoError(err)
	}

	first, token, err := s.store.ListTransactionsByCustomer(s.ctx, s.alice.CustomerID, domain.PageParams{Limit: 3})
	s.Require().NoError(err)
	s.Len(first, 3)
	s.Require().NotNil(token)
	s.True(first[0].CreatedAt.After(first[2].CreatedAt), "newest first")

	second, token, err := s.store.ListTransactionsByCustomer(s.ctx, s.alice.CustomerID, domain.PageParams{Limit: 3, NextToken: token})
	s.Require().NoError(err)
	s.Len(second, 2)
	s.Nil(token)
	s.True(second[0].CreatedAt.Before(first[2].CreatedAt))

	bad := "!!"
	_, _, err = s.store.ListTransactionsByCustomer(s.ctx, s.alice.CustomerID, domain.PageParams{Limit: 3, NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreTestSuite) TestSearch_ExcludesCaller() {
	hits, err := s.store.SearchByName(s.ctx, "STONE", s.alice.CustomerID, 5)
	s.Require().NoError(err)
	s.Require().Len(hits, 1)
	s.Equal(s.bob.AccountNumber, hits[0].AccountNumber)

	hits, err = s.store.SearchByAccountNumber(s.ctx, s.alice.AccountNumber, s.alice.CustomerID, 5)
	s.Require().NoError(err)
	s.Empty(hits)
}

func (s *StoreTestSuite) TestCardRequests_OnePendingAtATime() {
	req := domain.CardRequest{RequestID: uuid.NewString(), CustomerID: s.alice.CustomerID, CardType: domain.CardTypeDebit, Status: domain.CardRequestPending, CreatedAt: s.clock.Now()}
	s.Require().NoError(s.store.CreateCardRequest(s.ctx, req))

	dup := req
	dup.RequestID = uuid.NewString()
	s.ErrorIs(s.store.CreateCardRequest(s.ctx, dup), apperrors.ErrDuplicate)

	decision := domain.CardDecision{RequestID: req.RequestID, Status: domain.CardRequestApproved, AdminID: "admin-1", At: s.clock.Now(),
		Notification: domain.Notification{NotificationID: uuid.NewString(), UserID: s.alice.UserID, Title: "Card Approved"}}
	resolved, err := s.store.ResolveCardRequest(s.ctx, decision)
	s.Require().NoError(err)
	s.Equal(domain.CardRequestApproved, resolved.Status)

	c, err := s.store.FindCustomerByID(s.ctx, s.alice.CustomerID)
	s.Require().NoError(err)
	s.Equal(domain.CardStatusApproved, c.CardStatus)

	_, err = s.store.ResolveCardRequest(s.ctx, decision)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *StoreTestSuite) TestOutbox_ClaimFailRetryPublish() {
	_, err := s.store.ApplyTransfer(s.ctx, s.posting(1, domain.Internal))
	s.Require().NoError(err)

	claimed, err := s.store.ClaimOutboxMessages(s.ctx, 10, time.Minute)
	s.Require().NoError(err)
	s.Require().Len(claimed, 1)

	again, err := s.store.ClaimOutboxMessages(s.ctx, 10, time.Minute)
	s.Require().NoError(err)
	s.Empty(again, "claimed message is not handed out twice")

	s.Require().NoError(s.store.MarkOutboxFailed(s.ctx, claimed[0].ID, 30*time.Second, "broker down"))
	notDue, err := s.store.ClaimOutboxMessages(s.ctx, 10, time.Minute)
	s.Require().NoError(err)
	s.Empty(notDue)

	s.clock.Advance(31 * time.Second)
	retry, err := s.store.ClaimOutboxMessages(s.ctx, 10, time.Minute)
	s.Require().NoError(err)
	s.Require().Len(retry, 1)
	s.Equal(1, retry[0].Attempts)

	s.Require().NoError(s.store.MarkOutboxPublished(s.ctx, retry[0].ID))
	pending, err := s.store.CountPendingOutbox(s.ctx)
	s.Require().NoError(err)
	s.Zero(pending)

	s.clock.Advance(time.Hour)
	purged, err := s.store.PurgePublishedOutbox(s.ctx, s.clock.Now())
	s.Require().NoError(err)
	s.Equal(int64(1), purged)
}

func (s *StoreTestSuite) TestCancelledContextIsStoreFailure() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.store.ApplyTransfer(ctx, s.posting(1, domain.Internal))
	s.ErrorIs(err, apperrors.ErrStoreOperationFailed)
	s.ErrorIs(err, context.Canceled)
	s.True(decimal.NewFromInt(1000).Equal(s.balance(s.alice.CustomerID)))
}
