package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/platform/metrics"
	"github.com/slada12/secure-blu-vault/internal/utils"
)

const (
	defaultPendingLimit = 50
	maxPendingLimit     = 200
)

// SettlementService resolves externally pending transfers.
type SettlementService struct {
	BaseService
	customerRepo portsrepo.CustomerReader
	txnRepo      portsrepo.TransactionRepositoryFacade
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(customerRepo portsrepo.CustomerReader, txnRepo portsrepo.TransactionRepositoryFacade, opts ...Option) *SettlementService {
	return &SettlementService{
		BaseService:  newBaseService(opts),
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
	}
}

var _ portssvc.SettlementSvcFacade = (*SettlementService)(nil)

func (s *SettlementService) ListPendingTransfers(ctx context.Context, limit int) ([]domain.PendingTransfer, error) {
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	if limit > maxPendingLimit {
		limit = maxPendingLimit
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pending, err := s.txnRepo.ListPendingTransfers(ctx, limit)
	if err != nil {
		err = storeErr(err)
		s.LogError(ctx, err, "Failed to list pending transfers")
		return nil, err
	}
	return pending, nil
}

// ApproveTransfer marks a pending transfer completed. Balances are not touched.
func (s *SettlementService) ApproveTransfer(ctx context.Context, transactionID string, adminID string) (*domain.Transaction, error) {
	return s.settle(ctx, transactionID, adminID, domain.SettlementApprove)
}

// RejectTransfer marks a pending transfer rejected and refunds the sender.
func (s *SettlementService) RejectTransfer(ctx context.Context, transactionID string, adminID string) (*domain.Transaction, error) {
	return s.settle(ctx, transactionID, adminID, domain.SettlementReject)
}

func (s *SettlementService) settle(ctx context.Context, transactionID, adminID string, action domain.SettlementAction) (*domain.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	settled, err := s.apply(ctx, transactionID, adminID, action)
	metrics.SettlementsTotal.WithLabelValues(string(action), outcomeLabel(err)).Inc()
	if err != nil {
		s.logFailure(ctx, err, "Settlement failed",
			slog.String("transaction_id", transactionID),
			slog.String("action", string(action)))
		return nil, err
	}
	s.LogInfo(ctx, "Transfer settled",
		slog.String("transaction_id", transactionID),
		slog.String("reference", settled.Reference),
		slog.String("status", string(settled.Status)))
	return settled, nil
}

func (s *SettlementService) apply(ctx context.Context, transactionID, adminID string, action domain.SettlementAction) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, storeErr(err)
	}
	// Fast path only; the store re-checks under its own guard.
	if !txn.IsPending() {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrAlreadySettled, txn.TransactionID, txn.Status)
	}
	owner, err := s.customerRepo.FindCustomerByID(ctx, txn.CustomerID)
	if err != nil {
		return nil, storeErr(err)
	}

	now := s.now()
	amount := utils.FormatMoney(txn.Amount, owner.Currency)
	recipient := txn.CounterpartyName()
	if recipient == "" {
		recipient = "Unknown"
	}

	verb, auditAction, eventType := "Approved", domain.ActionApproveTransfer, domain.EventTransferApproved
	title := "Transfer Completed"
	message := fmt.Sprintf("Your transfer of %s to %s has been completed. Ref: %s", amount, recipient, txn.Reference)
	if action == domain.SettlementReject {
		verb, auditAction, eventType = "Rejected", domain.ActionRejectTransfer, domain.EventTransferRejected
		title = "Transfer Rejected"
		message = fmt.Sprintf("Your transfer of %s to %s was rejected and the amount has been refunded. Ref: %s", amount, recipient, txn.Reference)
	}

	resolved := *txn
	resolved.Status = action.ResultingStatus()
	event, err := s.ledgerEvent(eventType, resolved, owner.Currency, adminID, now)
	if err != nil {
		return nil, err
	}
	notification := newNotification(owner.UserID, title, message, now)

	settled, err := s.txnRepo.SettleTransaction(ctx, domain.Settlement{
		TransactionID: txn.TransactionID,
		Action:        action,
		AdminID:       adminID,
		At:            now,
		Audit: newAuditEntry(adminID, auditAction, txn.CustomerID,
			fmt.Sprintf("%s transfer of %s to %s. Ref: %s", verb, amount, recipient, txn.Reference), now),
		Notification: &notification,
		Events:       []domain.OutboxMessage{event},
	})
	return settled, storeErr(err)
}

func outcomeLabel(err error) string {
	if err == nil {
		return metrics.ResultSuccess
	}
	return resultFor(err)
}
