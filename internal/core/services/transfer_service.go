package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/slada12/secure-blu-vault/internal/platform/metrics"
)

// TransferService is the transfer engine: it validates, classifies and applies
// customer transfers.
type TransferService struct {
	BaseService
	customerRepo portsrepo.CustomerReader
	txnRepo      portsrepo.TransactionRepositoryFacade
}

// NewTransferService creates a new TransferService.
func NewTransferService(customerRepo portsrepo.CustomerReader, txnRepo portsrepo.TransactionRepositoryFacade, opts ...Option) *TransferService {
	return &TransferService{
		BaseService:  newBaseService(opts),
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
	}
}

var _ portssvc.TransferSvc = (*TransferService)(nil)

// resolvedRecipient is the outcome of classifying a transfer request.
type resolvedRecipient struct {
	classification domain.Classification
	customerID     string // internal only
	name           string
	account        string
	international  *domain.InternationalRecipient
}

// SubmitTransfer validates and applies a transfer from the customer owned by userID.
// Validation fails fast in order: eligibility, amount, funds, recipient.
func (s *TransferService) SubmitTransfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.AppliedTransfer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	applied, err := s.submit(ctx, userID, req)
	if err != nil {
		metrics.TransfersTotal.WithLabelValues("unknown", resultFor(err)).Inc()
		s.logFailure(ctx, err, "Transfer failed",
			slog.String("user_id", userID),
			slog.String("type", string(req.Type)))
		return nil, err
	}

	if applied.Replayed {
		metrics.IdempotentReplaysTotal.Inc()
		s.LogInfo(ctx, "Transfer replayed from idempotency key",
			slog.String("reference", applied.Transaction.Reference))
		return applied, nil
	}
	metrics.TransfersTotal.WithLabelValues(string(applied.Classification), metrics.ResultSuccess).Inc()
	s.LogInfo(ctx, "Transfer applied",
		slog.String("reference", applied.Transaction.Reference),
		slog.String("classification", string(applied.Classification)),
		slog.String("status", string(applied.Transaction.Status)))
	return applied, nil
}

func (s *TransferService) submit(ctx context.Context, userID string, req dto.TransferRequest) (*domain.AppliedTransfer, error) {
	sender, err := s.customerRepo.FindCustomerByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	hash, err := requestHash(req)
	if err != nil {
		return nil, err
	}
	if key != "" {
		replay, err := s.replay(ctx, sender, key, hash)
		if err != nil || replay != nil {
			return replay, err
		}
	}

	if reason, blocked := sender.SendBlocked(); blocked {
		return nil, apperrors.NewTransferForbidden(string(reason))
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !sender.CanCover(amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	recipient, err := s.resolveRecipient(ctx, sender, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var idem *domain.IdempotencyRecord
	if key != "" {
		idem = &domain.IdempotencyRecord{
			CustomerID:  sender.CustomerID,
			Key:         key,
			RequestHash: hash,
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.settings.IdempotencyTTL),
		}
	}

	return withUniqueReference(refPrefixTransfer, now, func(reference string) (*domain.AppliedTransfer, error) {
		posting, err := s.buildPosting(sender, req, amount, recipient, reference, idem)
		if err != nil {
			return nil, err
		}
		applied, err := s.txnRepo.ApplyTransfer(ctx, posting)
		return applied, storeErr(err)
	})
}

// replay returns the earlier transfer for a known idempotency key, or nil when the key is new.
func (s *TransferService) replay(ctx context.Context, sender *domain.Customer, key, hash string) (*domain.AppliedTransfer, error) {
	rec, err := s.txnRepo.FindIdempotencyRecord(ctx, sender.CustomerID, key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	if rec.RequestHash != hash {
		return nil, apperrors.ErrIdempotencyMismatch
	}
	original, err := s.txnRepo.FindTransactionByID(ctx, rec.TransactionID)
	if err != nil {
		return nil, storeErr(err)
	}
	return &domain.AppliedTransfer{
		Transaction:    *original,
		Classification: rec.Classification,
		SenderBalance:  sender.Balance,
		Replayed:       true,
	}, nil
}

// resolveRecipient classifies the transfer. A domestic account number that
// belongs to another customer is internal; anything else is external.
func (s *TransferService) resolveRecipient(ctx context.Context, sender *domain.Customer, req dto.TransferRequest) (resolvedRecipient, error) {
	switch req.Type {
	case domain.TransferDomestic:
		account := strings.TrimSpace(req.RecipientAccountNumber)
		if account == "" {
			return resolvedRecipient{}, fmt.Errorf("%w: recipient account number is required", apperrors.ErrValidation)
		}
		if account == sender.AccountNumber {
			return resolvedRecipient{}, fmt.Errorf("%w: cannot transfer to your own account", apperrors.ErrValidation)
		}
		match, err := s.customerRepo.FindCustomerByAccountNumber(ctx, account)
		switch {
		case err == nil:
			details, err := s.customerRepo.FindCustomerDetails(ctx, match.CustomerID)
			if err != nil {
				return resolvedRecipient{}, storeErr(err)
			}
			return resolvedRecipient{
				classification: domain.Internal,
				customerID:     match.CustomerID,
				name:           details.Profile.Name,
				account:        match.AccountNumber,
			}, nil
		case errors.Is(err, apperrors.ErrNotFound):
			name := strings.TrimSpace(req.RecipientName)
			if name == "" {
				return resolvedRecipient{}, fmt.Errorf("%w: recipient name is required for an external account", apperrors.ErrValidation)
			}
			return resolvedRecipient{classification: domain.External, name: name, account: account}, nil
		default:
			return resolvedRecipient{}, storeErr(err)
		}

	case domain.TransferInternational:
		if req.International == nil {
			return resolvedRecipient{}, fmt.Errorf("%w: international recipient details are required", apperrors.ErrValidation)
		}
		intl := req.International.ToDomain()
		intl.SwiftCode = strings.ToUpper(strings.TrimSpace(intl.SwiftCode))
		if err := intl.Validate(); err != nil {
			return resolvedRecipient{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		return resolvedRecipient{
			classification: domain.External,
			name:           intl.Name,
			account:        intl.AccountNumber,
			international:  &intl,
		}, nil
	}
	return resolvedRecipient{}, fmt.Errorf("%w: unknown transfer type %q", apperrors.ErrValidation, req.Type)
}

func (s *TransferService) buildPosting(sender *domain.Customer, req dto.TransferRequest, amount decimal.Decimal, r resolvedRecipient, reference string, idem *domain.IdempotencyRecord) (domain.TransferPosting, error) {
	now := s.now()
	status := domain.TxStatusPending
	eventType := domain.EventTransferPending
	if r.classification == domain.Internal {
		status = domain.TxStatusCompleted
		eventType = domain.EventTransferCompleted
	}

	description := strings.TrimSpace(req.Note)
	if description == "" {
		description = "Transfer to " + r.name
	}
	transferType := req.Type
	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		CustomerID:       sender.CustomerID,
		Type:             domain.Debit,
		Amount:           amount,
		Description:      description,
		RecipientName:    domain.StringPtr(r.name),
		RecipientAccount: domain.StringPtr(r.account),
		Reference:        reference,
		Status:           status,
		TransferType:     &transferType,
		International:    r.international,
		CreatedAt:        now,
	}
	if idem != nil {
		txn.IdempotencyKey = domain.StringPtr(idem.Key)
	}

	event, err := s.ledgerEvent(eventType, txn, sender.Currency, sender.UserID, now)
	if err != nil {
		return domain.TransferPosting{}, err
	}
	return domain.TransferPosting{
		Transaction:    txn,
		SenderID:       sender.CustomerID,
		RecipientID:    r.customerID,
		Classification: r.classification,
		Idempotency:    idem,
		Events:         []domain.OutboxMessage{event},
	}, nil
}

// requestHash fingerprints the parts of a request that define the transfer's intent.
func requestHash(req dto.TransferRequest) (string, error) {
	normalized := struct {
		Type          domain.TransferType                `json:"type"`
		Account       string                             `json:"account"`
		Name          string                             `json:"name"`
		Amount        string                             `json:"amount"`
		Note          string                             `json:"note"`
		International *dto.InternationalRecipientRequest `json:"international,omitempty"`
	}{
		Type:          req.Type,
		Account:       strings.TrimSpace(req.RecipientAccountNumber),
		Name:          strings.TrimSpace(req.RecipientName),
		Amount:        strings.TrimSpace(req.Amount),
		Note:          strings.TrimSpace(req.Note),
		International: req.International,
	}
	if amount, err := decimal.NewFromString(normalized.Amount); err == nil {
		normalized.Amount = amount.String()
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: hash transfer request: %w", apperrors.ErrInternal, err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// resultFor maps an error to a metrics result label.
func resultFor(err error) string {
	if isClientError(err) {
		return metrics.ResultRejected
	}
	return metrics.ResultFailure
}
