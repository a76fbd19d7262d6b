package services

import (
	"context"
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
	"github.com/slada12/secure-blu-vault/internal/utils"
)

// FundingService lets administrators credit accounts and correct transaction history.
type FundingService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	txnRepo      portsrepo.TransactionRepositoryFacade
}

// NewFundingService creates a new FundingService.
func NewFundingService(customerRepo portsrepo.CustomerRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, opts ...Option) *FundingService {
	return &FundingService{
		BaseService:  newBaseService(opts),
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
	}
}

var _ portssvc.FundingSvcFacade = (*FundingService)(nil)

// FundAccount credits the customer. The balance change, credit transaction,
// audit entry, notification and ledger event are stored together.
func (s *FundingService) FundAccount(ctx context.Context, customerID string, req dto.FundAccountRequest, adminID string) (*domain.Transaction, decimal.Decimal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	txn, balance, err := s.fund(ctx, customerID, req, adminID)
	metrics.FundingsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		s.logFailure(ctx, err, "Failed to fund account", slog.String("customer_id", customerID))
		return nil, decimal.Zero, err
	}
	s.LogInfo(ctx, "Account funded",
		slog.String("customer_id", customerID),
		slog.String("reference", txn.Reference),
		slog.String("balance", balance.StringFixed(2)))
	return txn, balance, nil
}

type fundingResult struct {
	txn     *domain.Transaction
	balance decimal.Decimal
}

func (s *FundingService) fund(ctx context.Context, customerID string, req dto.FundAccountRequest, adminID string) (*domain.Transaction, decimal.Decimal, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, decimal.Zero, err
	}
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, decimal.Zero, storeErr(err)
	}

	now := s.now()
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Account funding"
	}
	formatted := utils.FormatMoney(amount, customer.Currency)
	message := fmt.Sprintf("Your account has been credited with %s.", formatted)
	if strings.TrimSpace(req.Description) != "" {
		message = fmt.Sprintf("Your account has been credited with %s: %s", formatted, description)
	}

	res, err := withUniqueReference(refPrefixFunding, now, func(reference string) (fundingResult, error) {
		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			CustomerID:    customer.CustomerID,
			Type:          domain.Credit,
			Amount:        amount,
			Description:   description,
			SenderName:    domain.StringPtr(s.settings.InstitutionName + " Admin"),
			Reference:     reference,
			Status:        domain.TxStatusCompleted,
			CreatedAt:     now,
		}
		event, err := s.ledgerEvent(domain.EventAccountFunded, txn, customer.Currency, adminID, now)
		if err != nil {
			return fundingResult{}, err
		}
		stored, balance, err := s.txnRepo.FundAccount(ctx, domain.FundingPosting{
			CustomerID:   customer.CustomerID,
			Transaction:  txn,
			Audit:        newAuditEntry(adminID, domain.ActionFundAccount, customer.CustomerID, fmt.Sprintf("Funded account with %s. Ref: %s", formatted, reference), now),
			Notification: newNotification(customer.UserID, "Funds Received", message, now),
			Events:       []domain.OutboxMessage{event},
		})
		return fundingResult{txn: stored, balance: balance}, storeErr(err)
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return res.txn, res.balance, nil
}

// AddTransactionRecord inserts a completed historical entry with an admin-chosen
// date. The customer's balance is deliberately left untouched.
func (s *FundingService) AddTransactionRecord(ctx context.Context, customerID string, req dto.AddTransactionRequest, adminID string) (*domain.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.LogWarn(ctx, err, "Invalid amount for transaction record")
		return nil, err
	}
	if req.Type != domain.Credit && req.Type != domain.Debit {
		return nil, fmt.Errorf("%w: type must be credit or debit", apperrors.ErrValidation)
	}
	if req.CreatedAt.IsZero() {
		return nil, fmt.Errorf("%w: createdAt is required", apperrors.ErrValidation)
	}
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for transaction record", slog.String("customer_id", customerID))
		return nil, err
	}

	now := s.now()
	txn, err := withUniqueReference(refPrefixTransfer, now, func(reference string) (*domain.Transaction, error) {
		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			CustomerID:    customer.CustomerID,
			Type:          req.Type,
			Amount:        amount,
			Description:   strings.TrimSpace(req.Description),
			Reference:     reference,
			Status:        domain.TxStatusCompleted,
			CreatedAt:     req.CreatedAt.UTC(),
		}
		if req.Type == domain.Credit {
			txn.SenderName = domain.StringPtr(req.CounterpartyName)
			txn.SenderAccount = domain.StringPtr(req.CounterpartyAccount)
		} else {
			txn.RecipientName = domain.StringPtr(req.CounterpartyName)
			txn.RecipientAccount = domain.StringPtr(req.CounterpartyAccount)
		}
		details := fmt.Sprintf("Added %s transaction of %s. Ref: %s", req.Type, utils.FormatMoney(amount, customer.Currency), reference)
		err := s.txnRepo.InsertTransactionRecord(ctx, txn, newAuditEntry(adminID, domain.ActionAddTransaction, customer.CustomerID, details, now))
		return &txn, storeErr(err)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to add transaction record", slog.String("customer_id", customerID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction record added",
		slog.String("customer_id", customerID),
		slog.String("reference", txn.Reference))
	return txn, nil
}

// EditTransaction overwrites amount and created_at of a settled or completed
// transaction. Balances are not adjusted.
func (s *FundingService) EditTransaction(ctx context.Context, transactionID string, req dto.EditTransactionRequest, adminID string) (*domain.Transaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.LogWarn(ctx, err, "Invalid amount for transaction edit")
		return nil, err
	}
	if req.CreatedAt.IsZero() {
		return nil, fmt.Errorf("%w: createdAt is required", apperrors.ErrValidation)
	}
	current, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load transaction for edit", slog.String("transaction_id", transactionID))
		return nil, err
	}
	// A pending row still has to be settled for the amount that was debited.
	if current.IsPending() {
		err := fmt.Errorf("%w: transaction %s is awaiting settlement", apperrors.ErrConflict, current.Reference)
		s.LogWarn(ctx, err, "Refusing to edit pending transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	details := fmt.Sprintf("Edited transaction %s: amount %s to %s, date %s to %s",
		current.Reference,
		current.Amount.StringFixed(2), amount.StringFixed(2),
		current.CreatedAt.Format("2006-01-02"), req.CreatedAt.UTC().Format("2006-01-02"))

	edited, err := s.txnRepo.EditTransaction(ctx, domain.TransactionEdit{
		TransactionID: transactionID,
		Amount:        amount,
		CreatedAt:     req.CreatedAt.UTC(),
		Audit:         newAuditEntry(adminID, domain.ActionEditTransaction, current.CustomerID, details, s.now()),
	})
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to edit transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction edited", slog.String("reference", edited.Reference))
	return edited, nil
}

// EditCustomerProfile overwrites profile fields and the display currency.
// The balance number is kept as is; no conversion takes place.
func (s *FundingService) EditCustomerProfile(ctx context.Context, customerID string, req dto.UpdateCustomerProfileRequest, adminID string) (*domain.CustomerDetails, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	update := req.ToDomain()
	if update.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*update.Currency))
		if !domain.IsCurrencyCode(code) {
			return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, *update.Currency)
		}
		update.Currency = &code
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
	}

	current, err := s.customerRepo.FindCustomerDetails(ctx, customerID)
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to load customer for profile edit", slog.String("customer_id", customerID))
		return nil, err
	}
	profile, currency := update.ApplyTo(current.Profile, current.Currency)

	details := "Updated customer profile"
	if currency != current.Currency {
		details = fmt.Sprintf("Updated customer profile; currency %s to %s", current.Currency, currency)
	}
	updated, err := s.customerRepo.UpdateProfile(ctx, customerID, profile, currency,
		newAuditEntry(adminID, domain.ActionEditCustomerProfile, customerID, details, s.now()))
	if err != nil {
		err = storeErr(err)
		s.logFailure(ctx, err, "Failed to update customer profile", slog.String("customer_id", customerID))
		return nil, err
	}
	s.LogInfo(ctx, "Customer profile updated", slog.String("customer_id", customerID))
	return updated, nil
}
