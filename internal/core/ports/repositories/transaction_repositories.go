package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByReference looks up a transaction owned by customerID.
	FindTransactionByReference(ctx context.Context, customerID string, reference string) (*domain.Transaction, error)

	// ListTransactionsByCustomer returns a page of a customer's transactions, newest first.
	ListTransactionsByCustomer(ctx context.Context, customerID string, params domain.PageParams) ([]domain.Transaction, *string, error)

	// ListPendingTransfers returns the settlement queue, oldest first.
	ListPendingTransfers(ctx context.Context, limit int) ([]domain.PendingTransfer, error)
}

// LedgerWriter applies balance-affecting operations. Every method is atomic:
// either all of its effects are stored or none are.
type LedgerWriter interface {
	// ApplyTransfer debits the sender, credits an internal recipient, inserts the
	// transaction and records the idempotency key. Eligibility and funds are
	// re-checked under lock. A known idempotency key yields the earlier transfer
	// with Replayed set.
	ApplyTransfer(ctx context.Context, posting domain.TransferPosting) (*domain.AppliedTransfer, error)

	// SettleTransaction resolves a pending transaction exactly once. A transaction
	// that is no longer pending yields apperrors.ErrAlreadySettled.
	SettleTransaction(ctx context.Context, settlement domain.Settlement) (*domain.Transaction, error)

	// FundAccount credits a customer and returns the new balance.
	FundAccount(ctx context.Context, posting domain.FundingPosting) (*domain.Transaction, decimal.Decimal, error)

	// InsertTransactionRecord inserts a historical entry without touching any balance.
	InsertTransactionRecord(ctx context.Context, txn domain.Transaction, audit domain.AuditEntry) error

	// EditTransaction overwrites amount and created_at without touching any balance.
	EditTransaction(ctx context.Context, edit domain.TransactionEdit) (*domain.Transaction, error)
}

// IdempotencyStore gives access to transfer idempotency records.
type IdempotencyStore interface {
	FindIdempotencyRecord(ctx context.Context, customerID string, key string) (*domain.IdempotencyRecord, error)
	PurgeExpiredIdempotencyKeys(ctx context.Context, now time.Time) (int64, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	LedgerWriter
	IdempotencyStore
}
