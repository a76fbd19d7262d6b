package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/models"
	"github.com/slada12/secure-blu-vault/internal/utils/mapping"
	"github.com/slada12/secure-blu-vault/internal/utils/pagination"
)

const transactionColumns = `t.id, t.customer_id, t.type, t.amount, t.description,
	t.recipient_name, t.recipient_account, t.sender_name, t.sender_account,
	t.reference, t.status, t.transfer_type,
	t.intl_swift_code, t.intl_bank_name, t.intl_routing_number, t.intl_bank_address, t.intl_country,
	t.idempotency_key, t.settled_at, t.settled_by, t.created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates the ledger repository.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func collectTransaction(rows pgx.Rows, err error) (*domain.Transaction, error) {
	if err != nil {
		return nil, dbErr("query transaction", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, dbErr("scan transaction", err)
	}
	t := mapping.ToDomainTransaction(m)
	return &t, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return collectTransaction(r.Pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions t WHERE t.id = $1;`, transactionID))
}

func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, customerID string, reference string) (*domain.Transaction, error) {
	return collectTransaction(r.Pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.customer_id = $1 AND t.reference = $2;`,
		customerID, reference))
}

func (r *PgxTransactionRepository) ListTransactionsByCustomer(ctx context.Context, customerID string, params domain.PageParams) ([]domain.Transaction, *string, error) {
	var (
		cursorAt *time.Time
		cursorID *string
	)
	if params.NextToken != nil && *params.NextToken != "" {
		at, id, err := pagination.DecodeCursor(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorAt, cursorID = &at, &id
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.customer_id = $1
		  AND ($2::timestamptz IS NULL OR (t.created_at, t.id) < ($2::timestamptz, $3::uuid))
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, customerID, cursorAt, cursorID, params.Limit)
	if err != nil {
		return nil, nil, dbErr("list transactions", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, nil, dbErr("scan transactions", err)
	}
	txns := mapping.ToDomainTransactionSlice(ms)
	next := pagination.NextToken(txns, params.Limit, func(t domain.Transaction) (time.Time, string) {
		return t.CreatedAt, t.TransactionID
	})
	return txns, next, nil
}

// ListPendingTransfers returns the settlement queue oldest first, joined with the sender.
func (r *PgxTransactionRepository) ListPendingTransfers(ctx context.Context, limit int) ([]domain.PendingTransfer, error) {
	query := `
		SELECT ` + transactionColumns + `,
		       p.full_name AS sender_customer_name,
		       c.account_number AS sender_account_number
		FROM transactions t
		JOIN customers c ON c.id = t.customer_id
		JOIN profiles p ON p.user_id = c.user_id
		WHERE t.status = 'pending'
		ORDER BY t.created_at ASC, t.id ASC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, dbErr("list pending transfers", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PendingTransfer])
	if err != nil {
		return nil, dbErr("scan pending transfers", err)
	}
	return mapping.ToDomainPendingTransferSlice(ms), nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (
			id, customer_id, type, amount, description,
			recipient_name, recipient_account, sender_name, sender_account,
			reference, status, transfer_type,
			intl_swift_code, intl_bank_name, intl_routing_number, intl_bank_address, intl_country,
			idempotency_key, settled_at, settled_by, created_at
		)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`,
		m.TransactionID, m.CustomerID, m.Type, m.Amount.String(), m.Description,
		m.RecipientName, m.RecipientAccount, m.SenderName, m.SenderAccount,
		m.Reference, m.Status, m.TransferType,
		m.IntlSwiftCode, m.IntlBankName, m.IntlRoutingNo, m.IntlBankAddress, m.IntlCountry,
		m.IdempotencyKey, m.SettledAt, m.SettledBy, m.CreatedAt,
	)
	return dbErr("insert transaction", err)
}

// ApplyTransfer locks the involved customers, re-checks the sender against the
// locked row and writes every effect of the transfer in one transaction.
func (r *PgxTransactionRepository) ApplyTransfer(ctx context.Context, p domain.TransferPosting) (*domain.AppliedTransfer, error) {
	if !p.Transaction.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	var applied *domain.AppliedTransfer
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		ids := []string{p.SenderID}
		if p.Classification == domain.Internal {
			ids = append(ids, p.RecipientID)
		}
		locked, err := lockCustomers(ctx, tx, ids...)
		if err != nil {
			return err
		}
		sender, ok := locked[p.SenderID]
		if !ok {
			return fmt.Errorf("sender %s: %w", p.SenderID, apperrors.ErrNotFound)
		}

		// The sender row lock serializes submissions that share a key.
		if p.Idempotency != nil {
			replay, err := replayFromKey(ctx, tx, sender, *p.Idempotency)
			if err != nil || replay != nil {
				applied = replay
				return err
			}
		}

		if reason, blocked := sender.SendBlocked(); blocked {
			return apperrors.NewTransferForbidden(string(reason))
		}
		if !sender.CanCover(p.Transaction.Amount) {
			return apperrors.ErrInsufficientFunds
		}
		if p.Classification == domain.Internal {
			if _, ok := locked[p.RecipientID]; !ok {
				return fmt.Errorf("recipient %s: %w", p.RecipientID, apperrors.ErrNotFound)
			}
		}

		if err := insertTransaction(ctx, tx, p.Transaction); err != nil {
			return err
		}
		at := p.Transaction.CreatedAt
		balance, err := adjustBalance(ctx, tx, sender.CustomerID, p.Transaction.Amount.Neg(), at)
		if err != nil {
			return err
		}
		if p.Classification == domain.Internal {
			if _, err := adjustBalance(ctx, tx, p.RecipientID, p.Transaction.Amount, at); err != nil {
				return err
			}
		}
		if p.Idempotency != nil {
			rec := *p.Idempotency
			_, err := tx.Exec(ctx, `
				INSERT INTO idempotency_keys (customer_id, key, request_hash, transaction_id, classification, created_at, expires_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7);
			`, sender.CustomerID, rec.Key, rec.RequestHash, p.Transaction.TransactionID, string(p.Classification), rec.CreatedAt, rec.ExpiresAt)
			if err != nil {
				return dbErr("insert idempotency key", err)
			}
		}
		if err := enqueueEvents(ctx, tx, p.Events); err != nil {
			return err
		}

		applied = &domain.AppliedTransfer{
			Transaction:    p.Transaction,
			Classification: p.Classification,
			SenderBalance:  balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// replayFromKey returns the earlier transfer for a known key, or nil when the key is new.
func replayFromKey(ctx context.Context, tx pgx.Tx, sender domain.Customer, idem domain.IdempotencyRecord) (*domain.AppliedTransfer, error) {
	rec, err := findIdempotencyRecord(ctx, tx, sender.CustomerID, idem.Key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.RequestHash != idem.RequestHash {
		return nil, apperrors.ErrIdempotencyMismatch
	}
	original, err := collectTransaction(tx.Query(ctx, `SELECT `+transactionColumns+` FROM transactions t WHERE t.id = $1;`, rec.TransactionID))
	if err != nil {
		return nil, err
	}
	return &domain.AppliedTransfer{
		Transaction:    *original,
		Classification: rec.Classification,
		SenderBalance:  sender.Balance,
		Replayed:       true,
	}, nil
}

// SettleTransaction flips a pending transaction with a conditional update, so
// of two concurrent settlements exactly one matches a row.
func (r *PgxTransactionRepository) SettleTransaction(ctx context.Context, st domain.Settlement) (*domain.Transaction, error) {
	var settled *domain.Transaction
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		settled, err = collectTransaction(tx.Query(ctx, `
			UPDATE transactions t
			SET status = $2, settled_at = $3, settled_by = $4
			WHERE t.id = $1 AND t.status = 'pending'
			RETURNING `+transactionColumns+`;
		`, st.TransactionID, string(st.Action.ResultingStatus()), st.At, st.AdminID))
		if errors.Is(err, apperrors.ErrNotFound) {
			var status string
			lookup := tx.QueryRow(ctx, `SELECT status FROM transactions WHERE id = $1;`, st.TransactionID).Scan(&status)
			if lookup != nil {
				return dbErr("find transaction", lookup)
			}
			return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrAlreadySettled, st.TransactionID, status)
		}
		if err != nil {
			return err
		}

		if st.Action == domain.SettlementReject {
			if _, err := adjustBalance(ctx, tx, settled.CustomerID, settled.Amount, st.At); err != nil {
				return err
			}
		}
		if err := insertAudit(ctx, tx, st.Audit); err != nil {
			return err
		}
		if st.Notification != nil {
			if err := insertNotification(ctx, tx, *st.Notification); err != nil {
				return err
			}
		}
		return enqueueEvents(ctx, tx, st.Events)
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func (r *PgxTransactionRepository) FundAccount(ctx context.Context, p domain.FundingPosting) (*domain.Transaction, decimal.Decimal, error) {
	if !p.Transaction.Amount.IsPositive() {
		return nil, decimal.Zero, apperrors.ErrInvalidAmount
	}
	var balance decimal.Decimal
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		balance, err = adjustBalance(ctx, tx, p.CustomerID, p.Transaction.Amount, p.Transaction.CreatedAt)
		if err != nil {
			return err
		}
		if err := insertTransaction(ctx, tx, p.Transaction); err != nil {
			return err
		}
		if err := insertAudit(ctx, tx, p.Audit); err != nil {
			return err
		}
		if err := insertNotification(ctx, tx, p.Notification); err != nil {
			return err
		}
		return enqueueEvents(ctx, tx, p.Events)
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	txn := p.Transaction
	return &txn, balance, nil
}

func (r *PgxTransactionRepository) InsertTransactionRecord(ctx context.Context, txn domain.Transaction, audit domain.AuditEntry) error {
	if !txn.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertTransaction(ctx, tx, txn); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}

func (r *PgxTransactionRepository) EditTransaction(ctx context.Context, edit domain.TransactionEdit) (*domain.Transaction, error) {
	if !edit.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	var edited *domain.Transaction
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var status, reference string
		err := tx.QueryRow(ctx, `
			SELECT status, reference FROM transactions WHERE id = $1 FOR UPDATE;
		`, edit.TransactionID).Scan(&status, &reference)
		if err != nil {
			return dbErr("lock transaction", err)
		}
		if domain.TransactionStatus(status) == domain.TxStatusPending {
			return fmt.Errorf("%w: transaction %s is awaiting settlement", apperrors.ErrConflict, reference)
		}

		edited, err = collectTransaction(tx.Query(ctx, `
			UPDATE transactions t
			SET amount = $2::numeric, created_at = $3
			WHERE t.id = $1 AND t.status <> 'pending'
			RETURNING `+transactionColumns+`;
		`, edit.TransactionID, edit.Amount.String(), edit.CreatedAt))
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, edit.Audit)
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

func (r *PgxTransactionRepository) FindIdempotencyRecord(ctx context.Context, customerID string, key string) (*domain.IdempotencyRecord, error) {
	return findIdempotencyRecord(ctx, r.Pool, customerID, key)
}

func findIdempotencyRecord(ctx context.Context, q querier, customerID, key string) (*domain.IdempotencyRecord, error) {
	rows, err := q.Query(ctx, `
		SELECT customer_id, key, request_hash, transaction_id, classification, created_at, expires_at
		FROM idempotency_keys
		WHERE customer_id = $1 AND key = $2;
	`, customerID, key)
	if err != nil {
		return nil, dbErr("find idempotency key", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.IdempotencyKey])
	if err != nil {
		return nil, dbErr("scan idempotency key", err)
	}
	rec := mapping.ToDomainIdempotencyRecord(m)
	return &rec, nil
}

func (r *PgxTransactionRepository) PurgeExpiredIdempotencyKeys(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < $1;`, now)
	if err != nil {
		return 0, dbErr("purge idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
