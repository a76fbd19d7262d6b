package pgsql

import (
	"context"
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

const customerColumns = `c.id, c.user_id, c.account_number, c.routing_number, c.balance, c.currency,
	c.status, c.card_status, c.can_send_money, c.can_login, c.created_at, c.updated_at`

const profileColumns = `p.full_name, p.email, p.phone, p.date_of_birth, p.home_address, p.nationality, p.avatar_url`

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer accounts and profiles.
func newPgxCustomerRepository(pool *pgxpool.Pool) *PgxCustomerRepository {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

func (r *PgxCustomerRepository) findOne(ctx context.Context, where string, arg any) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE ` + where + `;`
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, dbErr("find customer", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Customer])
	if err != nil {
		return nil, dbErr("scan customer", err)
	}
	c := mapping.ToDomainCustomer(m)
	return &c, nil
}

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return r.findOne(ctx, `c.id = $1`, customerID)
}

func (r *PgxCustomerRepository) FindCustomerByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	return r.findOne(ctx, `c.user_id = $1`, userID)
}

func (r *PgxCustomerRepository) FindCustomerByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error) {
	return r.findOne(ctx, `c.account_number = $1`, accountNumber)
}

func (r *PgxCustomerRepository) FindCustomerDetails(ctx context.Context, customerID string) (*domain.CustomerDetails, error) {
	return findCustomerDetails(ctx, r.Pool, customerID)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func findCustomerDetails(ctx context.Context, q querier, customerID string) (*domain.CustomerDetails, error) {
	query := `
		SELECT ` + customerColumns + `, ` + profileColumns + `
		FROM customers c
		JOIN profiles p ON p.user_id = c.user_id
		WHERE c.id = $1;
	`
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, dbErr("find customer details", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CustomerWithProfile])
	if err != nil {
		return nil, dbErr("scan customer details", err)
	}
	d := mapping.ToDomainCustomerDetails(m)
	return &d, nil
}

// ListCustomers pages through customers newest first using a (created_at, id) cursor.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, params domain.PageParams) ([]domain.CustomerDetails, *string, error) {
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
		SELECT ` + customerColumns + `, ` + profileColumns + `
		FROM customers c
		JOIN profiles p ON p.user_id = c.user_id
		WHERE ($1::timestamptz IS NULL OR (c.created_at, c.id) < ($1::timestamptz, $2::uuid))
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, cursorAt, cursorID, params.Limit)
	if err != nil {
		return nil, nil, dbErr("list customers", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CustomerWithProfile])
	if err != nil {
		return nil, nil, dbErr("scan customers", err)
	}
	details := mapping.ToDomainCustomerDetailsSlice(ms)
	next := pagination.NextToken(details, params.Limit, func(d domain.CustomerDetails) (time.Time, string) {
		return d.CreatedAt, d.CustomerID
	})
	return details, next, nil
}

func (r *PgxCustomerRepository) SearchByAccountNumber(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error) {
	query := `
		SELECT c.id, p.full_name, c.account_number
		FROM customers c
		JOIN profiles p ON p.user_id = c.user_id
		WHERE c.account_number LIKE $1 AND c.id <> $2::uuid
		ORDER BY c.account_number
		LIMIT $3;
	`
	return r.search(ctx, query, containsPattern(fragment), excludeCustomerID, limit)
}

func (r *PgxCustomerRepository) SearchByName(ctx context.Context, fragment string, excludeCustomerID string, limit int) ([]domain.Recipient, error) {
	query := `
		SELECT c.id, p.full_name, c.account_number
		FROM customers c
		JOIN profiles p ON p.user_id = c.user_id
		WHERE p.full_name ILIKE $1 AND c.id <> $2::uuid
		ORDER BY p.full_name, c.account_number
		LIMIT $3;
	`
	return r.search(ctx, query, containsPattern(fragment), excludeCustomerID, limit)
}

func (r *PgxCustomerRepository) search(ctx context.Context, query, pattern, excludeCustomerID string, limit int) ([]domain.Recipient, error) {
	rows, err := r.Pool.Query(ctx, query, pattern, excludeCustomerID, limit)
	if err != nil {
		return nil, dbErr("search recipients", err)
	}
	hits, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RecipientRow])
	if err != nil {
		return nil, dbErr("scan recipients", err)
	}
	return mapping.ToDomainRecipientSlice(hits), nil
}

// ProvisionCustomer inserts the profile and the customer row together. Balance, status,
// permissions and account_number take their column defaults.
func (r *PgxCustomerRepository) ProvisionCustomer(ctx context.Context, p domain.CustomerProvision) (*domain.CustomerDetails, error) {
	var details *domain.CustomerDetails
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		m := mapping.ToModelProfile(p.Profile)
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (user_id, full_name, email, phone, date_of_birth, home_address, nationality, avatar_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, m.UserID, m.FullName, m.Email, m.Phone, m.DateOfBirth, m.HomeAddress, m.Nationality, m.AvatarURL)
		if err != nil {
			return dbErr("insert profile", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO customers (id, user_id, routing_number, currency, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5);
		`, p.CustomerID, m.UserID, domain.StringPtr(p.RoutingNumber), p.Currency, p.CreatedAt)
		if err != nil {
			return dbErr("insert customer", err)
		}
		if p.Audit != nil {
			if err := insertAudit(ctx, tx, *p.Audit); err != nil {
				return err
			}
		}
		details, err = findCustomerDetails(ctx, tx, p.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateStatus writes the whole flag bundle of a status transition together with its audit entry.
func (r *PgxCustomerRepository) UpdateStatus(ctx context.Context, customerID string, change domain.StatusChange, audit domain.AuditEntry) (*domain.Customer, error) {
	query := `
		UPDATE customers c
		SET status = $2, can_send_money = $3, can_login = $4, updated_at = now()
		WHERE c.id = $1
		RETURNING ` + customerColumns + `;
	`
	return r.mutate(ctx, audit, query, customerID, string(change.Status), change.CanSendMoney, change.CanLogin)
}

func (r *PgxCustomerRepository) SetPermission(ctx context.Context, customerID string, permission domain.Permission, enabled bool, audit domain.AuditEntry) (*domain.Customer, error) {
	var column string
	switch permission {
	case domain.PermissionSendMoney:
		column = "can_send_money"
	case domain.PermissionLogin:
		column = "can_login"
	default:
		return nil, fmt.Errorf("%w: unknown permission %q", apperrors.ErrValidation, permission)
	}
	query := `
		UPDATE customers c
		SET ` + column + ` = $2, updated_at = now()
		WHERE c.id = $1
		RETURNING ` + customerColumns + `;
	`
	return r.mutate(ctx, audit, query, customerID, enabled)
}

func (r *PgxCustomerRepository) mutate(ctx context.Context, audit domain.AuditEntry, query string, args ...any) (*domain.Customer, error) {
	var updated domain.Customer
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return dbErr("update customer", err)
		}
		m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Customer])
		if err != nil {
			return dbErr("scan updated customer", err)
		}
		updated = mapping.ToDomainCustomer(m)
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateProfile overwrites the profile and display currency. The balance is left as stored.
func (r *PgxCustomerRepository) UpdateProfile(ctx context.Context, customerID string, profile domain.Profile, currency string, audit domain.AuditEntry) (*domain.CustomerDetails, error) {
	var details *domain.CustomerDetails
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var userID string
		err := tx.QueryRow(ctx, `
			UPDATE customers SET currency = $2, updated_at = now() WHERE id = $1 RETURNING user_id;
		`, customerID, currency).Scan(&userID)
		if err != nil {
			return dbErr("update customer currency", err)
		}

		p := mapping.ToModelProfile(profile)
		_, err = tx.Exec(ctx, `
			UPDATE profiles
			SET full_name = $2, email = $3, phone = $4, date_of_birth = $5, home_address = $6, nationality = $7
			WHERE user_id = $1;
		`, userID, p.FullName, p.Email, p.Phone, p.DateOfBirth, p.HomeAddress, p.Nationality)
		if err != nil {
			return dbErr("update profile", err)
		}
		if err := insertAudit(ctx, tx, audit); err != nil {
			return err
		}
		details, err = findCustomerDetails(ctx, tx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// lockCustomers locks the given customers in id order so concurrent postings cannot deadlock.
func lockCustomers(ctx context.Context, tx pgx.Tx, ids ...string) (map[string]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = ANY($1::uuid[]) ORDER BY c.id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, dbErr("lock customers", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Customer])
	if err != nil {
		return nil, dbErr("scan locked customers", err)
	}
	out := make(map[string]domain.Customer, len(ms))
	for _, m := range ms {
		out[m.CustomerID] = mapping.ToDomainCustomer(m)
	}
	return out, nil
}

// adjustBalance applies delta atomically and returns the new balance.
func adjustBalance(ctx context.Context, tx pgx.Tx, customerID string, delta decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE customers SET balance = balance + $2::numeric, updated_at = $3
		WHERE id = $1
		RETURNING balance;
	`, customerID, delta.String(), at).Scan(&balance)
	return balance, dbErr("adjust balance", err)
}
