package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/models"
	"github.com/slada12/secure-blu-vault/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditReader = (*PgxAuditRepository)(nil)

// ListAuditEntries returns audit entries newest first, optionally for one customer.
func (r *PgxAuditRepository) ListAuditEntries(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	query := `
		SELECT id, admin_id, action, target_customer_id, details, created_at
		FROM audit_logs
		WHERE ($1::uuid IS NULL OR target_customer_id = $1::uuid)
		ORDER BY created_at DESC, id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, filter.TargetCustomerID, filter.Limit)
	if err != nil {
		return nil, dbErr("list audit entries", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AuditLog])
	if err != nil {
		return nil, dbErr("scan audit entries", err)
	}
	return mapping.ToDomainAuditEntrySlice(entries), nil
}

// insertAudit appends an audit entry inside the caller's transaction.
func insertAudit(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditLog(entry)
	_, err := tx.Exec(ctx, `
		INSERT INTO audit_logs (id, admin_id, action, target_customer_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, m.AuditID, m.AdminID, m.Action, m.TargetCustomerID, m.Details, m.CreatedAt)
	return dbErr("insert audit entry", err)
}
