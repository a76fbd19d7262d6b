package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/models"
	"github.com/slada12/secure-blu-vault/internal/utils/mapping"
)

const cardRequestColumns = `id, customer_id, card_type, status, created_at, processed_at, processed_by`

type PgxCardRequestRepository struct {
	BaseRepository
}

func newPgxCardRequestRepository(pool *pgxpool.Pool) *PgxCardRequestRepository {
	return &PgxCardRequestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CardRequestRepositoryFacade = (*PgxCardRequestRepository)(nil)

func collectCardRequest(rows pgx.Rows, err error) (*domain.CardRequest, error) {
	if err != nil {
		return nil, dbErr("query card request", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CardRequest])
	if err != nil {
		return nil, dbErr("scan card request", err)
	}
	req := mapping.ToDomainCardRequest(m)
	return &req, nil
}

func (r *PgxCardRequestRepository) FindCardRequestByID(ctx context.Context, requestID string) (*domain.CardRequest, error) {
	return collectCardRequest(r.Pool.Query(ctx, `SELECT `+cardRequestColumns+` FROM card_requests WHERE id = $1;`, requestID))
}

func (r *PgxCardRequestRepository) ListCardRequests(ctx context.Context, status *domain.CardRequestStatus, limit int) ([]domain.CardRequest, error) {
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+cardRequestColumns+`
		FROM card_requests
		WHERE ($1::text IS NULL OR status = $1::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $2;
	`, filter, limit)
	if err != nil {
		return nil, dbErr("list card requests", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CardRequest])
	if err != nil {
		return nil, dbErr("scan card requests", err)
	}
	return mapping.ToDomainCardRequestSlice(ms), nil
}

// CreateCardRequest relies on the partial unique index over pending requests
// to reject a second pending application.
func (r *PgxCardRequestRepository) CreateCardRequest(ctx context.Context, request domain.CardRequest) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO card_requests (id, customer_id, card_type, status, created_at)
			VALUES ($1, $2, $3, $4, $5);
		`, request.RequestID, request.CustomerID, string(request.CardType), string(request.Status), request.CreatedAt)
		if err != nil {
			err = dbErr("insert card request", err)
			if errors.Is(err, apperrors.ErrDuplicate) {
				return fmt.Errorf("%w: a card request is already pending", apperrors.ErrDuplicate)
			}
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE customers SET card_status = 'pending', updated_at = $2 WHERE id = $1;`,
			request.CustomerID, request.CreatedAt)
		if err != nil {
			return dbErr("update card status", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func (r *PgxCardRequestRepository) ResolveCardRequest(ctx context.Context, decision domain.CardDecision) (*domain.CardRequest, error) {
	var resolved *domain.CardRequest
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		resolved, err = collectCardRequest(tx.Query(ctx, `
			UPDATE card_requests
			SET status = $2, processed_at = $3, processed_by = $4
			WHERE id = $1 AND status = 'pending'
			RETURNING `+cardRequestColumns+`;
		`, decision.RequestID, string(decision.Status), decision.At, decision.AdminID))
		if errors.Is(err, apperrors.ErrNotFound) {
			var status string
			if lookup := tx.QueryRow(ctx, `SELECT status FROM card_requests WHERE id = $1;`, decision.RequestID).Scan(&status); lookup != nil {
				return dbErr("find card request", lookup)
			}
			return fmt.Errorf("%w: card request is already %s", apperrors.ErrConflict, status)
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE customers SET card_status = $2, updated_at = $3 WHERE id = $1;`,
			resolved.CustomerID, string(decision.Status), decision.At); err != nil {
			return dbErr("update card status", err)
		}
		if err := insertAudit(ctx, tx, decision.Audit); err != nil {
			return err
		}
		if err := insertNotification(ctx, tx, decision.Notification); err != nil {
			return err
		}
		return enqueueEvents(ctx, tx, decision.Events)
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
