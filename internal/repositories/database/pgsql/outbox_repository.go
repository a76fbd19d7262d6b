package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/models"
	"github.com/slada12/secure-blu-vault/internal/utils/mapping"
)

type PgxOutboxRepository struct {
	BaseRepository
}

func newPgxOutboxRepository(pool *pgxpool.Pool) *PgxOutboxRepository {
	return &PgxOutboxRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OutboxRepository = (*PgxOutboxRepository)(nil)

// ClaimOutboxMessages locks due rows with SKIP LOCKED so several dispatchers can run side by side.
func (r *PgxOutboxRepository) ClaimOutboxMessages(ctx context.Context, limit int, staleAfter time.Duration) ([]domain.OutboxMessage, error) {
	query := `
		UPDATE event_outbox
		SET status = 'processing', claimed_at = now()
		WHERE id IN (
			SELECT id FROM event_outbox
			WHERE (status = 'pending' AND available_at <= now())
			   OR (status = 'processing' AND claimed_at < now() - make_interval(secs => $2))
			ORDER BY id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, exchange, routing_key, payload, attempts;
	`
	rows, err := r.Pool.Query(ctx, query, limit, staleAfter.Seconds())
	if err != nil {
		return nil, dbErr("claim outbox messages", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.OutboxEvent])
	if err != nil {
		return nil, dbErr("scan outbox messages", err)
	}
	return mapping.ToDomainOutboxMessageSlice(events), nil
}

func (r *PgxOutboxRepository) MarkOutboxPublished(ctx context.Context, id int64) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE event_outbox SET status = 'published', published_at = now(), last_error = NULL
		WHERE id = $1;
	`, id)
	if err != nil {
		return dbErr("mark outbox published", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOutboxRepository) MarkOutboxFailed(ctx context.Context, id int64, retryAfter time.Duration, reason string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE event_outbox
		SET status = 'pending', attempts = attempts + 1, last_error = $3,
		    available_at = now() + make_interval(secs => $2), claimed_at = NULL
		WHERE id = $1;
	`, id, retryAfter.Seconds(), reason)
	if err != nil {
		return dbErr("mark outbox failed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOutboxRepository) PurgePublishedOutbox(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM event_outbox WHERE status = 'published' AND published_at < $1;`, before)
	if err != nil {
		return 0, dbErr("purge outbox", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxOutboxRepository) CountPendingOutbox(ctx context.Context) (int64, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM event_outbox WHERE status <> 'published';`).Scan(&n); err != nil {
		return 0, dbErr("count outbox", err)
	}
	return n, nil
}

// enqueueEvents writes events inside the caller's transaction so they are
// published only if the change they describe is committed.
func enqueueEvents(ctx context.Context, tx pgx.Tx, events []domain.OutboxMessage) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(`INSERT INTO event_outbox (exchange, routing_key, payload) VALUES ($1, $2, $3);`,
			e.Exchange, e.RoutingKey, string(e.Payload))
	}
	return dbErr("enqueue outbox events", tx.SendBatch(ctx, batch).Close())
}
