package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/models"
	"github.com/slada12/secure-blu-vault/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) *PgxNotificationRepository {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

func (r *PgxNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2::boolean OR read = FALSE)
		ORDER BY created_at DESC, id DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, dbErr("list notifications", err)
	}
	notifications, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Notification])
	if err != nil {
		return nil, dbErr("scan notifications", err)
	}
	return mapping.ToDomainNotificationSlice(notifications), nil
}

func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2;`, notificationID, userID)
	if err != nil {
		return dbErr("mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// insertNotification stores a notification inside the caller's transaction.
func insertNotification(ctx context.Context, tx pgx.Tx, n domain.Notification) error {
	m := mapping.ToModelNotification(n)
	_, err := tx.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, m.NotificationID, m.UserID, m.Title, m.Message, m.Read, m.CreatedAt)
	return dbErr("insert notification", err)
}
