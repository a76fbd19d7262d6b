package repositories

import (
	"context"
	"time"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// OutboxRepository is used by the outbox dispatcher. Messages are enqueued by
// LedgerWriter and CardRequestWriter inside their own store transactions.
type OutboxRepository interface {
	// ClaimOutboxMessages marks up to limit due messages as processing and returns them.
	// Messages stuck in processing longer than staleAfter are claimed again.
	ClaimOutboxMessages(ctx context.Context, limit int, staleAfter time.Duration) ([]domain.OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, id int64) error
	MarkOutboxFailed(ctx context.Context, id int64, retryAfter time.Duration, reason string) error
	PurgePublishedOutbox(ctx context.Context, before time.Time) (int64, error)
	CountPendingOutbox(ctx context.Context) (int64, error)
}
