package memory

import (
	"context"
	"time"

	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

func (s *Store) ClaimOutboxMessages(ctx context.Context, limit int, staleAfter time.Duration) ([]domain.OutboxMessage, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	out := []domain.OutboxMessage{}
	for _, row := range s.outbox {
		if len(out) == limit {
			break
		}
		due := row.status == outboxPending && !row.availableAt.After(now)
		stale := row.status == outboxProcessing && row.claimedAt.Add(staleAfter).Before(now)
		if !due && !stale {
			continue
		}
		row.status = outboxProcessing
		row.claimedAt = now
		out = append(out, row.msg)
	}
	return out, nil
}

func (s *Store) MarkOutboxPublished(ctx context.Context, id int64) error {
	return s.updateOutbox(ctx, id, func(row *outboxRow, now time.Time) {
		row.status = outboxPublished
		row.publishedAt = now
		row.lastError = ""
	})
}

func (s *Store) MarkOutboxFailed(ctx context.Context, id int64, retryAfter time.Duration, reason string) error {
	return s.updateOutbox(ctx, id, func(row *outboxRow, now time.Time) {
		row.status = outboxPending
		row.msg.Attempts++
		row.availableAt = now.Add(retryAfter)
		row.lastError = reason
	})
}

func (s *Store) updateOutbox(ctx context.Context, id int64, fn func(*outboxRow, time.Time)) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.outbox {
		if row.msg.ID == id {
			fn(row, s.clock.Now())
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *Store) PurgePublishedOutbox(ctx context.Context, before time.Time) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.outbox[:0]
	var n int64
	for _, row := range s.outbox {
		if row.status == outboxPublished && row.publishedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	s.outbox = kept
	return n, nil
}

func (s *Store) CountPendingOutbox(ctx context.Context) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, row := range s.outbox {
		if row.status != outboxPublished {
			n++
		}
	}
	return n, nil
}
