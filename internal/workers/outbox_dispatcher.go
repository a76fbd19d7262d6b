// Package workers runs the background jobs of the vault: outbox delivery and
// periodic store maintenance.
package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/platform/metrics"
)

const (
	maxBackoffShift = 8
	maxBackoff      = 300 * time.Second
)

// EventPublisher delivers one encoded event.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, payload []byte) error
}

// DispatcherConfig tunes the outbox dispatcher.
type DispatcherConfig struct {
	PollInterval   time.Duration
	BatchSize      int
	StaleAfter     time.Duration // processing rows older than this are claimed again
	PublishTimeout time.Duration
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 1200 * time.Millisecond
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 2 * time.Minute
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 5 * time.Second
	}
	return c
}

// OutboxDispatcher moves committed ledger events from the outbox to the broker.
// Delivery is at least once: a message is marked published only after the
// broker accepted it.
type OutboxDispatcher struct {
	repo      portsrepo.OutboxRepository
	publisher EventPublisher
	cfg       DispatcherConfig
	logger    *slog.Logger
}

func NewOutboxDispatcher(repo portsrepo.OutboxRepository, publisher EventPublisher, cfg DispatcherConfig, logger *slog.Logger) *OutboxDispatcher {
	return &OutboxDispatcher{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg.withDefaults(),
		logger:    logger.With(slog.String("component", "outbox_dispatcher")),
	}
}

// Run polls until ctx is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	d.logger.Info("Outbox dispatcher started",
		slog.Duration("poll_interval", d.cfg.PollInterval),
		slog.Int("batch_size", d.cfg.BatchSize))

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			// Drain full batches before waiting for the next tick.
			for {
				n, err := d.DispatchOnce(ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						d.logger.Error("Outbox dispatch failed", slog.String("error", err.Error()))
					}
					break
				}
				if n < d.cfg.BatchSize {
					break
				}
			}
		}
	}
}

// DispatchOnce claims one batch and tries to publish every message in it.
// It returns the number of messages claimed.
func (d *OutboxDispatcher) DispatchOnce(ctx context.Context) (int, error) {
	messages, err := d.repo.ClaimOutboxMessages(ctx, d.cfg.BatchSize, d.cfg.StaleAfter)
	if err != nil {
		return 0, err
	}

	for _, msg := range messages {
		pubCtx, cancel := context.WithTimeout(ctx, d.cfg.PublishTimeout)
		pubErr := d.publisher.Publish(pubCtx, msg.Exchange, msg.RoutingKey, msg.Payload)
		cancel()

		if pubErr != nil {
			retryAfter := Backoff(msg.Attempts + 1)
			d.logger.Warn("Outbox publish failed",
				slog.Int64("outbox_id", msg.ID),
				slog.String("routing_key", msg.RoutingKey),
				slog.Int("attempts", msg.Attempts+1),
				slog.Duration("retry_after", retryAfter),
				slog.String("error", pubErr.Error()))
			metrics.OutboxPublishedTotal.WithLabelValues(metrics.ResultFailure).Inc()
			if err := d.repo.MarkOutboxFailed(ctx, msg.ID, retryAfter, pubErr.Error()); err != nil {
				return len(messages), err
			}
			continue
		}

		metrics.OutboxPublishedTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		if err := d.repo.MarkOutboxPublished(ctx, msg.ID); err != nil {
			return len(messages), err
		}
	}

	if pending, err := d.repo.CountPendingOutbox(ctx); err == nil {
		metrics.OutboxPending.Set(float64(pending))
	}
	return len(messages), nil
}

// Backoff returns the delay before the next delivery attempt after the given
// number of failed attempts.
func Backoff(attempts int) time.Duration {
	shift := min(max(attempts, 0), maxBackoffShift)
	return min(time.Duration(1<<shift)*time.Second, maxBackoff)
}
