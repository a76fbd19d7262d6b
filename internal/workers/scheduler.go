package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/platform/clock"
	"github.com/slada12/secure-blu-vault/internal/platform/metrics"
)

// Job names used in logs and metric labels.
const (
	JobPurgeIdempotencyKeys = "purge_idempotency_keys"
	JobPurgePublishedOutbox = "purge_published_outbox"
)

// MaintenanceJobs removes rows that are no longer needed.
type MaintenanceJobs struct {
	idempotency     portsrepo.IdempotencyStore
	outbox          portsrepo.OutboxRepository
	clock           clock.Clock
	outboxRetention time.Duration
	timeout         time.Duration
	logger          *slog.Logger
}

func NewMaintenanceJobs(idempotency portsrepo.IdempotencyStore, outbox portsrepo.OutboxRepository, clk clock.Clock, outboxRetention, timeout time.Duration, logger *slog.Logger) *MaintenanceJobs {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MaintenanceJobs{
		idempotency:     idempotency,
		outbox:          outbox,
		clock:           clk,
		outboxRetention: outboxRetention,
		timeout:         timeout,
		logger:          logger.With(slog.String("component", "maintenance")),
	}
}

// PurgeIdempotencyKeys deletes idempotency records whose TTL has passed.
func (j *MaintenanceJobs) PurgeIdempotencyKeys() {
	j.run(JobPurgeIdempotencyKeys, func(ctx context.Context) (int64, error) {
		return j.idempotency.PurgeExpiredIdempotencyKeys(ctx, j.clock.Now())
	})
}

// PurgePublishedOutbox deletes published outbox rows older than the retention window.
func (j *MaintenanceJobs) PurgePublishedOutbox() {
	j.run(JobPurgePublishedOutbox, func(ctx context.Context) (int64, error) {
		return j.outbox.PurgePublishedOutbox(ctx, j.clock.Now().Add(-j.outboxRetention))
	})
}

func (j *MaintenanceJobs) run(job string, fn func(ctx context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	deleted, err := fn(ctx)
	if err != nil {
		j.logger.Error("Maintenance job failed", slog.String("job", job), slog.String("error", err.Error()))
		metrics.MaintenanceRunsTotal.WithLabelValues(job, metrics.ResultFailure).Inc()
		return
	}
	metrics.MaintenanceRunsTotal.WithLabelValues(job, metrics.ResultSuccess).Inc()
	metrics.MaintenanceDeletedTotal.WithLabelValues(job).Add(float64(deleted))
	j.logger.Info("Maintenance job finished", slog.String("job", job), slog.Int64("deleted", deleted))
}

// Scheduler runs the maintenance jobs on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	jobs     *MaintenanceJobs
	schedule string
	logger   *slog.Logger
}

func NewScheduler(jobs *MaintenanceJobs, schedule string, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger))),
		jobs:     jobs,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() error {
	for name, fn := range map[string]func(){
		JobPurgeIdempotencyKeys: s.jobs.PurgeIdempotencyKeys,
		JobPurgePublishedOutbox: s.jobs.PurgePublishedOutbox,
	} {
		if _, err := s.cron.AddFunc(s.schedule, fn); err != nil {
			return err
		}
		s.logger.Info("Scheduled maintenance job", slog.String("job", name), slog.String("schedule", s.schedule))
	}
	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done when running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
