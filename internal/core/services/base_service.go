package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/middleware"
	"github.com/slada12/secure-blu-vault/internal/platform/clock"
	"github.com/slada12/secure-blu-vault/internal/platform/config"
)

// Settings are the tunables shared by all services.
type Settings struct {
	StoreTimeout    time.Duration
	IdempotencyTTL  time.Duration
	InstitutionName string
	EventsExchange  string
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		StoreTimeout:    5 * time.Second,
		IdempotencyTTL:  24 * time.Hour,
		InstitutionName: "NexusBank",
		EventsExchange:  "vault.events",
	}
}

// SettingsFromConfig extracts the service settings from the application config.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if cfg.StoreTimeout > 0 {
		s.StoreTimeout = cfg.StoreTimeout
	}
	if cfg.IdempotencyKeyTTL > 0 {
		s.IdempotencyTTL = cfg.IdempotencyKeyTTL
	}
	if cfg.InstitutionName != "" {
		s.InstitutionName = cfg.InstitutionName
	}
	if cfg.EventsExchange != "" {
		s.EventsExchange = cfg.EventsExchange
	}
	return s
}

// BaseService provides common functionality for all services
type BaseService struct {
	clock    clock.Clock
	settings Settings
}

// Option is a functional option shared by every service constructor.
type Option func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *BaseService) {
		s.clock = c
	}
}

// WithSettings overrides the default settings.
func WithSettings(settings Settings) Option {
	return func(s *BaseService) {
		s.settings = settings
	}
}

func newBaseService(opts []Option) BaseService {
	b := BaseService{clock: clock.RealClock{}, settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a client-caused failure
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	return s.clock.Now()
}

// withTimeout bounds the store round-trips of one operation.
func (s *BaseService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.settings.StoreTimeout)
}

// storeErr makes context expiry surface as ErrStoreOperationFailed.
// Domain errors pass through unchanged.
func storeErr(err error) error {
	if err == nil || errors.Is(err, apperrors.ErrStoreOperationFailed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreOperationFailed, err)
	}
	return err
}

// isClientError reports errors caused by the request rather than the system.
func isClientError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		apperrors.ErrInvalidAmount,
		apperrors.ErrInsufficientFunds,
		apperrors.ErrTransferForbidden,
		apperrors.ErrNotFound,
		apperrors.ErrAlreadySettled,
		apperrors.ErrIdempotencyMismatch,
		apperrors.ErrDuplicate,
		apperrors.ErrConflict,
		apperrors.ErrAccessDenied,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// logFailure logs client errors at warn and everything else at error.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isClientError(err) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}
