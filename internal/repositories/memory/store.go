// Package memory implements the repository ports in process memory.
// All multi-effect operations run under a single lock, so they are atomic
// with respect to each other in the same way a database transaction is.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	"github.com/slada12/secure-blu-vault/internal/platform/clock"
)

const firstAccountNumber = 1000000001

type idempotencyKey struct {
	customerID string
	key        string
}

type outboxStatus int

const (
	outboxPending outboxStatus = iota
	outboxProcessing
	outboxPublished
)

type outboxRow struct {
	msg         domain.OutboxMessage
	status      outboxStatus
	availableAt time.Time
	claimedAt   time.Time
	publishedAt time.Time
	lastError   string
}

// Store is a mutex-guarded implementation of every repository port.
type Store struct {
	mu    sync.Mutex
	clock clock.Clock

	customers     map[string]*domain.Customer
	profiles      map[string]domain.Profile // keyed by user id
	transactions  map[string]*domain.Transaction
	references    map[string]string // reference -> transaction id
	audit         []domain.AuditEntry
	notifications []*domain.Notification
	cardRequests  map[string]*domain.CardRequest
	idempotency   map[idempotencyKey]domain.IdempotencyRecord
	outbox        []*outboxRow

	nextAccount  int64
	nextOutboxID int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for outbox scheduling.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		clock:        clock.RealClock{},
		customers:    make(map[string]*domain.Customer),
		profiles:     make(map[string]domain.Profile),
		transactions: make(map[string]*domain.Transaction),
		references:   make(map[string]string),
		cardRequests: make(map[string]*domain.CardRequest),
		idempotency:  make(map[idempotencyKey]domain.IdempotencyRecord),
		nextAccount:  firstAccountNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CustomerRepo:     s,
		TransactionRepo:  s,
		AuditRepo:        s,
		NotificationRepo: s,
		CardRequestRepo:  s,
		OutboxRepo:       s,
	}
}

var (
	_ portsrepo.CustomerRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade  = (*Store)(nil)
	_ portsrepo.AuditReader                  = (*Store)(nil)
	_ portsrepo.NotificationRepositoryFacade = (*Store)(nil)
	_ portsrepo.CardRequestRepositoryFacade  = (*Store)(nil)
	_ portsrepo.OutboxRepository             = (*Store)(nil)
)

// SeedCustomer inserts a customer with its profile. Missing identifiers,
// account number, currency, status and timestamps are filled in.
func (s *Store) SeedCustomer(d domain.CustomerDetails) domain.CustomerDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := d.Customer
	if c.CustomerID == "" {
		c.CustomerID = uuid.NewString()
	}
	if c.UserID == "" {
		c.UserID = uuid.NewString()
	}
	if c.AccountNumber == "" {
		c.AccountNumber = fmt.Sprintf("%010d", s.nextAccount)
		s.nextAccount++
	}
	if c.Currency == "" {
		c.Currency = domain.DefaultCurrency
	}
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
	if c.CardStatus == "" {
		c.CardStatus = domain.CardStatusNone
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	p := d.Profile
	p.UserID = c.UserID

	s.customers[c.CustomerID] = &c
	s.profiles[c.UserID] = p
	return domain.CustomerDetails{Customer: c, Profile: p}
}

// checkCtx reports a cancelled or expired context the way a database driver would.
func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreOperationFailed, err)
	}
	return nil
}

func (s *Store) details(c *domain.Customer) domain.CustomerDetails {
	return domain.CustomerDetails{Customer: *c, Profile: s.profiles[c.UserID]}
}

func (s *Store) insertTransaction(txn domain.Transaction) error {
	if _, exists := s.references[txn.Reference]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrReferenceConflict, txn.Reference)
	}
	if _, exists := s.transactions[txn.TransactionID]; exists {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	stored := txn
	s.transactions[txn.TransactionID] = &stored
	s.references[txn.Reference] = txn.TransactionID
	return nil
}

func (s *Store) enqueue(events []domain.OutboxMessage) {
	now := s.clock.Now()
	for _, e := range events {
		s.nextOutboxID++
		e.ID = s.nextOutboxID
		e.Attempts = 0
		s.outbox = append(s.outbox, &outboxRow{msg: e, status: outboxPending, availableAt: now})
	}
}

func (s *Store) addNotification(n domain.Notification) {
	stored := n
	s.notifications = append(s.notifications, &stored)
}

// newestFirst orders by (created_at DESC, id DESC).
func newestFirst[T any](rows []T, key func(T) (time.Time, string)) {
	sort.Slice(rows, func(i, j int) bool {
		ai, ii := key(rows[i])
		aj, ij := key(rows[j])
		if ai.Equal(aj) {
			return ii > ij
		}
		return ai.After(aj)
	})
}

func positive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	return nil
}
