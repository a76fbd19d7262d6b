package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CustomerRepo:     newPgxCustomerRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		AuditRepo:        newPgxAuditRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		CardRequestRepo:  newPgxCardRequestRepository(dbPool),
		OutboxRepo:       newPgxOutboxRepository(dbPool),
	}
}
