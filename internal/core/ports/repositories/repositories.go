package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CustomerRepo     CustomerRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	AuditRepo        AuditReader
	NotificationRepo NotificationRepositoryFacade
	CardRequestRepo  CardRequestRepositoryFacade
	OutboxRepo       OutboxRepository
}
