package services

import (
	portsrepo "github.com/slada12/secure-blu-vault/internal/core/ports/repositories"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
)

// NewServiceContainer creates and initializes all application services with their dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, opts ...Option) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Transfer:      NewTransferService(repos.CustomerRepo, repos.TransactionRepo, opts...),
		Recipient:     NewRecipientService(repos.CustomerRepo, opts...),
		Settlement:    NewSettlementService(repos.CustomerRepo, repos.TransactionRepo, opts...),
		Funding:       NewFundingService(repos.CustomerRepo, repos.TransactionRepo, opts...),
		Account:       NewAccountService(repos.CustomerRepo, repos.TransactionRepo, opts...),
		CustomerAdmin: NewCustomerAdminService(repos.CustomerRepo, opts...),
		CardRequest:   NewCardRequestService(repos.CustomerRepo, repos.CardRequestRepo, opts...),
		Notification:  NewNotificationService(repos.NotificationRepo, opts...),
		Audit:         NewAuditService(repos.AuditRepo, opts...),
	}
}
