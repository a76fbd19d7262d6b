package services

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// SettlementReaderSvc exposes the settlement queue
type SettlementReaderSvc interface {
	ListPendingTransfers(ctx context.Context, limit int) ([]domain.PendingTransfer, error)
}

// SettlementWriterSvc resolves pending transfers exactly once
type SettlementWriterSvc interface {
	ApproveTransfer(ctx context.Context, transactionID string, adminID string) (*domain.Transaction, error)
	RejectTransfer(ctx context.Context, transactionID string, adminID string) (*domain.Transaction, error)
}

// SettlementSvcFacade combines all settlement service interfaces
type SettlementSvcFacade interface {
	SettlementReaderSvc
	SettlementWriterSvc
}
