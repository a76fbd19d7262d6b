package services

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

// TransferSvc moves money out of the authenticated customer's account.
type TransferSvc interface {
	// SubmitTransfer validates, classifies and applies a transfer for the customer owned by userID.
	SubmitTransfer(ctx context.Context, userID string, req dto.TransferRequest) (*domain.AppliedTransfer, error)
}

// RecipientSvc resolves internal transfer recipients.
type RecipientSvc interface {
	// SearchRecipients returns at most five candidates, never including the caller.
	SearchRecipients(ctx context.Context, userID string, query string) ([]domain.Recipient, error)
}
