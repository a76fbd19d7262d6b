package repositories

import (
	"context"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// AuditReader lists audit log entries, newest first. Entries are only written
// as part of the operation they describe, so there is no standalone writer.
type AuditReader interface {
	ListAuditEntries(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}
