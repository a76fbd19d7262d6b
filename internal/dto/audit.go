package dto

import (
	"time"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// AuditEntryResponse defines the data returned for an audit log entry.
type AuditEntryResponse struct {
	AuditID          string             `json:"auditID"`
	AdminID          *string            `json:"adminID,omitempty"`
	Action           domain.AuditAction `json:"action"`
	TargetCustomerID *string            `json:"targetCustomerID,omitempty"`
	Details          string             `json:"details"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// ToAuditEntryResponses converts audit entries to DTOs.
func ToAuditEntryResponses(entries []domain.AuditEntry) []AuditEntryResponse {
	res := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = AuditEntryResponse(e)
	}
	return res
}

// ListAuditLogsParams defines query parameters for the audit log.
type ListAuditLogsParams struct {
	CustomerID *string `form:"customerID"`
	Limit      int     `form:"limit,default=100" binding:"min=1,max=100"`
}
