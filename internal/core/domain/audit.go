package domain

import "time"

// AuditAction tags an administrative action in the audit log.
type AuditAction string

const (
	ActionApproveTransfer     AuditAction = "APPROVE_TRANSFER"
	ActionRejectTransfer      AuditAction = "REJECT_TRANSFER"
	ActionFundAccount         AuditAction = "FUND_ACCOUNT"
	ActionAddTransaction      AuditAction = "ADD_TRANSACTION"
	ActionEditTransaction     AuditAction = "EDIT_TRANSACTION"
	ActionEditCustomerProfile AuditAction = "EDIT_CUSTOMER_PROFILE"
	ActionCreateCustomer      AuditAction = "CREATE_CUSTOMER"
	ActionBlockCustomer       AuditAction = "BLOCK_CUSTOMER"
	ActionUnblockCustomer     AuditAction = "UNBLOCK_CUSTOMER"
	ActionFreezeAccount       AuditAction = "FREEZE_ACCOUNT"
	ActionEnableTransfers     AuditAction = "ENABLE_TRANSFERS"
	ActionDisableTransfers    AuditAction = "DISABLE_TRANSFERS"
	ActionEnableLogin         AuditAction = "ENABLE_LOGIN"
	ActionDisableLogin        AuditAction = "DISABLE_LOGIN"
	ActionApproveCardRequest  AuditAction = "APPROVE_CARD_REQUEST"
	ActionRejectCardRequest   AuditAction = "REJECT_CARD_REQUEST"
)

// AuditEntry is an append-only record of an administrative action.
// AdminID is nil for system actions.
type AuditEntry struct {
	AuditID          string      `json:"auditID"`
	AdminID          *string     `json:"adminID,omitempty"`
	Action           AuditAction `json:"action"`
	TargetCustomerID *string     `json:"targetCustomerID,omitempty"`
	Details          string      `json:"details"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// MaxAuditPage caps audit log listings.
const MaxAuditPage = 100

// AuditFilter narrows an audit log listing.
type AuditFilter struct {
	TargetCustomerID *string
	Limit            int
}
