package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the administrative state of a customer account.
type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
	StatusFrozen  AccountStatus = "frozen"
)

// IsValid reports whether s is a known account status.
func (s AccountStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusFrozen:
		return true
	}
	return false
}

// CardStatus tracks the customer's card application.
type CardStatus string

const (
	CardStatusNone     CardStatus = "none"
	CardStatusPending  CardStatus = "pending"
	CardStatusApproved CardStatus = "approved"
	CardStatusRejected CardStatus = "rejected"
)

// DefaultCurrency is assigned to accounts created without an explicit currency.
const DefaultCurrency = "USD"

// SendBlockReason explains why a customer may not send money.
type SendBlockReason string

const (
	BlockReasonFrozen          SendBlockReason = "frozen"
	BlockReasonBlocked         SendBlockReason = "blocked"
	BlockReasonSendingDisabled SendBlockReason = "sending_disabled"
)

// Customer is a bank account owned by exactly one authenticated user.
type Customer struct {
	CustomerID    string          `json:"customerID"`
	UserID        string          `json:"userID"`
	AccountNumber string          `json:"accountNumber"`
	RoutingNumber *string         `json:"routingNumber,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        AccountStatus   `json:"status"`
	CardStatus    CardStatus      `json:"cardStatus"`
	CanSendMoney  bool            `json:"canSendMoney"`
	CanLogin      bool            `json:"canLogin"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// SendBlocked reports whether the customer is barred from sending money and why.
// Status takes precedence over the can_send_money override.
func (c Customer) SendBlocked() (SendBlockReason, bool) {
	switch c.Status {
	case StatusFrozen:
		return BlockReasonFrozen, true
	case StatusBlocked:
		return BlockReasonBlocked, true
	}
	if c.Status != StatusActive || !c.CanSendMoney {
		return BlockReasonSendingDisabled, true
	}
	return "", false
}

// AccessBlockReason explains why a customer may not use their session.
type AccessBlockReason string

const (
	AccessReasonBlocked       AccessBlockReason = "blocked"
	AccessReasonLoginDisabled AccessBlockReason = "login_disabled"
)

// AccessBlocked reports whether the customer is locked out of the API.
// Frozen accounts keep read access; only blocked ones and disabled logins are refused.
func (c Customer) AccessBlocked() (AccessBlockReason, bool) {
	if c.Status == StatusBlocked {
		return AccessReasonBlocked, true
	}
	if !c.CanLogin {
		return AccessReasonLoginDisabled, true
	}
	return "", false
}

// CanCover reports whether the balance covers amount without going negative.
func (c Customer) CanCover(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(c.Balance)
}

// StatusChange is the bundle of flags written together with a status transition.
type StatusChange struct {
	Status       AccountStatus
	CanSendMoney bool
	CanLogin     bool
}

// StatusTransition computes the flag bundle for moving c to status.
// Frozen keeps the previous login permission; the other states force both flags.
func (c Customer) StatusTransition(status AccountStatus) StatusChange {
	switch status {
	case StatusBlocked:
		return StatusChange{Status: status, CanSendMoney: false, CanLogin: false}
	case StatusFrozen:
		return StatusChange{Status: status, CanSendMoney: false, CanLogin: c.CanLogin}
	default:
		return StatusChange{Status: StatusActive, CanSendMoney: true, CanLogin: true}
	}
}

// Apply returns a copy of c with the change applied.
func (c Customer) Apply(change StatusChange) Customer {
	c.Status = change.Status
	c.CanSendMoney = change.CanSendMoney
	c.CanLogin = change.CanLogin
	return c
}

// Permission names an independently togglable customer flag.
type Permission string

const (
	PermissionSendMoney Permission = "can_send_money"
	PermissionLogin     Permission = "can_login"
)

// Profile holds the personal data linked one-to-one to a customer's user.
// Optional KYC fields are nil when not provided.
type Profile struct {
	UserID      string  `json:"userID"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	HomeAddress *string `json:"homeAddress,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	AvatarURL   *string `json:"avatarURL,omitempty"`
}

// CustomerDetails is a customer joined with its profile.
type CustomerDetails struct {
	Customer
	Profile Profile `json:"profile"`
}

// ProfileUpdate carries an admin edit of profile fields and the display currency.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string
	Email       *string
	Phone       *string
	DateOfBirth *string
	HomeAddress *string
	Nationality *string
	Currency    *string
}

// ApplyTo returns the profile and currency after the update.
func (u ProfileUpdate) ApplyTo(p Profile, currency string) (Profile, string) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = u.Phone
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = u.DateOfBirth
	}
	if u.HomeAddress != nil {
		p.HomeAddress = u.HomeAddress
	}
	if u.Nationality != nil {
		p.Nationality = u.Nationality
	}
	if u.Currency != nil {
		currency = *u.Currency
	}
	return p, currency
}

// CustomerProvision opens a new account together with its profile.
// The store assigns the account number; Audit is set when an admin opened the account.
type CustomerProvision struct {
	CustomerID    string
	RoutingNumber string
	Currency      string
	Profile       Profile
	CreatedAt     time.Time
	Audit         *AuditEntry
}

// Recipient is an internal transfer candidate returned by recipient search.
type Recipient struct {
	CustomerID    string `json:"customerID"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
}

// IsCurrencyCode reports whether code looks like an ISO 4217 alphabetic code.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
