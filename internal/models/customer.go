package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a row of the customers table.
type Customer struct {
	CustomerID    string          `db:"id"`
	UserID        string          `db:"user_id"`
	AccountNumber string          `db:"account_number"`
	RoutingNumber *string         `db:"routing_number"` // Nullable
	Balance       decimal.Decimal `db:"balance"`
	Currency      string          `db:"currency"`
	Status        string          `db:"status"`
	CardStatus    string          `db:"card_status"`
	CanSendMoney  bool            `db:"can_send_money"`
	CanLogin      bool            `db:"can_login"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// Profile is a row of the profiles table, keyed by the auth user id.
type Profile struct {
	UserID      string  `db:"user_id"`
	FullName    string  `db:"full_name"`
	Email       string  `db:"email"`
	Phone       *string `db:"phone"`
	DateOfBirth *string `db:"date_of_birth"`
	HomeAddress *string `db:"home_address"`
	Nationality *string `db:"nationality"`
	AvatarURL   *string `db:"avatar_url"`
}

// CustomerWithProfile is the result of joining customers with profiles.
type CustomerWithProfile struct {
	Customer
	FullName    string  `db:"full_name"`
	Email       string  `db:"email"`
	Phone       *string `db:"phone"`
	DateOfBirth *string `db:"date_of_birth"`
	HomeAddress *string `db:"home_address"`
	Nationality *string `db:"nationality"`
	AvatarURL   *string `db:"avatar_url"`
}

// RecipientRow is a recipient search hit.
type RecipientRow struct {
	CustomerID    string `db:"id"`
	FullName      string `db:"full_name"`
	AccountNumber string `db:"account_number"`
}
