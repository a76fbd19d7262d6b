package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// ProfileResponse defines the profile part of a customer response.
type ProfileResponse struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	HomeAddress *string `json:"homeAddress,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	AvatarURL   *string `json:"avatarURL,omitempty"`
}

// CustomerResponse defines the data returned for a customer account.
type CustomerResponse struct {
	CustomerID    string               `json:"customerID"`
	UserID        string               `json:"userID"`
	AccountNumber string               `json:"accountNumber"`
	RoutingNumber *string              `json:"routingNumber,omitempty"`
	Balance       decimal.Decimal      `json:"balance"`
	Currency      string               `json:"currency"`
	Status        domain.AccountStatus `json:"status"`
	CardStatus    domain.CardStatus    `json:"cardStatus"`
	CanSendMoney  bool                 `json:"canSendMoney"`
	CanLogin      bool                 `json:"canLogin"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Profile       *ProfileResponse     `json:"profile,omitempty"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:    c.CustomerID,
		UserID:        c.UserID,
		AccountNumber: c.AccountNumber,
		RoutingNumber: c.RoutingNumber,
		Balance:       c.Balance,
		Currency:      c.Currency,
		Status:        c.Status,
		CardStatus:    c.CardStatus,
		CanSendMoney:  c.CanSendMoney,
		CanLogin:      c.CanLogin,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToCustomerDetailsResponse converts a customer joined with its profile.
func ToCustomerDetailsResponse(d *domain.CustomerDetails) CustomerResponse {
	res := ToCustomerResponse(&d.Customer)
	res.Profile = &ProfileResponse{
		Name:        d.Profile.Name,
		Email:       d.Profile.Email,
		Phone:       d.Profile.Phone,
		DateOfBirth: d.Profile.DateOfBirth,
		HomeAddress: d.Profile.HomeAddress,
		Nationality: d.Profile.Nationality,
		AvatarURL:   d.Profile.AvatarURL,
	}
	return res
}

// ToListCustomerResponse converts a slice of customer details to DTOs
func ToListCustomerResponse(details []domain.CustomerDetails) []CustomerResponse {
	res := make([]CustomerResponse, len(details))
	for i, d := range details {
		res[i] = ToCustomerDetailsResponse(&d)
	}
	return res
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListCustomersResponse wraps a page of customers.
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// UpdateCustomerProfileRequest edits profile fields and the display currency.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateCustomerProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	HomeAddress *string `json:"homeAddress"`
	Nationality *string `json:"nationality"`
	Currency    *string `json:"currency" binding:"omitempty,iso4217"`
}

// ToDomain converts the request into a profile update.
func (r UpdateCustomerProfileRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth,
		HomeAddress: r.HomeAddress,
		Nationality: r.Nationality,
		Currency:    r.Currency,
	}
}

// OpenAccountRequest opens the caller's own account after sign-up.
type OpenAccountRequest struct {
	Name     string  `json:"name" binding:"required,min=2"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Currency *string `json:"currency" binding:"omitempty,iso4217"`
}

// CreateCustomerRequest opens an account for a user registered with the identity provider.
type CreateCustomerRequest struct {
	UserID string `json:"userID" binding:"required"`
	OpenAccountRequest
}

// ChangeStatusRequest moves a customer to a new account status.
type ChangeStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=active blocked frozen"`
}

// SetPermissionRequest toggles a single customer permission.
type SetPermissionRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
