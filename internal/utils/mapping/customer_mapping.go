package mapping

import (
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/models"
)

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:    m.CustomerID,
		UserID:        m.UserID,
		AccountNumber: m.AccountNumber,
		RoutingNumber: m.RoutingNumber,
		Balance:       m.Balance,
		Currency:      m.Currency,
		Status:        domain.AccountStatus(m.Status),
		CardStatus:    domain.CardStatus(m.CardStatus),
		CanSendMoney:  m.CanSendMoney,
		CanLogin:      m.CanLogin,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:    d.CustomerID,
		UserID:        d.UserID,
		AccountNumber: d.AccountNumber,
		RoutingNumber: d.RoutingNumber,
		Balance:       d.Balance,
		Currency:      d.Currency,
		Status:        string(d.Status),
		CardStatus:    string(d.CardStatus),
		CanSendMoney:  d.CanSendMoney,
		CanLogin:      d.CanLogin,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ToDomainProfile converts a model Profile to a domain Profile
func ToDomainProfile(m models.Profile) domain.Profile {
	return domain.Profile{
		UserID:      m.UserID,
		Name:        m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		DateOfBirth: m.DateOfBirth,
		HomeAddress: m.HomeAddress,
		Nationality: m.Nationality,
		AvatarURL:   m.AvatarURL,
	}
}

// ToModelProfile converts a domain Profile to a model Profile
func ToModelProfile(d domain.Profile) models.Profile {
	return models.Profile{
		UserID:      d.UserID,
		FullName:    d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		DateOfBirth: d.DateOfBirth,
		HomeAddress: d.HomeAddress,
		Nationality: d.Nationality,
		AvatarURL:   d.AvatarURL,
	}
}

// ToDomainCustomerDetails performs the customer/profile join mapping in one step.
func ToDomainCustomerDetails(m models.CustomerWithProfile) domain.CustomerDetails {
	return domain.CustomerDetails{
		Customer: ToDomainCustomer(m.Customer),
		Profile: ToDomainProfile(models.Profile{
			UserID:      m.UserID,
			FullName:    m.FullName,
			Email:       m.Email,
			Phone:       m.Phone,
			DateOfBirth: m.DateOfBirth,
			HomeAddress: m.HomeAddress,
			Nationality: m.Nationality,
			AvatarURL:   m.AvatarURL,
		}),
	}
}

// ToDomainCustomerDetailsSlice converts joined rows to domain values
func ToDomainCustomerDetailsSlice(ms []models.CustomerWithProfile) []domain.CustomerDetails {
	ds := make([]domain.CustomerDetails, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCustomerDetails(m)
	}
	return ds
}

// ToDomainRecipientSlice converts recipient search rows
func ToDomainRecipientSlice(ms []models.RecipientRow) []domain.Recipient {
	ds := make([]domain.Recipient, len(ms))
	for i, m := range ms {
		ds[i] = domain.Recipient{CustomerID: m.CustomerID, Name: m.FullName, AccountNumber: m.AccountNumber}
	}
	return ds
}
