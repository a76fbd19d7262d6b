package dto

import "github.com/slada12/secure-blu-vault/internal/core/domain"

// SearchRecipientsParams defines query parameters for recipient search.
type SearchRecipientsParams struct {
	Query string `form:"q"`
}

// RecipientResponse is an internal transfer candidate.
type RecipientResponse struct {
	CustomerID    string `json:"customerID"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
}

// ToRecipientResponses converts recipients to DTOs.
func ToRecipientResponses(recipients []domain.Recipient) []RecipientResponse {
	res := make([]RecipientResponse, len(recipients))
	for i, r := range recipients {
		res[i] = RecipientResponse(r)
	}
	return res
}
