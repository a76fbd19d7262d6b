package dto

import (
	"time"

	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// CreateCardRequestRequest is a customer's card application.
type CreateCardRequestRequest struct {
	CardType domain.CardType `json:"cardType" binding:"required,oneof=debit credit"`
}

// CardRequestResponse defines the data returned for a card request.
type CardRequestResponse struct {
	RequestID   string                   `json:"requestID"`
	CustomerID  string                   `json:"customerID"`
	CardType    domain.CardType          `json:"cardType"`
	Status      domain.CardRequestStatus `json:"status"`
	CreatedAt   time.Time                `json:"createdAt"`
	ProcessedAt *time.Time               `json:"processedAt,omitempty"`
	ProcessedBy *string                  `json:"processedBy,omitempty"`
}

// ToCardRequestResponse converts a domain.CardRequest to its DTO.
func ToCardRequestResponse(r *domain.CardRequest) CardRequestResponse {
	return CardRequestResponse{
		RequestID:   r.RequestID,
		CustomerID:  r.CustomerID,
		CardType:    r.CardType,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		ProcessedAt: r.ProcessedAt,
		ProcessedBy: r.ProcessedBy,
	}
}

// ToCardRequestResponses converts a slice of card requests.
func ToCardRequestResponses(requests []domain.CardRequest) []CardRequestResponse {
	res := make([]CardRequestResponse, len(requests))
	for i, r := range requests {
		res[i] = ToCardRequestResponse(&r)
	}
	return res
}

// ListCardRequestsParams defines query parameters for listing card requests.
type ListCardRequestsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Limit  int    `form:"limit,default=50" binding:"min=1,max=200"`
}
