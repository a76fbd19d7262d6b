package dto

import (
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// InternationalRecipientRequest holds the free-text banking details of an international recipient.
type InternationalRecipientRequest struct {
	Name          string  `json:"name" binding:"required"`
	AccountNumber string  `json:"accountNumber" binding:"required"` // account number or IBAN
	SwiftCode     string  `json:"swiftCode" binding:"required,swift"`
	BankName      string  `json:"bankName" binding:"required"`
	RoutingNumber *string `json:"routingNumber"`
	BankAddress   *string `json:"bankAddress"`
	Country       string  `json:"country" binding:"required"`
}

// ToDomain converts the request into the domain value.
func (r InternationalRecipientRequest) ToDomain() domain.InternationalRecipient {
	return domain.InternationalRecipient{
		Name:          r.Name,
		AccountNumber: r.AccountNumber,
		SwiftCode:     r.SwiftCode,
		BankName:      r.BankName,
		RoutingNumber: r.RoutingNumber,
		BankAddress:   r.BankAddress,
		Country:       r.Country,
	}
}

// TransferRequest defines a customer's money transfer.
// Amount is a decimal string; it is validated by the transfer engine.
type TransferRequest struct {
	Type                   domain.TransferType            `json:"type" binding:"required,oneof=domestic international"`
	RecipientAccountNumber string                         `json:"recipientAccountNumber"`
	RecipientName          string                         `json:"recipientName"`
	International          *InternationalRecipientRequest `json:"international"`
	Amount                 string                         `json:"amount" binding:"required"`
	Note                   string                         `json:"note" binding:"max=140"`
	IdempotencyKey         string                         `json:"-"` // Idempotency-Key header
}

// TransferResponse is returned after a transfer is applied or replayed.
type TransferResponse struct {
	Transaction    TransactionResponse   `json:"transaction"`
	Classification domain.Classification `json:"classification"`
	SenderBalance  decimal.Decimal       `json:"senderBalance"`
	Replayed       bool                  `json:"replayed"`
}

// ToTransferResponse converts an applied transfer to its DTO.
func ToTransferResponse(applied *domain.AppliedTransfer) TransferResponse {
	return TransferResponse{
		Transaction:    ToTransactionResponse(&applied.Transaction),
		Classification: applied.Classification,
		SenderBalance:  applied.SenderBalance,
		Replayed:       applied.Replayed,
	}
}
