package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID    string                         `json:"transactionID"`
	CustomerID       string                         `json:"customerID"`
	Type             domain.TransactionType         `json:"type"`
	Amount           decimal.Decimal                `json:"amount"`
	Description      string                         `json:"description"`
	RecipientName    *string                        `json:"recipientName,omitempty"`
	RecipientAccount *string                        `json:"recipientAccount,omitempty"`
	SenderName       *string                        `json:"senderName,omitempty"`
	SenderAccount    *string                        `json:"senderAccount,omitempty"`
	Reference        string                         `json:"reference"`
	Status           domain.TransactionStatus       `json:"status"`
	TransferType     *domain.TransferType           `json:"transferType,omitempty"`
	International    *domain.InternationalRecipient `json:"international,omitempty"`
	SettledAt        *time.Time                     `json:"settledAt,omitempty"`
	CreatedAt        time.Time                      `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    txn.TransactionID,
		CustomerID:       txn.CustomerID,
		Type:             txn.Type,
		Amount:           txn.Amount,
		Description:      txn.Description,
		RecipientName:    txn.RecipientName,
		RecipientAccount: txn.RecipientAccount,
		SenderName:       txn.SenderName,
		SenderAccount:    txn.SenderAccount,
		Reference:        txn.Reference,
		Status:           txn.Status,
		TransferType:     txn.TransferType,
		International:    txn.International,
		SettledAt:        txn.SettledAt,
		CreatedAt:        txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// PendingTransferResponse is an entry of the settlement queue.
type PendingTransferResponse struct {
	TransactionResponse
	SenderCustomerName  string `json:"senderCustomerName"`
	SenderAccountNumber string `json:"senderAccountNumber"`
}

// ToPendingTransferResponses converts the settlement queue.
func ToPendingTransferResponses(pending []domain.PendingTransfer) []PendingTransferResponse {
	res := make([]PendingTransferResponse, len(pending))
	for i, p := range pending {
		res[i] = PendingTransferResponse{
			TransactionResponse: ToTransactionResponse(&p.Transaction),
			SenderCustomerName:  p.SenderCustomerName,
			SenderAccountNumber: p.SenderAccountNo,
		}
	}
	return res
}

// ListPendingParams defines query parameters for the settlement queue.
type ListPendingParams struct {
	Limit int `form:"limit,default=50" binding:"min=1,max=200"`
}
