package mapping

import (
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// International recipient details are flattened into the intl_* columns;
// the recipient name and account live in the shared recipient columns.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:    d.TransactionID,
		CustomerID:       d.CustomerID,
		Type:             string(d.Type),
		Amount:           d.Amount,
		Description:      d.Description,
		RecipientName:    d.RecipientName,
		RecipientAccount: d.RecipientAccount,
		SenderName:       d.SenderName,
		SenderAccount:    d.SenderAccount,
		Reference:        d.Reference,
		Status:           string(d.Status),
		IdempotencyKey:   d.IdempotencyKey,
		SettledAt:        d.SettledAt,
		SettledBy:        d.SettledBy,
		CreatedAt:        d.CreatedAt,
	}
	if d.TransferType != nil {
		tt := string(*d.TransferType)
		m.TransferType = &tt
	}
	if intl := d.International; intl != nil {
		m.RecipientName = &intl.Name
		m.RecipientAccount = &intl.AccountNumber
		m.IntlSwiftCode = &intl.SwiftCode
		m.IntlBankName = &intl.BankName
		m.IntlRoutingNo = intl.RoutingNumber
		m.IntlBankAddress = intl.BankAddress
		m.IntlCountry = &intl.Country
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:    m.TransactionID,
		CustomerID:       m.CustomerID,
		Type:             domain.TransactionType(m.Type),
		Amount:           m.Amount,
		Description:      m.Description,
		RecipientName:    m.RecipientName,
		RecipientAccount: m.RecipientAccount,
		SenderName:       m.SenderName,
		SenderAccount:    m.SenderAccount,
		Reference:        m.Reference,
		Status:           domain.TransactionStatus(m.Status),
		IdempotencyKey:   m.IdempotencyKey,
		SettledAt:        m.SettledAt,
		SettledBy:        m.SettledBy,
		CreatedAt:        m.CreatedAt,
	}
	if m.TransferType != nil {
		tt := domain.TransferType(*m.TransferType)
		d.TransferType = &tt
	}
	if m.IntlSwiftCode != nil {
		d.International = &domain.InternationalRecipient{
			Name:          deref(m.RecipientName),
			AccountNumber: deref(m.RecipientAccount),
			SwiftCode:     *m.IntlSwiftCode,
			BankName:      deref(m.IntlBankName),
			RoutingNumber: m.IntlRoutingNo,
			BankAddress:   m.IntlBankAddress,
			Country:       deref(m.IntlCountry),
		}
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToDomainPendingTransferSlice converts settlement queue rows
func ToDomainPendingTransferSlice(ms []models.PendingTransfer) []domain.PendingTransfer {
	ds := make([]domain.PendingTransfer, len(ms))
	for i, m := range ms {
		ds[i] = domain.PendingTransfer{
			Transaction:        ToDomainTransaction(m.Transaction),
			SenderCustomerName: m.SenderCustomerName,
			SenderAccountNo:    m.SenderAccountNo,
		}
	}
	return ds
}

// ToDomainIdempotencyRecord converts a model IdempotencyKey
func ToDomainIdempotencyRecord(m models.IdempotencyKey) domain.IdempotencyRecord {
	return domain.IdempotencyRecord{
		CustomerID:     m.CustomerID,
		Key:            m.Key,
		RequestHash:    m.RequestHash,
		TransactionID:  m.TransactionID,
		Classification: domain.Classification(m.Classification),
		CreatedAt:      m.CreatedAt,
		ExpiresAt:      m.ExpiresAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
