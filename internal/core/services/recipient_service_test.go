package services_test

import (
	"context"
	"testing"

	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchRecipients_ShortQuerySkipsStore(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := services.NewRecipientService(repo)

	for _, q := range []string{"", "ab", "  ab  ", "é1"} {
		hits, err := svc.SearchRecipients(context.Background(), "user-1", q)
		require.NoError(t, err)
		assert.NotNil(t, hits)
		assert.Empty(t, hits)
	}
	repo.AssertNotCalled(t, "FindCustomerByUserID", mock.Anything, mock.Anything)
}

func TestSearchRecipients_AccountNumberFirst(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := services.NewRecipientService(repo)
	self := &domain.Customer{CustomerID: "c-self", UserID: "user-1"}
	hits := []domain.Recipient{{CustomerID: "c-2", Name: "Bob", AccountNumber: "1000000002"}}

	repo.On("FindCustomerByUserID", mock.Anything, "user-1").Return(self, nil).Once()
	repo.On("SearchByAccountNumber", mock.Anything, "100", "c-self", services.MaxRecipientResults).Return(hits, nil).Once()

	got, err := svc.SearchRecipients(context.Background(), "user-1", " 100 ")

	require.NoError(t, err)
	assert.Equal(t, hits, got)
	repo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchRecipients_FallsBackToName(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := services.NewRecipientService(repo)
	self := &domain.Customer{CustomerID: "c-self", UserID: "user-1"}
	byName := []domain.Recipient{{CustomerID: "c-3", Name: "Bobby Tables", AccountNumber: "1000000003"}}

	repo.On("FindCustomerByUserID", mock.Anything, "user-1").Return(self, nil).Once()
	repo.On("SearchByAccountNumber", mock.Anything, "bob", "c-self", services.MaxRecipientResults).Return([]domain.Recipient{}, nil).Once()
	repo.On("SearchByName", mock.Anything, "bob", "c-self", services.MaxRecipientResults).Return(byName, nil).Once()

	got, err := svc.SearchRecipients(context.Background(), "user-1", "bob")

	require.NoError(t, err)
	assert.Equal(t, byName, got)
}

func TestSearchRecipients_StoreFailure(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := services.NewRecipientService(repo)

	repo.On("FindCustomerByUserID", mock.Anything, "user-1").Return(nil, context.Canceled).Once()

	_, err := svc.SearchRecipients(context.Background(), "user-1", "bob")

	assert.ErrorIs(t, err, apperrors.ErrStoreOperationFailed)
}
