package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	"github.com/slada12/secure-blu-vault/internal/core/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/slada12/secure-blu-vault/internal/platform/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransferServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	clock        *clock.FixedClock
	customerRepo *MockCustomerRepository
	txnRepo      *MockTransactionRepository
	service      *services.TransferService
	sender       domain.Customer
	recipient    domain.Customer
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = clock.NewFixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	suite.customerRepo = new(MockCustomerRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.service = services.NewTransferService(suite.customerRepo, suite.txnRepo, services.WithClock(suite.clock))

	suite.sender = domain.Customer{
		CustomerID:    uuid.NewString(),
		UserID:        "user-sender",
		AccountNumber: "1000000001",
		Balance:       decimal.NewFromInt(1000),
		Currency:      "USD",
		Status:        domain.StatusActive,
		CanSendMoney:  true,
		CanLogin:      true,
	}
	suite.recipient = domain.Customer{
		CustomerID:    uuid.NewString(),
		UserID:        "user-recipient",
		AccountNumber: "1000000002",
		Balance:       decimal.NewFromInt(200),
		Currency:      "USD",
		Status:        domain.StatusActive,
		CanSendMoney:  true,
		CanLogin:      true,
	}
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}

func (suite *TransferServiceTestSuite) expectSender(c domain.Customer) {
	suite.customerRepo.On("FindCustomerByUserID", mock.Anything, c.UserID).Return(&c, nil).Once()
}

func (suite *TransferServiceTestSuite) domestic(account, amount string) dto.TransferRequest {
	return dto.TransferRequest{Type: domain.TransferDomestic, RecipientAccountNumber: account, Amount: amount}
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_InternalCompletesImmediately() {
	suite.expectSender(suite.sender)
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, suite.recipient.AccountNumber).Return(&suite.recipient, nil).Once()
	suite.customerRepo.On("FindCustomerDetails", mock.Anything, suite.recipient.CustomerID).
		Return(&domain.CustomerDetails{Customer: suite.recipient, Profile: domain.Profile{Name: "Bob Stone"}}, nil).Once()

	var captured domain.TransferPosting
	result := &domain.AppliedTransfer{SenderBalance: decimal.NewFromInt(750)}
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.AnythingOfType("domain.TransferPosting")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.TransferPosting)
			result.Transaction = captured.Transaction
			result.Classification = captured.Classification
		}).
		Return(result, nil).Once()

	applied, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, suite.domestic(suite.recipient.AccountNumber, "250"))

	suite.Require().NoError(err)
	suite.Equal(domain.Internal, applied.Classification)
	suite.Equal(domain.TxStatusCompleted, applied.Transaction.Status)
	suite.Equal(suite.recipient.CustomerID, captured.RecipientID)
	suite.Equal(suite.sender.CustomerID, captured.SenderID)
	suite.Equal(domain.Debit, captured.Transaction.Type)
	suite.True(decimal.NewFromInt(250).Equal(captured.Transaction.Amount))
	suite.Equal("Bob Stone", *captured.Transaction.RecipientName)
	suite.Equal("Transfer to Bob Stone", captured.Transaction.Description)
	suite.Regexp(`^TXN-\d+-[0-9A-Z]{9}$`, captured.Transaction.Reference)
	suite.Require().Len(captured.Events, 1)
	suite.Equal(domain.EventTransferCompleted, captured.Events[0].RoutingKey)
	suite.Nil(captured.Idempotency)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_UnknownAccountIsExternalPending() {
	suite.expectSender(suite.sender)
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, "9999999999").Return(nil, apperrors.ErrNotFound).Once()

	var captured domain.TransferPosting
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.AnythingOfType("domain.TransferPosting")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.TransferPosting) }).
		Return(&domain.AppliedTransfer{Classification: domain.External}, nil).Once()

	req := suite.domestic("9999999999", "100.50")
	req.RecipientName = "Carol Reyes"
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.External, captured.Classification)
	suite.Empty(captured.RecipientID)
	suite.Equal(domain.TxStatusPending, captured.Transaction.Status)
	suite.Equal(domain.EventTransferPending, captured.Events[0].RoutingKey)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_ExternalRequiresRecipientName() {
	suite.expectSender(suite.sender)
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, "9999999999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, suite.domestic("9999999999", "10"))

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.txnRepo.AssertNotCalled(suite.T(), "ApplyTransfer", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_RejectsOwnAccount() {
	suite.expectSender(suite.sender)

	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, suite.domestic(suite.sender.AccountNumber, "10"))

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_EligibilityCheckedFirst() {
	frozen := suite.sender
	frozen.Status = domain.StatusFrozen
	frozen.CanSendMoney = false
	suite.expectSender(frozen)

	// Invalid amount and unknown recipient would also fail; eligibility wins.
	_, err := suite.service.SubmitTransfer(suite.ctx, frozen.UserID, suite.domestic("", "-5"))

	suite.ErrorIs(err, apperrors.ErrTransferForbidden)
	reason, ok := apperrors.ForbiddenReason(err)
	suite.True(ok)
	suite.Equal("frozen", reason)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_SendingDisabledReason() {
	disabled := suite.sender
	disabled.CanSendMoney = false
	suite.expectSender(disabled)

	_, err := suite.service.SubmitTransfer(suite.ctx, disabled.UserID, suite.domestic(suite.recipient.AccountNumber, "5"))

	reason, ok := apperrors.ForbiddenReason(err)
	suite.True(ok)
	suite.Equal(string(domain.BlockReasonSendingDisabled), reason)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_InvalidAmounts() {
	for _, amount := range []string{"0", "-1", "abc", "1.234", ""} {
		suite.Run(fmt.Sprintf("amount=%q", amount), func() {
			suite.customerRepo.On("FindCustomerByUserID", mock.Anything, suite.sender.UserID).Return(&suite.sender, nil).Once()

			_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, suite.domestic(suite.recipient.AccountNumber, amount))

			suite.ErrorIs(err, apperrors.ErrInvalidAmount)
		})
	}
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_InsufficientFundsBeforeRecipientLookup() {
	suite.expectSender(suite.sender)

	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, suite.domestic(suite.recipient.AccountNumber, "1000.01"))

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.customerRepo.AssertNotCalled(suite.T(), "FindCustomerByAccountNumber", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_ExactBalanceAllowed() {
	suite.expectSender(suite.sender)
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, "5555555555").Return(nil, apperrors.ErrNotFound).Once()
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.Anything).Return(&domain.AppliedTransfer{Classification: domain.External}, nil).Once()

	req := suite.domestic("5555555555", "1000.00")
	req.RecipientName = "Dana"
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.NoError(err)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_International() {
	suite.expectSender(suite.sender)
	var captured domain.TransferPosting
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.AnythingOfType("domain.TransferPosting")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.TransferPosting) }).
		Return(&domain.AppliedTransfer{Classification: domain.External}, nil).Once()

	req := dto.TransferRequest{
		Type:   domain.TransferInternational,
		Amount: "300",
		International: &dto.InternationalRecipientRequest{
			Name:          "Hans Weber",
			AccountNumber: "DE89370400440532013000",
			SwiftCode:     "cobadeffxxx",
			BankName:      "Commerzbank",
			Country:       "Germany",
		},
	}
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.External, captured.Classification)
	suite.Require().NotNil(captured.Transaction.International)
	suite.Equal("COBADEFFXXX", captured.Transaction.International.SwiftCode)
	suite.Equal("DE89370400440532013000", *captured.Transaction.RecipientAccount)
	suite.Equal(domain.TransferInternational, *captured.Transaction.TransferType)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_InternationalMissingDetails() {
	suite.expectSender(suite.sender)

	req := dto.TransferRequest{
		Type:          domain.TransferInternational,
		Amount:        "300",
		International: &dto.InternationalRecipientRequest{Name: "Hans", AccountNumber: "DE89", SwiftCode: "BAD"},
	}
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_RetriesReferenceConflict() {
	suite.expectSender(suite.sender)
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, "9999999999").Return(nil, apperrors.ErrNotFound).Once()

	var refs []string
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { refs = append(refs, args.Get(1).(domain.TransferPosting).Transaction.Reference) }).
		Return(nil, apperrors.ErrReferenceConflict).Once()
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { refs = append(refs, args.Get(1).(domain.TransferPosting).Transaction.Reference) }).
		Return(&domain.AppliedTransfer{Classification: domain.External}, nil).Once()

	req := suite.domestic("9999999999", "10")
	req.RecipientName = "Eve"
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.Require().Len(refs, 2)
	suite.NotEqual(refs[0], refs[1])
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_ReferenceConflictExhausted() {
	suite.expectSender(suite.sender)
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, "9999999999").Return(nil, apperrors.ErrNotFound).Once()
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.Anything).Return(nil, apperrors.ErrReferenceConflict).Times(3)

	req := suite.domestic("9999999999", "10")
	req.RecipientName = "Eve"
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.ErrorIs(err, apperrors.ErrStoreOperationFailed)
	suite.txnRepo.AssertNumberOfCalls(suite.T(), "ApplyTransfer", 3)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_StoreTimeoutIsStoreFailure() {
	suite.expectSender(suite.sender)
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, "9999999999").Return(nil, apperrors.ErrNotFound).Once()
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	req := suite.domestic("9999999999", "10")
	req.RecipientName = "Eve"
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.ErrorIs(err, apperrors.ErrStoreOperationFailed)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_ReplaysKnownIdempotencyKey() {
	req := suite.domestic("9999999999", "10")
	req.RecipientName = "Eve"
	req.IdempotencyKey = "key-1"

	// First submission records the hash the store will be asked to keep.
	suite.expectSender(suite.sender)
	suite.txnRepo.On("FindIdempotencyRecord", mock.Anything, suite.sender.CustomerID, "key-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.customerRepo.On("FindCustomerByAccountNumber", mock.Anything, "9999999999").Return(nil, apperrors.ErrNotFound).Once()
	var first domain.TransferPosting
	suite.txnRepo.On("ApplyTransfer", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { first = args.Get(1).(domain.TransferPosting) }).
		Return(&domain.AppliedTransfer{Classification: domain.External}, nil).Once()

	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)
	suite.Require().NoError(err)
	suite.Require().NotNil(first.Idempotency)
	suite.Equal("key-1", *first.Transaction.IdempotencyKey)

	stored := first.Transaction
	suite.expectSender(suite.sender)
	suite.txnRepo.On("FindIdempotencyRecord", mock.Anything, suite.sender.CustomerID, "key-1").
		Return(&domain.IdempotencyRecord{
			CustomerID:     suite.sender.CustomerID,
			Key:            "key-1",
			RequestHash:    first.Idempotency.RequestHash,
			TransactionID:  stored.TransactionID,
			Classification: domain.External,
		}, nil).Once()
	suite.txnRepo.On("FindTransactionByID", mock.Anything, stored.TransactionID).Return(&stored, nil).Once()

	replayed, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.True(replayed.Replayed)
	suite.Equal(stored.Reference, replayed.Transaction.Reference)
	suite.Equal(domain.External, replayed.Classification)
	suite.txnRepo.AssertNumberOfCalls(suite.T(), "ApplyTransfer", 1)
}

func (suite *TransferServiceTestSuite) TestSubmitTransfer_IdempotencyKeyReusedForDifferentRequest() {
	suite.expectSender(suite.sender)
	suite.txnRepo.On("FindIdempotencyRecord", mock.Anything, suite.sender.CustomerID, "key-2").
		Return(&domain.IdempotencyRecord{Key: "key-2", RequestHash: "something-else"}, nil).Once()

	req := suite.domestic(suite.recipient.AccountNumber, "10")
	req.IdempotencyKey = "key-2"
	_, err := suite.service.SubmitTransfer(suite.ctx, suite.sender.UserID, req)

	suite.ErrorIs(err, apperrors.ErrIdempotencyMismatch)
	suite.txnRepo.AssertNotCalled(suite.T(), "ApplyTransfer", mock.Anything, mock.Anything)
}
