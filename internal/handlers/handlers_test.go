package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/slada12/secure-blu-vault/internal/apperrors"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/slada12/secure-blu-vault/internal/handlers"
	"github.com/slada12/secure-blu-vault/internal/middleware"
	"github.com/slada12/secure-blu-vault/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string

	transfers     *MockTransferService
	recipients    *MockRecipientService
	accounts      *MockAccountService
	notifications *MockNotificationService
	cards         *MockCardRequestService
	settlement    *MockSettlementService
	customers     *MockCustomerAdminService
	funding       *MockFundingService
	audit         *MockAuditService

	userID  string
	adminID string
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.adminID = uuid.NewString()

	suite.transfers = new(MockTransferService)
	suite.recipients = new(MockRecipientService)
	suite.accounts = new(MockAccountService)
	suite.notifications = new(MockNotificationService)
	suite.cards = new(MockCardRequestService)
	suite.settlement = new(MockSettlementService)
	suite.customers = new(MockCustomerAdminService)
	suite.funding = new(MockFundingService)
	suite.audit = new(MockAuditService)

	container := &portssvc.ServiceContainer{
		Transfer:      suite.transfers,
		Recipient:     suite.recipients,
		Settlement:    suite.settlement,
		Funding:       suite.funding,
		Account:       suite.accounts,
		CustomerAdmin: suite.customers,
		CardRequest:   suite.cards,
		Notification:  suite.notifications,
		Audit:         suite.audit,
	}
	suite.accounts.On("CheckAccess", mock.Anything, suite.userID).Return(nil).Maybe()
	passthrough := func(c *gin.Context) { c.Next() }

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterCustomerRoutes(v1, container, passthrough, passthrough)
	handlers.RegisterAdminRoutes(v1.Group("/admin", middleware.RequireRole(domain.RoleAdmin)), container)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// generateTestToken creates a signed token for userID with role.
func (suite *HandlersTestSuite) generateTestToken(userID string, role domain.Role) string {
	signed, err := utils.GenerateJWT(userID, role, suite.jwtSecret, time.Hour, "vault-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) do(method, path string, body any, token string, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) asCustomer(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	return suite.do(method, path, body, suite.generateTestToken(suite.userID, domain.RoleCustomer), headers)
}

func (suite *HandlersTestSuite) asAdmin(method, path string, body any) *httptest.ResponseRecorder {
	return suite.do(method, path, body, suite.generateTestToken(suite.adminID, domain.RoleAdmin), nil)
}

func (suite *HandlersTestSuite) errorBody(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var res dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

var withKey = map[string]string{"Idempotency-Key": "key-1"}

func domesticTransfer() map[string]any {
	return map[string]any{"type": "domestic", "recipientAccountNumber": "1000000002", "amount": "25.00"}
}

// --- Transfers ---

func (suite *HandlersTestSuite) TestSubmitTransfer_Created() {
	applied := &domain.AppliedTransfer{
		Transaction:    domain.Transaction{TransactionID: uuid.NewString(), Reference: "TXN-1-ABCDEFGHI", Amount: decimal.RequireFromString("25"), Status: domain.TxStatusCompleted},
		Classification: domain.Internal,
		SenderBalance:  decimal.RequireFromString("75"),
	}
	suite.transfers.On("SubmitTransfer", mock.Anything, suite.userID, mock.MatchedBy(func(r dto.TransferRequest) bool {
		return r.IdempotencyKey == "key-1" && r.Amount == "25.00" && r.RecipientAccountNumber == "1000000002"
	})).Return(applied, nil).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/transfers", domesticTransfer(), withKey)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(domain.Internal, res.Classification)
	suite.Equal("TXN-1-ABCDEFGHI", res.Transaction.Reference)
	suite.True(res.SenderBalance.Equal(decimal.RequireFromString("75")))
	suite.False(res.Replayed)
	suite.transfers.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestSubmitTransfer_ReplayReturnsOK() {
	applied := &domain.AppliedTransfer{Transaction: domain.Transaction{Reference: "TXN-1-ABCDEFGHI"}, Classification: domain.External, Replayed: true}
	suite.transfers.On("SubmitTransfer", mock.Anything, suite.userID, mock.Anything).Return(applied, nil).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/transfers", domesticTransfer(), withKey)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"replayed":true`)
}

func (suite *HandlersTestSuite) TestSubmitTransfer_RequiresIdempotencyKey() {
	w := suite.asCustomer(http.MethodPost, "/api/v1/transfers", domesticTransfer(), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorBody(w).Error, "Idempotency-Key")
	suite.transfers.AssertNotCalled(suite.T(), "SubmitTransfer")
}

func (suite *HandlersTestSuite) TestSubmitTransfer_InvalidSwiftRejectedByBinding() {
	body := map[string]any{
		"type":   "international",
		"amount": "10",
		"international": map[string]any{
			"name": "Jean Dupont", "accountNumber": "FR7630006000011234567890189",
			"swiftCode": "BAD", "bankName": "BNP Paribas", "country": "FR",
		},
	}

	w := suite.asCustomer(http.MethodPost, "/api/v1/transfers", body, withKey)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.transfers.AssertNotCalled(suite.T(), "SubmitTransfer")
}

func (suite *HandlersTestSuite) TestSubmitTransfer_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid amount", fmt.Errorf("%w: must be positive", apperrors.ErrInvalidAmount), http.StatusBadRequest},
		{"validation", fmt.Errorf("%w: recipient name is required", apperrors.ErrValidation), http.StatusBadRequest},
		{"insufficient funds", apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"key reused", apperrors.ErrIdempotencyMismatch, http.StatusConflict},
		{"no account", apperrors.ErrNotFound, http.StatusNotFound},
		{"store failure", fmt.Errorf("%w: context deadline exceeded", apperrors.ErrStoreOperationFailed), http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.transfers.ExpectedCalls = nil
			suite.transfers.On("SubmitTransfer", mock.Anything, suite.userID, mock.Anything).Return(nil, tt.err).Once()

			w := suite.asCustomer(http.MethodPost, "/api/v1/transfers", domesticTransfer(), withKey)

			suite.Equal(tt.status, w.Code)
		})
	}
}

func (suite *HandlersTestSuite) TestSubmitTransfer_ForbiddenCarriesReason() {
	suite.transfers.On("SubmitTransfer", mock.Anything, suite.userID, mock.Anything).
		Return(nil, apperrors.NewTransferForbidden(string(domain.BlockReasonFrozen))).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/transfers", domesticTransfer(), withKey)

	suite.Equal(http.StatusForbidden, w.Code)
	res := suite.errorBody(w)
	suite.Equal("transfer forbidden", res.Error)
	suite.Equal("frozen", res.Reason)
}

func (suite *HandlersTestSuite) TestSubmitTransfer_StoreFailureHidesCause() {
	suite.transfers.On("SubmitTransfer", mock.Anything, suite.userID, mock.Anything).
		Return(nil, fmt.Errorf("%w: dial tcp 10.0.0.5:5432", apperrors.ErrStoreOperationFailed)).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/transfers", domesticTransfer(), withKey)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.NotContains(w.Body.String(), "10.0.0.5")
}

func (suite *HandlersTestSuite) TestSubmitTransfer_Unauthenticated() {
	w := suite.do(http.MethodPost, "/api/v1/transfers", domesticTransfer(), "", withKey)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.transfers.AssertNotCalled(suite.T(), "SubmitTransfer")
}

// --- Customer access ---

func (suite *HandlersTestSuite) TestCustomerRoutes_BlockedCustomerRefused() {
	blocked := uuid.NewString()
	suite.accounts.On("CheckAccess", mock.Anything, blocked).Return(apperrors.NewAccessDenied("blocked")).Once()

	w := suite.do(http.MethodGet, "/api/v1/me/account", nil, suite.generateTestToken(blocked, domain.RoleCustomer), nil)

	suite.Equal(http.StatusForbidden, w.Code)
	res := suite.errorBody(w)
	suite.Equal("account access disabled", res.Error)
	suite.Equal("blocked", res.Reason)
	suite.accounts.AssertNotCalled(suite.T(), "GetMyAccount", mock.Anything, blocked)
}

func (suite *HandlersTestSuite) TestSubmitTransfer_LoginDisabledRefused() {
	disabled := uuid.NewString()
	suite.accounts.On("CheckAccess", mock.Anything, disabled).Return(apperrors.NewAccessDenied("login_disabled")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", domesticTransfer(), suite.generateTestToken(disabled, domain.RoleCustomer), withKey)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("login_disabled", suite.errorBody(w).Reason)
	suite.transfers.AssertNotCalled(suite.T(), "SubmitTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCustomerRoutes_AccessCheckStoreFailure() {
	other := uuid.NewString()
	suite.accounts.On("CheckAccess", mock.Anything, other).Return(apperrors.ErrStoreOperationFailed).Once()

	w := suite.do(http.MethodGet, "/api/v1/me/notifications", nil, suite.generateTestToken(other, domain.RoleCustomer), nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.notifications.AssertNotCalled(suite.T(), "ListNotifications", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestAdminRoutes_SkipCustomerAccessCheck() {
	suite.customers.On("ListCustomers", mock.Anything, mock.Anything).Return([]domain.CustomerDetails{}, nil, nil).Once()

	w := suite.asAdmin(http.MethodGet, "/api/v1/admin/customers", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "CheckAccess", mock.Anything, suite.adminID)
}

// --- Account opening ---

func (suite *HandlersTestSuite) TestOpenAccount_Created() {
	routing := "021000021"
	details := &domain.CustomerDetails{
		Customer: domain.Customer{CustomerID: "c-1", UserID: suite.userID, AccountNumber: "1000000007", RoutingNumber: &routing, Currency: "USD", Status: domain.StatusActive},
		Profile:  domain.Profile{Name: "Alice Carter", Email: "alice@example.com"},
	}
	suite.accounts.On("OpenAccount", mock.Anything, suite.userID, mock.MatchedBy(func(r dto.OpenAccountRequest) bool {
		return r.Name == "Alice Carter" && r.Email == "alice@example.com"
	})).Return(details, nil).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/me/account", map[string]any{"name": "Alice Carter", "email": "alice@example.com"}, nil)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.CustomerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("1000000007", res.AccountNumber)
	suite.Require().NotNil(res.RoutingNumber)
	suite.Equal("021000021", *res.RoutingNumber)
}

func (suite *HandlersTestSuite) TestOpenAccount_AlreadyOpen() {
	suite.accounts.On("OpenAccount", mock.Anything, suite.userID, mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/me/account", map[string]any{"name": "Alice Carter", "email": "alice@example.com"}, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestOpenAccount_InvalidEmail() {
	w := suite.asCustomer(http.MethodPost, "/api/v1/me/account", map[string]any{"name": "Alice Carter", "email": "not-an-email"}, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "OpenAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateCustomer_Created() {
	details := &domain.CustomerDetails{Customer: domain.Customer{CustomerID: "c-2", UserID: "user-2", AccountNumber: "1000000008"}}
	suite.customers.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(r dto.CreateCustomerRequest) bool {
		return r.UserID == "user-2" && r.Name == "Bob Stone"
	}), suite.adminID).Return(details, nil).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/admin/customers", map[string]any{"userID": "user-2", "name": "Bob Stone", "email": "bob@example.com"})

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), `"accountNumber":"1000000008"`)
	suite.customers.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestSearchRecipients() {
	suite.recipients.On("SearchRecipients", mock.Anything, suite.userID, "alice").
		Return([]domain.Recipient{{CustomerID: "c-1", Name: "Alice Carter", AccountNumber: "1000000001"}}, nil).Once()

	w := suite.asCustomer(http.MethodGet, "/api/v1/recipients/search?q=alice", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.RecipientResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res, 1)
	suite.Equal("Alice Carter", res[0].Name)
}

// --- Self service ---

func (suite *HandlersTestSuite) TestListMyTransactions_PassesPaging() {
	next := "token-2"
	suite.accounts.On("ListMyTransactions", mock.Anything, suite.userID, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.Limit == 5 && p.NextToken != nil && *p.NextToken == "token-1"
	})).Return([]domain.Transaction{{Reference: "TXN-1-A"}}, &next, nil).Once()

	w := suite.asCustomer(http.MethodGet, "/api/v1/me/transactions?limit=5&nextToken=token-1", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Transactions, 1)
	suite.Require().NotNil(res.NextToken)
	suite.Equal("token-2", *res.NextToken)
}

func (suite *HandlersTestSuite) TestListMyTransactions_LimitOutOfRange() {
	w := suite.asCustomer(http.MethodGet, "/api/v1/me/transactions?limit=1000", nil, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "ListMyTransactions")
}

func (suite *HandlersTestSuite) TestGetMyTransaction_NotFound() {
	suite.accounts.On("GetMyTransaction", mock.Anything, suite.userID, "TXN-404").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.asCustomer(http.MethodGet, "/api/v1/me/transactions/TXN-404", nil, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestMarkNotificationRead() {
	suite.notifications.On("MarkNotificationRead", mock.Anything, suite.userID, "n-1").Return(nil).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/me/notifications/n-1/read", nil, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.notifications.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestRequestCard_DuplicatePending() {
	suite.cards.On("RequestCard", mock.Anything, suite.userID, domain.CardTypeDebit).
		Return(nil, fmt.Errorf("%w: a card request is already pending", apperrors.ErrDuplicate)).Once()

	w := suite.asCustomer(http.MethodPost, "/api/v1/me/card-requests", map[string]any{"cardType": "debit"}, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- Admin ---

func (suite *HandlersTestSuite) TestAdminRoutes_RequireAdminRole() {
	w := suite.asCustomer(http.MethodGet, "/api/v1/admin/transfers/pending", nil, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.settlement.AssertNotCalled(suite.T(), "ListPendingTransfers")
}

func (suite *HandlersTestSuite) TestApproveTransfer() {
	txn := &domain.Transaction{TransactionID: "t-1", Status: domain.TxStatusCompleted}
	suite.settlement.On("ApproveTransfer", mock.Anything, "t-1", suite.adminID).Return(txn, nil).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/admin/transfers/t-1/approve", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"completed"`)
}

func (suite *HandlersTestSuite) TestRejectTransfer_AlreadySettled() {
	suite.settlement.On("RejectTransfer", mock.Anything, "t-1", suite.adminID).Return(nil, apperrors.ErrAlreadySettled).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/admin/transfers/t-1/reject", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.ErrAlreadySettled.Error(), suite.errorBody(w).Error)
}

func (suite *HandlersTestSuite) TestFundAccount() {
	txn := &domain.Transaction{TransactionID: "t-9", Type: domain.Credit, Reference: "FUND-1-ABCDEFGHI"}
	suite.funding.On("FundAccount", mock.Anything, "c-1", dto.FundAccountRequest{Amount: "150.00", Description: "Opening deposit"}, suite.adminID).
		Return(txn, decimal.RequireFromString("350.00"), nil).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/admin/customers/c-1/fund", map[string]any{"amount": "150.00", "description": "Opening deposit"})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.FundAccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.Balance.Equal(decimal.RequireFromString("350")))
	suite.Equal("FUND-1-ABCDEFGHI", res.Transaction.Reference)
}

func (suite *HandlersTestSuite) TestChangeStatus_UnknownStatus() {
	w := suite.asAdmin(http.MethodPut, "/api/v1/admin/customers/c-1/status", map[string]any{"status": "closed"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.customers.AssertNotCalled(suite.T(), "ChangeStatus")
}

func (suite *HandlersTestSuite) TestSetTransferPermission_False() {
	customer := &domain.Customer{CustomerID: "c-1", Status: domain.StatusActive}
	suite.customers.On("SetTransferPermission", mock.Anything, "c-1", false, suite.adminID).Return(customer, nil).Once()

	w := suite.asAdmin(http.MethodPut, "/api/v1/admin/customers/c-1/permissions/transfers", map[string]any{"enabled": false})

	suite.Equal(http.StatusOK, w.Code)
	suite.customers.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestSetLoginPermission_MissingFlag() {
	w := suite.asAdmin(http.MethodPut, "/api/v1/admin/customers/c-1/permissions/login", map[string]any{})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestUpdateProfile_InvalidCurrency() {
	w := suite.asAdmin(http.MethodPut, "/api/v1/admin/customers/c-1/profile", map[string]any{"currency": "usd"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.funding.AssertNotCalled(suite.T(), "EditCustomerProfile")
}

func (suite *HandlersTestSuite) TestListCardRequests_StatusFilter() {
	suite.cards.On("ListCardRequests", mock.Anything, mock.MatchedBy(func(s *domain.CardRequestStatus) bool {
		return s != nil && *s == domain.CardRequestPending
	}), 50).Return([]domain.CardRequest{{RequestID: "r-1", Status: domain.CardRequestPending}}, nil).Once()

	w := suite.asAdmin(http.MethodGet, "/api/v1/admin/card-requests?status=pending", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.cards.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestListAuditLogs() {
	customerID := "c-1"
	suite.audit.On("ListAuditEntries", mock.Anything, dto.ListAuditLogsParams{CustomerID: &customerID, Limit: 100}).
		Return([]domain.AuditEntry{{AuditID: "a-1", Action: domain.ActionFundAccount, Details: "Funded account with $10.00. Ref: FUND-1-X"}}, nil).Once()

	w := suite.asAdmin(http.MethodGet, "/api/v1/admin/audit-logs?customerID=c-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "FUND_ACCOUNT")
}
