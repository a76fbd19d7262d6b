package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/slada12/secure-blu-vault/internal/middleware"
)

// customerAdminHandler handles administrator operations on customer accounts.
type customerAdminHandler struct {
	customerService portssvc.CustomerAdminSvcFacade
	fundingService  portssvc.FundingSvcFacade
}

func registerCustomerAdminRoutes(rg *gin.RouterGroup, customerSvc portssvc.CustomerAdminSvcFacade, fundingSvc portssvc.FundingSvcFacade) {
	h := &customerAdminHandler{customerService: customerSvc, fundingService: fundingSvc}

	customers := rg.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.POST("", h.createCustomer)
		customers.GET("/:id", h.getCustomer)
		customers.PUT("/:id/profile", h.updateProfile)
		customers.PUT("/:id/status", h.changeStatus)
		customers.PUT("/:id/permissions/transfers", h.setTransferPermission)
		customers.PUT("/:id/permissions/login", h.setLoginPermission)
		customers.POST("/:id/fund", h.fundAccount)
		customers.POST("/:id/transactions", h.addTransaction)
	}
	rg.PUT("/transactions/:id", h.editTransaction)
}

// listCustomers godoc
// @Summary List customers
// @Description Newest first, paginated with nextToken.
// @Tags admin
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /admin/customers [get]
func (h *customerAdminHandler) listCustomers(c *gin.Context) {
	var params dto.ListCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	customers, next, err := h.customerService.ListCustomers(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, dto.ListCustomersResponse{
		Customers: dto.ToListCustomerResponse(customers),
		NextToken: next,
	})
}

// createCustomer godoc
// @Summary Open an account for a user
// @Description The user must already be registered with the identity provider. Account and routing numbers are generated.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "User and account holder details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "User already has an account"
// @Security BearerAuth
// @Router /admin/customers [post]
func (h *customerAdminHandler) createCustomer(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	details, err := h.customerService.CreateCustomer(c.Request.Context(), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCustomerDetailsResponse(details))
}

// getCustomer godoc
// @Summary Get a customer
// @Tags admin
// @Produce  json
// @Param   id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /admin/customers/{id} [get]
func (h *customerAdminHandler) getCustomer(c *gin.Context) {
	details, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerDetailsResponse(details))
}

// updateProfile godoc
// @Summary Edit a customer's profile
// @Description Overwrites the given profile fields. A currency change relabels the balance without converting it.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   profile body dto.UpdateCustomerProfileRequest true "Fields to change"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /admin/customers/{id}/profile [put]
func (h *customerAdminHandler) updateProfile(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	details, err := h.fundingService.EditCustomerProfile(c.Request.Context(), c.Param("id"), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to update customer profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerDetailsResponse(details))
}

// changeStatus godoc
// @Summary Change a customer's account status
// @Description active enables sending and login; blocked disables both; frozen disables sending and keeps login as it was.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   status body dto.ChangeStatusRequest true "New status"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /admin/customers/{id}/status [put]
func (h *customerAdminHandler) changeStatus(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Changing customer status",
		slog.String("customer_id", c.Param("id")), slog.String("status", string(req.Status)))
	customer, err := h.customerService.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status, adminID)
	if err != nil {
		respondError(c, err, "Failed to change customer status")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// setTransferPermission godoc
// @Summary Enable or disable sending money
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   permission body dto.SetPermissionRequest true "Enabled flag"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /admin/customers/{id}/permissions/transfers [put]
func (h *customerAdminHandler) setTransferPermission(c *gin.Context) {
	h.setPermission(c, h.customerService.SetTransferPermission)
}

// setLoginPermission godoc
// @Summary Enable or disable login
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   permission body dto.SetPermissionRequest true "Enabled flag"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /admin/customers/{id}/permissions/login [put]
func (h *customerAdminHandler) setLoginPermission(c *gin.Context) {
	h.setPermission(c, h.customerService.SetLoginPermission)
}

type permissionSetter func(ctx context.Context, customerID string, enabled bool, adminID string) (*domain.Customer, error)

func (h *customerAdminHandler) setPermission(c *gin.Context, set permissionSetter) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.SetPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	customer, err := set(c.Request.Context(), c.Param("id"), *req.Enabled, adminID)
	if err != nil {
		respondError(c, err, "Failed to update customer permission")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// fundAccount godoc
// @Summary Fund a customer account
// @Description Credits the account and records a completed credit transaction from the institution.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   funding body dto.FundAccountRequest true "Amount and description"
// @Success 201 {object} dto.FundAccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable, nothing applied"
// @Security BearerAuth
// @Router /admin/customers/{id}/fund [post]
func (h *customerAdminHandler) fundAccount(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.FundAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	txn, balance, err := h.fundingService.FundAccount(c.Request.Context(), c.Param("id"), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to fund account")
		return
	}
	c.JSON(http.StatusCreated, dto.FundAccountResponse{
		Transaction: dto.ToTransactionResponse(txn),
		Balance:     balance,
	})
}

// addTransaction godoc
// @Summary Add a historical transaction
// @Description Inserts a completed transaction with the given date. The balance is not changed.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Customer ID"
// @Param   transaction body dto.AddTransactionRequest true "Transaction record"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /admin/customers/{id}/transactions [post]
func (h *customerAdminHandler) addTransaction(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	txn, err := h.fundingService.AddTransactionRecord(c.Request.Context(), c.Param("id"), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to add transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// editTransaction godoc
// @Summary Edit a transaction's amount and date
// @Description The balance is not changed.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   edit body dto.EditTransactionRequest true "New amount and date"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Security BearerAuth
// @Router /admin/transactions/{id} [put]
func (h *customerAdminHandler) editTransaction(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.EditTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	txn, err := h.fundingService.EditTransaction(c.Request.Context(), c.Param("id"), req, adminID)
	if err != nil {
		respondError(c, err, "Failed to edit transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
