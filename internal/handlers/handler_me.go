package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

// meHandler serves the caller's own account, history, notifications and card requests.
type meHandler struct {
	accountService      portssvc.AccountSvc
	notificationService portssvc.NotificationSvc
	cardRequestService  portssvc.CardRequestSvcFacade
}

func registerMeRoutes(rg *gin.RouterGroup, accountSvc portssvc.AccountSvc, notificationSvc portssvc.NotificationSvc, cardSvc portssvc.CardRequestSvcFacade) {
	h := &meHandler{
		accountService:      accountSvc,
		notificationService: notificationSvc,
		cardRequestService:  cardSvc,
	}

	me := rg.Group("/me")
	{
		me.GET("/account", h.getAccount)
		me.POST("/account", h.openAccount)
		me.GET("/transactions", h.listTransactions)
		me.GET("/transactions/:ref", h.getTransaction)
		me.GET("/notifications", h.listNotifications)
		me.POST("/notifications/:id/read", h.markNotificationRead)
		me.POST("/card-requests", h.requestCard)
	}
}

// getAccount godoc
// @Summary Get my account
// @Tags me
// @Produce  json
// @Success 200 {object} dto.CustomerResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No account for this user"
// @Security BearerAuth
// @Router /me/account [get]
func (h *meHandler) getAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	details, err := h.accountService.GetMyAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerDetailsResponse(details))
}

// openAccount godoc
// @Summary Open my account
// @Description Creates the caller's account with a generated account and routing number and a zero balance.
// @Tags me
// @Accept  json
// @Produce  json
// @Param   account body dto.OpenAccountRequest true "Account holder details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Account already exists"
// @Security BearerAuth
// @Router /me/account [post]
func (h *meHandler) openAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	details, err := h.accountService.OpenAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to open account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCustomerDetailsResponse(details))
}

// listTransactions godoc
// @Summary List my transactions
// @Description Newest first, paginated with nextToken.
// @Tags me
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /me/transactions [get]
func (h *meHandler) listTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	txns, next, err := h.accountService.ListMyTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	})
}

// getTransaction godoc
// @Summary Get one of my transactions by reference
// @Tags me
// @Produce  json
// @Param   ref path string true "Transaction reference"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Security BearerAuth
// @Router /me/transactions/{ref} [get]
func (h *meHandler) getTransaction(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	txn, err := h.accountService.GetMyTransaction(c.Request.Context(), userID, c.Param("ref"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listNotifications godoc
// @Summary List my notifications
// @Tags me
// @Produce  json
// @Param   unreadOnly query bool false "Only unread notifications"
// @Param   limit query int false "Page size" default(50)
// @Success 200 {array} dto.NotificationResponse
// @Security BearerAuth
// @Router /me/notifications [get]
func (h *meHandler) listNotifications(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, dto.ToNotificationResponses(notifications))
}

// markNotificationRead godoc
// @Summary Mark a notification as read
// @Tags me
// @Param   id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Security BearerAuth
// @Router /me/notifications/{id}/read [post]
func (h *meHandler) markNotificationRead(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkNotificationRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to update notification")
		return
	}
	c.Status(http.StatusNoContent)
}

// requestCard godoc
// @Summary Apply for a card
// @Description Only one request may be pending per customer.
// @Tags me
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateCardRequestRequest true "Card type"
// @Success 201 {object} dto.CardRequestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid card type"
// @Failure 409 {object} dto.ErrorResponse "A request is already pending"
// @Security BearerAuth
// @Router /me/card-requests [post]
func (h *meHandler) requestCard(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateCardRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	request, err := h.cardRequestService.RequestCard(c.Request.Context(), userID, req.CardType)
	if err != nil {
		respondError(c, err, "Failed to create card request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCardRequestResponse(request))
}
