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

type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func registerSettlementRoutes(rg *gin.RouterGroup, settlementSvc portssvc.SettlementSvcFacade) {
	h := &settlementHandler{settlementService: settlementSvc}

	transfers := rg.Group("/transfers")
	{
		transfers.GET("/pending", h.listPending)
		transfers.POST("/:id/approve", h.approve)
		transfers.POST("/:id/reject", h.reject)
	}
}

// listPending godoc
// @Summary List pending transfers
// @Description The settlement queue, oldest first.
// @Tags admin
// @Produce  json
// @Param   limit query int false "Maximum entries" default(50)
// @Success 200 {array} dto.PendingTransferResponse
// @Security BearerAuth
// @Router /admin/transfers/pending [get]
func (h *settlementHandler) listPending(c *gin.Context) {
	var params dto.ListPendingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	pending, err := h.settlementService.ListPendingTransfers(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list pending transfers")
		return
	}
	c.JSON(http.StatusOK, dto.ToPendingTransferResponses(pending))
}

// approve godoc
// @Summary Approve a pending transfer
// @Tags admin
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 409 {object} dto.ErrorResponse "Transaction already settled"
// @Security BearerAuth
// @Router /admin/transfers/{id}/approve [post]
func (h *settlementHandler) approve(c *gin.Context) {
	h.settle(c, "approve", h.settlementService.ApproveTransfer)
}

// reject godoc
// @Summary Reject a pending transfer
// @Description The sender is refunded the transfer amount.
// @Tags admin
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Failure 409 {object} dto.ErrorResponse "Transaction already settled"
// @Security BearerAuth
// @Router /admin/transfers/{id}/reject [post]
func (h *settlementHandler) reject(c *gin.Context) {
	h.settle(c, "reject", h.settlementService.RejectTransfer)
}

func (h *settlementHandler) settle(c *gin.Context, action string, fn func(context.Context, string, string) (*domain.Transaction, error)) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	transactionID := c.Param("id")
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Settling transfer",
		slog.String("transaction_id", transactionID), slog.String("action", action))

	txn, err := fn(c.Request.Context(), transactionID, adminID)
	if err != nil {
		respondError(c, err, "Failed to "+action+" transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
