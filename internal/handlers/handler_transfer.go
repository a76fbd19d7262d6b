package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
	"github.com/slada12/secure-blu-vault/internal/middleware"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLen = 255
)

type transferHandler struct {
	transferService  portssvc.TransferSvc
	recipientService portssvc.RecipientSvc
}

func registerTransferRoutes(rg *gin.RouterGroup, transferSvc portssvc.TransferSvc, recipientSvc portssvc.RecipientSvc, transferLimit, searchLimit gin.HandlerFunc) {
	h := &transferHandler{transferService: transferSvc, recipientService: recipientSvc}

	rg.POST("/transfers", transferLimit, h.submitTransfer)
	rg.GET("/recipients/search", searchLimit, h.searchRecipients)
}

// submitTransfer godoc
// @Summary Send money
// @Description Debits the caller's account. Transfers to a vault account complete immediately;
// @Description other domestic and international transfers stay pending until an administrator settles them.
// @Description Resubmitting with the same Idempotency-Key returns the original transfer instead of debiting again.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string true "Client generated key, unique per transfer"
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse "Transfer applied"
// @Success 200 {object} dto.TransferResponse "Replay of an earlier transfer"
// @Failure 400 {object} dto.ErrorResponse "Invalid input or amount"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account may not send money"
// @Failure 409 {object} dto.ErrorResponse "Idempotency key reused with a different request"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable, nothing applied"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) submitTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := callerID(c)
	if !ok {
		return
	}

	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	if key == "" || len(key) > maxIdempotencyKeyLen {
		logger.Warn("Idempotency key missing or too long", slog.Int("length", len(key)))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Idempotency-Key header is required (max 255 characters)"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.IdempotencyKey = key

	logger.Info("Received transfer request", slog.String("transfer_type", string(req.Type)))
	applied, err := h.transferService.SubmitTransfer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to submit transfer")
		return
	}

	status := http.StatusCreated
	if applied.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToTransferResponse(applied))
}

// searchRecipients godoc
// @Summary Search transfer recipients
// @Description Finds vault accounts by account number (digits) or holder name. Returns at most five matches and never the caller.
// @Tags transfers
// @Produce  json
// @Param   q query string true "Account number fragment or name"
// @Success 200 {array} dto.RecipientResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Caller has no account"
// @Security BearerAuth
// @Router /recipients/search [get]
func (h *transferHandler) searchRecipients(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var params dto.SearchRecipientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	recipients, err := h.recipientService.SearchRecipients(c.Request.Context(), userID, params.Query)
	if err != nil {
		respondError(c, err, "Failed to search recipients")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecipientResponses(recipients))
}
