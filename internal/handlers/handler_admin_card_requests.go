package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

type cardRequestAdminHandler struct {
	cardRequestService portssvc.CardRequestSvcFacade
}

func registerCardRequestAdminRoutes(rg *gin.RouterGroup, cardSvc portssvc.CardRequestSvcFacade) {
	h := &cardRequestAdminHandler{cardRequestService: cardSvc}

	requests := rg.Group("/card-requests")
	{
		requests.GET("", h.list)
		requests.POST("/:id/approve", h.approve)
		requests.POST("/:id/reject", h.reject)
	}
}

// list godoc
// @Summary List card requests
// @Tags admin
// @Produce  json
// @Param   status query string false "pending, approved or rejected"
// @Param   limit query int false "Maximum entries" default(50)
// @Success 200 {array} dto.CardRequestResponse
// @Security BearerAuth
// @Router /admin/card-requests [get]
func (h *cardRequestAdminHandler) list(c *gin.Context) {
	var params dto.ListCardRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	var status *domain.CardRequestStatus
	if params.Status != "" {
		s := domain.CardRequestStatus(params.Status)
		status = &s
	}
	requests, err := h.cardRequestService.ListCardRequests(c.Request.Context(), status, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list card requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardRequestResponses(requests))
}

// approve godoc
// @Summary Approve a card request
// @Tags admin
// @Produce  json
// @Param   id path string true "Card request ID"
// @Success 200 {object} dto.CardRequestResponse
// @Failure 404 {object} dto.ErrorResponse "Card request not found"
// @Failure 409 {object} dto.ErrorResponse "Card request already resolved"
// @Security BearerAuth
// @Router /admin/card-requests/{id}/approve [post]
func (h *cardRequestAdminHandler) approve(c *gin.Context) {
	h.resolve(c, h.cardRequestService.ApproveCardRequest)
}

// reject godoc
// @Summary Reject a card request
// @Tags admin
// @Produce  json
// @Param   id path string true "Card request ID"
// @Success 200 {object} dto.CardRequestResponse
// @Failure 404 {object} dto.ErrorResponse "Card request not found"
// @Failure 409 {object} dto.ErrorResponse "Card request already resolved"
// @Security BearerAuth
// @Router /admin/card-requests/{id}/reject [post]
func (h *cardRequestAdminHandler) reject(c *gin.Context) {
	h.resolve(c, h.cardRequestService.RejectCardRequest)
}

func (h *cardRequestAdminHandler) resolve(c *gin.Context, fn func(context.Context, string, string) (*domain.CardRequest, error)) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}
	request, err := fn(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		respondError(c, err, "Failed to resolve card request")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardRequestResponse(request))
}
