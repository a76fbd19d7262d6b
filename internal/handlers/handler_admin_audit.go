package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/slada12/secure-blu-vault/internal/core/ports/services"
	"github.com/slada12/secure-blu-vault/internal/dto"
)

type auditHandler struct {
	auditService portssvc.AuditSvc
}

func registerAuditRoutes(rg *gin.RouterGroup, auditSvc portssvc.AuditSvc) {
	h := &auditHandler{auditService: auditSvc}
	rg.GET("/audit-logs", h.list)
}

// list godoc
// @Summary List audit log entries
// @Description Newest first, at most 100 entries.
// @Tags admin
// @Produce  json
// @Param   customerID query string false "Only entries targeting this customer"
// @Param   limit query int false "Maximum entries" default(100)
// @Success 200 {array} dto.AuditEntryResponse
// @Security BearerAuth
// @Router /admin/audit-logs [get]
func (h *auditHandler) list(c *gin.Context) {
	var params dto.ListAuditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	entries, err := h.auditService.ListAuditEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list audit log")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditEntryResponses(entries))
}
