package v1

import (
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAuditLogs(c *gin.Context) {
	q := &domain.ListAuditLogsQuery{
		ResourceType: c.Query("entity_name"),
		ResourceID:   c.Query("entity_id"),
		Page:         parseQueryInt(c, "page", 1),
		PageSize:     parseQueryInt(c, "page_size", 50),
	}
	var ok bool
	if q.UserID, ok = parseQueryUUID(c, "user_id"); !ok {
		return
	}

	result, err := h.svc.Audit.List(c.Request.Context(), q, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *Handler) GetAuditLog(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.Audit.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entry)
}

func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.svc.Dashboard.Summary(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, summary)
}
