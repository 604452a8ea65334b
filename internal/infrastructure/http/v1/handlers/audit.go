package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/id"
	"tavolo/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the change history of catalog entities.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		audit:       audit,
	}
}

// History handles GET /audit/:entityType/:id - newest entries first.
func (h *AuditHandler) History(c *gin.Context) {
	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), c.Param("entityType"), entityID, limit)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	if entries == nil {
		entries = []postgres.AuditEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
