package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logger *audit.Logger
}

func NewAuditLogsHandler(logger *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logger: logger}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	f := audit.Filter{
		BarbershopID: barbershopIDFrom(c),
		Action:       c.Query("action"),
		Entity:       c.Query("entity"),
		Page:         page,
		Limit:        limit,
	}

	// datas inválidas são ignoradas
	if from, err := timezone.ParseDate(c.Query("from")); err == nil {
		f.From = from
	}
	if to, err := timezone.ParseDate(c.Query("to")); err == nil {
		f.To = to
	}

	f.Normalize()

	logs, total, err := h.logger.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, f.Page, f.Limit, total)
}
