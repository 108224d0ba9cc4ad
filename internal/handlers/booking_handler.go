package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

type BookingHandler struct {
	catalog        domain.CatalogRepository
	listUC         *ucBooking.ListBookings
	updateStatusUC *ucBooking.UpdateStatus
}

func NewBookingHandler(
	catalog domain.CatalogRepository,
	listUC *ucBooking.ListBookings,
	updateStatusUC *ucBooking.UpdateStatus,
) *BookingHandler {
	return &BookingHandler{
		catalog:        catalog,
		listUC:         listUC,
		updateStatusUC: updateStatusUC,
	}
}

type UpdateBookingStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	CancelReason string `json:"cancel_reason" binding:"max=50"`
	CancelNote   string `json:"cancel_note" binding:"max=255"`
}

// ======================================================
// LISTAGENS (BARBEIRO LOGADO)
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	barber := currentBarber(c, h.catalog)
	if barber == nil {
		return
	}

	date, err := timezone.ParseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida (use YYYY-MM-DD).")
		return
	}

	out, err := h.listUC.ByDate(c.Request.Context(), barber.ID, barber.BarbershopID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	barber := currentBarber(c, h.catalog)
	if barber == nil {
		return
	}

	now := time.Now()
	year, err1 := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, err2 := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_period", "Ano ou mês inválidos.")
		return
	}

	out, err := h.listUC.ByMonth(c.Request.Context(), barber.ID, barber.BarbershopID, year, month)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// STATUS
// ======================================================

// UpdateStatus: barbeiro só altera os próprios agendamentos; admin altera
// qualquer um da barbearia.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucBooking.UpdateStatusInput{
		BarbershopID: barbershopIDFrom(c),
		BookingID:    id,
		Status:       req.Status,
		UserID:       userIDFrom(c),
		CancelReason: req.CancelReason,
		CancelNote:   req.CancelNote,
	}

	if !isAdmin(c) {
		barber := currentBarber(c, h.catalog)
		if barber == nil {
			return
		}
		in.BarberID = barber.ID
	}

	b, err := h.updateStatusUC.Execute(c.Request.Context(), in)
	if err != nil {
		mapStatusErrors(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func mapStatusErrors(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.FromError(c, err)
		return
	}

	switch code {
	case "booking_not_found":
		httperr.NotFound(c, code, "Agendamento não encontrado.")
	case "invalid_status":
		httperr.BadRequest(c, code, "Status inválido.")
	case "invalid_status_transition":
		httperr.Conflict(c, code, "Mudança de status não permitida.")
	case "booking_modified":
		httperr.Conflict(c, code, "O agendamento foi alterado. Atualize a página.")
	default:
		httperr.BadRequest(c, code, "Operação inválida.")
	}
}
