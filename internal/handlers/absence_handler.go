package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAbsence "github.com/BruksfildServices01/barber-booking/internal/usecase/absence"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/availability"
)

type AbsenceHandler struct {
	catalog booking.CatalogRepository

	submitUC  *ucAbsence.SubmitAbsence
	approveUC *ucAbsence.ApproveAbsence
	rejectUC  *ucAbsence.RejectAbsence
	listUC    *ucAbsence.ListAbsences
	detailUC  *ucAbsence.GetAbsenceDetail
	findUC    *availability.FindAvailableBarbers
}

func NewAbsenceHandler(
	catalog booking.CatalogRepository,
	submitUC *ucAbsence.SubmitAbsence,
	approveUC *ucAbsence.ApproveAbsence,
	rejectUC *ucAbsence.RejectAbsence,
	listUC *ucAbsence.ListAbsences,
	detailUC *ucAbsence.GetAbsenceDetail,
	findUC *availability.FindAvailableBarbers,
) *AbsenceHandler {
	return &AbsenceHandler{
		catalog:   catalog,
		submitUC:  submitUC,
		approveUC: approveUC,
		rejectUC:  rejectUC,
		listUC:    listUC,
		detailUC:  detailUC,
		findUC:    findUC,
	}
}

// --------- Requests ---------

type SubmitAbsenceRequest struct {
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description" binding:"max=1000"`
}

type ResolutionRequest struct {
	BookingID       uint   `json:"booking_id" binding:"required"`
	Action          string `json:"action" binding:"required,oneof=reassign reject"`
	NewBarberID     uint   `json:"new_barber_id"`
	RejectionReason string `json:"rejection_reason" binding:"max=50"`
	RejectionNote   string `json:"rejection_note" binding:"max=255"`
}

// A UI só chama a aprovação com todas as decisões já coletadas.
type ApproveAbsenceRequest struct {
	Resolutions []ResolutionRequest `json:"resolutions" binding:"dive"`
}

// ======================================================
// BARBEIRO
// ======================================================

func (h *AbsenceHandler) Submit(c *gin.Context) {
	barber := currentBarber(c, h.catalog)
	if barber == nil {
		return
	}

	var req SubmitAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.", err.Error())
		return
	}

	start, err1 := timezone.ParseDate(req.StartDate)
	end, err2 := timezone.ParseDate(req.EndDate)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date", "Datas inválidas (use YYYY-MM-DD).")
		return
	}

	a, err := h.submitUC.Execute(c.Request.Context(), ucAbsence.SubmitAbsenceInput{
		BarberID:    barber.ID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.NewAbsenceDTO(a))
}

func (h *AbsenceHandler) ListMine(c *gin.Context) {
	barber := currentBarber(c, h.catalog)
	if barber == nil {
		return
	}

	absences, err := h.listUC.ByBarber(c.Request.Context(), barber.ID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.NewAbsenceList(absences))
}

// ======================================================
// ADMIN
// ======================================================

func (h *AbsenceHandler) List(c *gin.Context) {
	absences, err := h.listUC.ByBarbershop(c.Request.Context(), barbershopIDFrom(c), c.Query("state"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.NewAbsenceList(absences))
}

func (h *AbsenceHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.detailUC.Execute(c.Request.Context(), barbershopIDFrom(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *AbsenceHandler) Approve(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if !h.ownsAbsence(c, id) {
		return
	}

	var req ApproveAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.", err.Error())
		return
	}

	resolutions := make(map[uint]domain.ResolutionAction, len(req.Resolutions))
	for _, r := range req.Resolutions {
		if _, dup := resolutions[r.BookingID]; dup {
			httperr.BadRequest(c, "duplicated_resolution", "Mais de uma decisão para o mesmo agendamento.")
			return
		}

		if domain.ResolutionKind(r.Action) == domain.KindReassign {
			resolutions[r.BookingID] = domain.Reassign(r.NewBarberID)
		} else {
			resolutions[r.BookingID] = domain.Reject(r.RejectionReason, r.RejectionNote)
		}
	}

	a, err := h.approveUC.Execute(c.Request.Context(), id, userIDFrom(c), resolutions)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAbsenceDTO(a))
}

func (h *AbsenceHandler) Reject(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if !h.ownsAbsence(c, id) {
		return
	}

	a, err := h.rejectUC.Execute(c.Request.Context(), id, userIDFrom(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAbsenceDTO(a))
}

// AvailableBarbers lista candidatos para um horário:
// ?start=2024-06-10T10:00:00-03:00&service_id=1&exclude_barber_id=2
func (h *AbsenceHandler) AvailableBarbers(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "Horário inválido (RFC3339).")
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	var exclude uint64
	if s := c.Query("exclude_barber_id"); s != "" {
		if exclude, err = strconv.ParseUint(s, 10, 64); err != nil {
			httperr.BadRequest(c, "invalid_exclude_barber_id", "Barbeiro inválido.")
			return
		}
	}

	barbers, err := h.findUC.Execute(c.Request.Context(), availability.Query{
		BarbershopID:    barbershopIDFrom(c),
		Start:           start,
		ServiceID:       uint(serviceID),
		ExcludeBarberID: uint(exclude),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]dto.BarberCandidateDTO, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, dto.NewBarberCandidate(b))
	}

	httpresp.List(c, out)
}

// pedidos de outra barbearia respondem como inexistentes
func (h *AbsenceHandler) ownsAbsence(c *gin.Context, id uint) bool {
	if _, err := h.detailUC.Summary(c.Request.Context(), barbershopIDFrom(c), id); err != nil {
		httperr.FromError(c, err)
		return false
	}
	return true
}
