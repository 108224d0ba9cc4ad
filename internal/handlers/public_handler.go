package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/availability"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db        *gorm.DB
	catalog   domain.CatalogRepository
	freeSlots *availability.ListFreeSlots
	createUC  *ucBooking.CreateBooking
}

func NewPublicHandler(
	db *gorm.DB,
	catalog domain.CatalogRepository,
	freeSlots *availability.ListFreeSlots,
	createUC *ucBooking.CreateBooking,
) *PublicHandler {
	return &PublicHandler{
		db:        db,
		catalog:   catalog,
		freeSlots: freeSlots,
		createUC:  createUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Note        string `json:"note" binding:"max=255"`

	// 0 = qualquer barbeiro
	BarberID uint `json:"barber_id"`

	// YYYY-MM-DD e HH:mm no fuso da barbearia
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *PublicHandler) shop(c *gin.Context) (*models.Barbershop, bool) {
	shop, err := h.catalog.GetBarbershopBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return nil, false
	}
	return shop, true
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.shop(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = ?", shop.ID, true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": shop,
		"services":   services,
	})
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	shop, ok := h.shop(c)
	if !ok {
		return
	}

	barbers, err := h.catalog.ListActiveBarbers(c.Request.Context(), shop.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar barbeiros.")
		return
	}

	out := make([]dto.BarberCandidateDTO, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, dto.NewBarberCandidate(b))
	}

	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")
	barberIDStr := c.Query("barber_id")

	if dateStr == "" || serviceIDStr == "" || barberIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data, serviço e barbeiro obrigatórios.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	barberID, err := strconv.ParseUint(barberIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	shop, ok := h.shop(c)
	if !ok {
		return
	}

	barber, err := h.catalog.GetBarber(c.Request.Context(), uint(barberID))
	if err != nil || barber.BarbershopID != shop.ID || !barber.Active {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return
	}

	date, err := time.ParseInLocation(timezone.DateLayout, dateStr, timezone.Location(shop.Timezone))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.freeSlots.Execute(c.Request.Context(), domain.SlotsInput{
		BarbershopID: shop.ID,
		BarberID:     barber.ID,
		ServiceID:    uint(serviceID),
		Date:         date,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	shop, ok := h.shop(c)
	if !ok {
		return
	}

	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if !validators.IsPhoneValid(req.ClientPhone) {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		BarbershopID: shop.ID,
		BarberID:     req.BarberID,
		ClientName:   req.ClientName,
		ClientPhone:  validators.NormalizePhone(req.ClientPhone),
		ClientEmail:  validators.NormalizeEmail(req.ClientEmail),
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		Note:         req.Note,
	})
	if err != nil {
		mapCreateErrors(c, err)
		return
	}

	httpresp.Created(c, b)
}

func mapCreateErrors(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.FromError(c, err)
		return
	}

	switch code {
	case "invalid_date_or_time":
		httperr.BadRequest(c, code, "Data ou horário inválidos.")
	case "too_soon":
		httperr.BadRequest(c, code, "Horário muito próximo. Escolha outro.")
	case "service_not_found":
		httperr.BadRequest(c, code, "Serviço inválido.")
	case "barber_not_found":
		httperr.NotFound(c, code, "Barbeiro não encontrado.")
	case "outside_working_hours":
		httperr.BadRequest(c, code, "Fora do horário de atendimento.")
	case "barber_absent":
		httperr.Conflict(c, code, "O barbeiro estará ausente nesse dia.")
	case "barber_inactive":
		httperr.Conflict(c, code, "Barbeiro indisponível.")
	case "time_conflict":
		httperr.Conflict(c, code, "Horário indisponível.")
	case "no_barber_available":
		httperr.Conflict(c, code, "Nenhum barbeiro disponível nesse horário.")
	default:
		httperr.BadRequest(c, code, "Operação inválida.")
	}
}
