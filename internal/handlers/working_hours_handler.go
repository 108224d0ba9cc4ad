package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type WorkingHoursHandler struct {
	db      *gorm.DB
	catalog booking.CatalogRepository
}

func NewWorkingHoursHandler(db *gorm.DB, catalog booking.CatalogRepository) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, catalog: catalog}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	barber := currentBarber(c, h.catalog)
	if barber == nil {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("barber_id = ?", barber.ID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar o expediente.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update substitui a semana inteira do barbeiro.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	barber := currentBarber(c, h.catalog)
	if barber == nil {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos na requisição.", err.Error())
		return
	}

	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	seen := make(map[int]bool)

	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicated_weekday", "Dia da semana repetido.")
			return
		}
		seen[d.Weekday] = true

		if d.Active && !validDay(d) {
			httperr.BadRequest(c, "invalid_working_hours", "Horários inválidos para o dia informado.")
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			BarberID:   barber.ID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", barber.ID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Erro ao salvar o expediente.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// início < fim; almoço, se houver, dentro do expediente
func validDay(d WorkingDayConfig) bool {
	start, err1 := time.Parse("15:04", d.StartTime)
	end, err2 := time.Parse("15:04", d.EndTime)
	if err1 != nil || err2 != nil || !start.Before(end) {
		return false
	}

	if d.LunchStart == "" && d.LunchEnd == "" {
		return true
	}

	ls, err1 := time.Parse("15:04", d.LunchStart)
	le, err2 := time.Parse("15:04", d.LunchEnd)
	if err1 != nil || err2 != nil || !ls.Before(le) {
		return false
	}
	return !ls.Before(start) && !le.After(end)
}
