package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ======================================================
// LIST CLIENTS (ADMIN)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ?", barbershopIDFrom(c))

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}

// Bookings devolve o histórico de agendamentos do cliente.
func (h *ClientHandler) Bookings(c *gin.Context) {
	clientID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var bookings []models.Booking
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Service").
		Where("client_id = ? AND barbershop_id = ?", clientID, barbershopIDFrom(c)).
		Order("start_time DESC").
		Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(http.StatusOK, bookings)
}
