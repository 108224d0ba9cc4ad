package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := userIDFrom(c)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	resp := gin.H{
		"user":       userJSON(&user),
		"barbershop": user.Barbershop,
	}

	// barbeiros recebem também o perfil profissional
	if user.Role == models.RoleBarber {
		var barber models.Barber
		if err := h.db.WithContext(c.Request.Context()).
			Where("user_id = ?", user.ID).
			First(&barber).Error; err == nil {
			resp["barber"] = barber
		}
	}

	c.JSON(http.StatusOK, resp)
}
