package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func barbershopIDFrom(c *gin.Context) uint {
	return c.MustGet(middleware.ContextBarbershopID).(uint)
}

func userIDFrom(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextUserRole) == models.RoleAdmin
}

// currentBarber resolve o perfil do barbeiro logado. Escreve a resposta de
// erro e devolve nil quando não existe.
func currentBarber(c *gin.Context, catalog booking.CatalogRepository) *models.Barber {
	barber, err := catalog.GetBarberByUserID(c.Request.Context(), userIDFrom(c))
	if err != nil {
		httperr.Forbidden(c, "barber_profile_required", "Usuário sem perfil de barbeiro.")
		return nil
	}
	if barber.BarbershopID != barbershopIDFrom(c) {
		httperr.Forbidden(c, "barber_profile_required", "Usuário sem perfil de barbeiro.")
		return nil
	}
	return barber
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
