package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Motivos de indisponibilidade devolvidos por CheckBarber.
const (
	ReasonInactive  = "barber_inactive"
	ReasonOtherShop = "barber_other_barbershop"
	ReasonAbsent    = "barber_absent"
	ReasonBusy      = "barber_busy"

	Available = ""
)

// CheckBarber verifica se o barbeiro pode atender [start, end).
// Devolve "" quando está livre, ou o motivo da indisponibilidade.
// Roda com o Store recebido, então dentro de uma transação enxerga as
// escritas já feitas nela.
func CheckBarber(
	ctx context.Context,
	s store.Store,
	shop *models.Barbershop,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeBookingID uint,
) (string, error) {

	barber, err := s.Catalog().GetBarber(ctx, barberID)
	if err != nil {
		return "", err
	}

	if !barber.Active {
		return ReasonInactive, nil
	}
	if barber.BarbershopID != shop.ID {
		return ReasonOtherShop, nil
	}

	day := timezone.DateOf(start.In(timezone.Location(shop.Timezone)))
	absences, err := s.Absences().ListApprovedCovering(ctx, []uint{barberID}, day)
	if err != nil {
		return "", err
	}
	if len(absences) > 0 {
		return ReasonAbsent, nil
	}

	busy, err := s.Bookings().ListOverlapping(ctx, []uint{barberID}, start, end, excludeBookingID)
	if err != nil {
		return "", err
	}
	if len(busy) > 0 {
		return ReasonBusy, nil
	}

	return Available, nil
}
