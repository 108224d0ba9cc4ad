package absence

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ConflictDetector encontra os agendamentos ativos do barbeiro dentro de
// um período de ausência. Somente leitura.
type ConflictDetector struct {
	store store.Store
}

func NewConflictDetector(s store.Store) *ConflictDetector {
	return &ConflictDetector{store: s}
}

// FindAffectedBookings devolve os agendamentos pending/confirmed do barbeiro
// com início em [startDate 00:00, endDate+1 00:00) no fuso da barbearia.
func (d *ConflictDetector) FindAffectedBookings(
	ctx context.Context,
	barberID uint,
	startDate time.Time,
	endDate time.Time,
) ([]models.Booking, error) {

	barber, err := d.store.Catalog().GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}

	shop, err := d.store.Catalog().GetBarbershopByID(ctx, barber.BarbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	from, _ := timezone.DayBounds(startDate, loc)
	_, to := timezone.DayBounds(endDate, loc)

	return d.store.Bookings().ListActiveForBarber(ctx, barberID, from, to)
}

// SnapshotAtSubmission é a cópia gravada no pedido. Não é reconsultada
// depois: serve só para exibição histórica.
func (d *ConflictDetector) SnapshotAtSubmission(
	ctx context.Context,
	barberID uint,
	startDate time.Time,
	endDate time.Time,
) ([]models.AffectedBooking, error) {

	bookings, err := d.FindAffectedBookings(ctx, barberID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	out := make([]models.AffectedBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, models.AffectedBooking{
			BookingID:    b.ID,
			CustomerName: b.Client.Name,
			ServiceName:  b.Service.Name,
			OriginalDate: b.StartTime,
			DurationMin:  b.DurationMin,
		})
	}
	return out, nil
}

// LiveAffectedSet recalcula o conjunto no momento da aprovação. É a única
// fonte válida para exigir as resoluções.
func (d *ConflictDetector) LiveAffectedSet(
	ctx context.Context,
	a *models.Absence,
) ([]models.Booking, error) {
	return d.FindAffectedBookings(
		ctx,
		a.BarberID,
		time.Time(a.StartDate),
		time.Time(a.EndDate),
	)
}
