package availability

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListFreeSlots struct {
	store store.Store
}

func NewListFreeSlots(s store.Store) *ListFreeSlots {
	return &ListFreeSlots{store: s}
}

// Execute gera os horários livres do barbeiro no dia, em passos da duração
// do serviço, dentro do expediente e fora do almoço.
func (uc *ListFreeSlots) Execute(
	ctx context.Context,
	in domain.SlotsInput,
) ([]domain.TimeSlot, error) {

	shop, err := uc.store.Catalog().GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	service, err := uc.store.Catalog().GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	date := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)

	// ausência aprovada bloqueia o dia inteiro
	absences, err := uc.store.Absences().ListApprovedCovering(
		ctx,
		[]uint{in.BarberID},
		timezone.DateOf(date),
	)
	if err != nil {
		return nil, err
	}
	if len(absences) > 0 {
		return []domain.TimeSlot{}, nil
	}

	wh, err := uc.store.Catalog().GetWorkingHours(ctx, in.BarberID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}
	if wh == nil || !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	dayStart, ok1 := domain.ClockOn(date, wh.StartTime)
	dayEnd, ok2 := domain.ClockOn(date, wh.EndTime)
	if !ok1 || !ok2 {
		return []domain.TimeSlot{}, nil
	}

	lunchStart, lunchEnd, hasLunch := domain.LunchBreak(wh, date)

	bookings, err := uc.store.Bookings().ListActiveForBarber(ctx, in.BarberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}
	earliest := timezone.NowIn(shop.Timezone).Add(time.Duration(minAdvance) * time.Minute)

	slotDuration := time.Duration(service.DurationMin) * time.Minute
	slots := []domain.TimeSlot{}

	if slotDuration <= 0 {
		return slots, nil
	}

	bIdx := 0

	for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(slotDuration) {

		slotStart := cur
		slotEnd := cur.Add(slotDuration)

		if slotStart.Before(earliest) {
			continue
		}

		// almoço
		if hasLunch && domain.Overlaps(slotStart, slotEnd, lunchStart, lunchEnd) {
			continue
		}

		// avança agendamentos já encerrados
		for bIdx < len(bookings) && !bookings[bIdx].EndTime.After(slotStart) {
			bIdx++
		}

		conflict := false
		for i := bIdx; i < len(bookings) && bookings[i].StartTime.Before(slotEnd); i++ {
			if domain.Overlaps(slotStart, slotEnd, bookings[i].StartTime, bookings[i].EndTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, domain.TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots, nil
}
