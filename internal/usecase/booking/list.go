package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListBookings struct {
	store store.Store
}

func NewListBookings(s store.Store) *ListBookings {
	return &ListBookings{store: s}
}

// ByDate lista o dia civil de date no fuso da barbearia.
func (uc *ListBookings) ByDate(
	ctx context.Context,
	barberID uint,
	barbershopID uint,
	date time.Time,
) ([]dto.BookingListDTO, error) {

	shop, err := uc.store.Catalog().GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	start, end := timezone.DayBounds(date, timezone.Location(shop.Timezone))
	return uc.period(ctx, barberID, start, end)
}

func (uc *ListBookings) ByMonth(
	ctx context.Context,
	barberID uint,
	barbershopID uint,
	year int,
	month int,
) ([]dto.BookingListDTO, error) {

	shop, err := uc.store.Catalog().GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	return uc.period(ctx, barberID, start, end)
}

func (uc *ListBookings) period(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]dto.BookingListDTO, error) {

	bookings, err := uc.store.Bookings().ListForPeriod(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTO(bookings), nil
}

func toListDTO(bookings []models.Booking) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:          b.ID,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Status:      b.Status,
			ClientName:  b.Client.Name,
			ServiceName: b.Service.Name,
			Version:     b.Version,
		})
	}
	return out
}
