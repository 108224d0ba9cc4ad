package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/availability"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	BarbershopID uint

	// 0 = escolher automaticamente o melhor avaliado disponível
	BarberID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date string
	Time string
	Note string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	store store.Store
	log   *zap.Logger
	audit *audit.Dispatcher
}

func NewCreateBooking(
	s store.Store,
	log *zap.Logger,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		store: s,
		log:   log,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	var created *models.Booking

	err := uc.store.Transaction(ctx, func(tx store.Store) error {

		// --------------------------------------------------
		// 1️⃣ Barbearia
		// --------------------------------------------------
		shop, err := tx.Catalog().GetBarbershopByID(ctx, in.BarbershopID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 2️⃣ Data / hora no timezone da barbearia
		// --------------------------------------------------
		start, err := time.ParseInLocation(
			"2006-01-02 15:04",
			in.Date+" "+in.Time,
			timezone.Location(shop.Timezone),
		)
		if err != nil {
			return httperr.ErrBusiness("invalid_date_or_time")
		}

		// --------------------------------------------------
		// 3️⃣ Antecedência mínima
		// --------------------------------------------------
		minAdvance := shop.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = 120
		}

		now := timezone.NowIn(shop.Timezone)
		if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
			return httperr.ErrBusiness("too_soon")
		}

		// --------------------------------------------------
		// 4️⃣ Serviço
		// --------------------------------------------------
		service, err := tx.Catalog().GetService(ctx, in.BarbershopID, in.ServiceID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return httperr.ErrBusiness("service_not_found")
			}
			return err
		}
		if !service.Active {
			return httperr.ErrBusiness("service_not_found")
		}

		end := start.Add(time.Duration(service.DurationMin) * time.Minute)

		// --------------------------------------------------
		// 5️⃣ Barbeiro (escolhido ou automático)
		// --------------------------------------------------
		barberID := in.BarberID
		if barberID == 0 {
			barberID, err = pickBarber(ctx, tx, shop, service, start, end)
		} else {
			err = checkChosenBarber(ctx, tx, shop, barberID, start, end)
		}
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 6️⃣ Cliente (get or create)
		// --------------------------------------------------
		client, err := tx.Catalog().GetOrCreateClient(
			ctx,
			in.BarbershopID,
			in.ClientName,
			in.ClientPhone,
			in.ClientEmail,
		)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 7️⃣ Criação (status centralizado)
		// --------------------------------------------------
		b := &models.Booking{
			BarbershopID: in.BarbershopID,
			BarberID:     barberID,
			ClientID:     client.ID,
			ServiceID:    service.ID,
			StartTime:    start,
			EndTime:      end,
			DurationMin:  service.DurationMin,
			Status:       string(domain.InitialStatus()),
			Note:         in.Note,
		}

		if err := tx.Bookings().CreateBooking(ctx, b); err != nil {
			return err
		}

		b.Client = *client
		b.Service = *service
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8️⃣ Auditoria
	// --------------------------------------------------
	uc.log.Info("booking created",
		zap.Uint("booking_id", created.ID),
		zap.Uint("barber_id", created.BarberID),
		zap.Bool("auto_assigned", in.BarberID == 0),
	)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		Action:       "booking_created",
		Entity:       "booking",
		EntityID:     &created.ID,
		Metadata: map[string]any{
			"barber_id":     created.BarberID,
			"auto_assigned": in.BarberID == 0,
		},
	})

	return created, nil
}

// pickBarber escolhe o primeiro disponível (maior nota) que trabalha no
// horário pedido.
func pickBarber(
	ctx context.Context,
	tx store.Store,
	shop *models.Barbershop,
	service *models.Service,
	start time.Time,
	end time.Time,
) (uint, error) {

	barbers, err := availability.NewFindAvailableBarbers(tx).Execute(ctx, availability.Query{
		BarbershopID: shop.ID,
		Start:        start,
		ServiceID:    service.ID,
		DurationMin:  service.DurationMin,
	})
	if err != nil {
		return 0, err
	}

	for _, b := range barbers {
		ok, err := worksAt(ctx, tx, b.ID, start, end)
		if err != nil {
			return 0, err
		}
		if ok {
			return b.ID, nil
		}
	}

	return 0, httperr.ErrBusiness("no_barber_available")
}

func checkChosenBarber(
	ctx context.Context,
	tx store.Store,
	shop *models.Barbershop,
	barberID uint,
	start time.Time,
	end time.Time,
) error {

	reason, err := availability.CheckBarber(ctx, tx, shop, barberID, start, end, 0)
	if errors.Is(err, errs.ErrNotFound) {
		return httperr.ErrBusiness("barber_not_found")
	}
	if err != nil {
		return err
	}

	switch reason {
	case availability.Available:
	case availability.ReasonBusy:
		return httperr.ErrBusiness("time_conflict")
	case availability.ReasonOtherShop:
		return httperr.ErrBusiness("barber_not_found")
	default:
		return httperr.ErrBusiness(reason)
	}

	ok, err := worksAt(ctx, tx, barberID, start, end)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("outside_working_hours")
	}
	return nil
}

// Working hours + almoço
func worksAt(
	ctx context.Context,
	tx store.Store,
	barberID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	wh, err := tx.Catalog().GetWorkingHours(ctx, barberID, int(start.Weekday()))
	if err != nil {
		return false, err
	}
	return domain.WithinWorkingHours(wh, start, end), nil
}
