package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type UpdateStatusInput struct {
	BarbershopID uint
	BookingID    uint
	Status       string

	// 0 = admin (qualquer barbeiro da barbearia)
	BarberID uint
	UserID   uint

	CancelReason string
	CancelNote   string
}

type UpdateStatus struct {
	store store.Store
	log   *zap.Logger
	audit *audit.Dispatcher
}

func NewUpdateStatus(
	s store.Store,
	log *zap.Logger,
	audit *audit.Dispatcher,
) *UpdateStatus {
	return &UpdateStatus{
		store: s,
		log:   log,
		audit: audit,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	shop, err := uc.store.Catalog().GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	b, err := uc.store.Bookings().GetBooking(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	if b.BarbershopID != in.BarbershopID || (in.BarberID != 0 && b.BarberID != in.BarberID) {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	from := b.Status
	version := b.Version
	now := timezone.NowIn(shop.Timezone)

	if to == domain.StatusCancelled {
		err = domain.Cancel(b, in.CancelReason, in.CancelNote, now)
	} else {
		err = domain.Transition(b, to, now)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.store.Bookings().UpdateBooking(ctx, b, version); err != nil {
		if errors.Is(err, domain.ErrStaleVersion) {
			return nil, httperr.ErrBusiness("booking_modified")
		}
		return nil, err
	}

	uc.log.Info("booking status updated",
		zap.Uint("booking_id", b.ID),
		zap.String("from", from),
		zap.String("to", b.Status),
	)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       &in.UserID,
		Action:       "booking_" + b.Status,
		Entity:       "booking",
		EntityID:     &b.ID,
		Metadata:     map[string]any{"from": from, "to": b.Status},
	})

	return b, nil
}
