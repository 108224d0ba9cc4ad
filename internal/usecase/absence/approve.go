package absence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/availability"
)

type ApproveAbsence struct {
	store    store.Store
	log      *zap.Logger
	audit    *audit.Dispatcher
	notifier notify.Notifier
}

func NewApproveAbsence(
	s store.Store,
	log *zap.Logger,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
) *ApproveAbsence {
	return &ApproveAbsence{
		store:    s,
		log:      log,
		audit:    audit,
		notifier: notifier,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute aprova o pedido aplicando uma decisão por agendamento afetado.
// Tudo roda numa única transação: ou todas as escritas valem, ou nenhuma.
func (uc *ApproveAbsence) Execute(
	ctx context.Context,
	absenceID uint,
	approverID uint,
	resolutions map[uint]domain.ResolutionAction,
) (*models.Absence, error) {

	var (
		approved *models.Absence
		events   []notify.Event
		records  []models.ResolutionRecord
	)

	err := uc.store.Transaction(ctx, func(tx store.Store) error {

		// --------------------------------------------------
		// 1️⃣ Pedido pendente
		// --------------------------------------------------
		a, err := tx.Absences().GetAbsence(ctx, absenceID)
		if err != nil {
			return err
		}
		if !domain.ApprovalState(a.ApprovalState).CanDecide() {
			return &errs.StateError{AbsenceID: a.ID, Current: a.ApprovalState}
		}

		shop, err := tx.Catalog().GetBarbershopByID(ctx, a.BarbershopID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		// --------------------------------------------------
		// 2️⃣ Reserva do pedido (pending -> approved condicional)
		// --------------------------------------------------
		claimed, err := tx.Absences().Decide(ctx, a.ID, domain.StateApproved, approverID, now)
		if err != nil {
			return fmt.Errorf("claim absence: %w", err)
		}
		if !claimed {
			current := string(domain.StateApproved)
			if reloaded, err := tx.Absences().GetAbsence(ctx, a.ID); err == nil {
				current = reloaded.ApprovalState
			}
			return &errs.StateError{AbsenceID: a.ID, Current: current}
		}

		// --------------------------------------------------
		// 3️⃣ Conjunto afetado atual + completude
		// --------------------------------------------------
		live, err := NewConflictDetector(tx).LiveAffectedSet(ctx, a)
		if err != nil {
			return fmt.Errorf("live affected set: %w", err)
		}

		if err := checkCompleteness(live, resolutions); err != nil {
			return err
		}

		for _, b := range live {
			if err := resolutions[b.ID].Validate(b.ID, a.BarberID); err != nil {
				return err
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		// --------------------------------------------------
		// 4️⃣ Aplicação, em ordem de horário
		// --------------------------------------------------
		for i := range live {
			b := &live[i]
			action := resolutions[b.ID]

			switch action.Kind {
			case domain.KindReassign:
				if err := reassign(ctx, tx, shop, b, action.NewBarberID); err != nil {
					return err
				}
				ev := notify.NewEvent(notify.EventBookingReassigned, a.BarbershopID)
				ev.AbsenceID = a.ID
				ev.BookingID = b.ID
				ev.CustomerID = b.ClientID
				ev.BarberID = a.BarberID
				ev.NewBarberID = action.NewBarberID
				events = append(events, ev)

			case domain.KindReject:
				if err := cancel(ctx, tx, b, action, now); err != nil {
					return err
				}
				ev := notify.NewEvent(notify.EventBookingCancelled, a.BarbershopID)
				ev.AbsenceID = a.ID
				ev.BookingID = b.ID
				ev.CustomerID = b.ClientID
				ev.BarberID = a.BarberID
				ev.Reason = action.RejectionReason
				ev.Note = action.RejectionNote
				events = append(events, ev)
			}

			records = append(records, action.Record(b.ID, approverID, now))
		}

		// prazo do chamador: aborta antes da última escrita
		if err := ctx.Err(); err != nil {
			return err
		}

		// --------------------------------------------------
		// 5️⃣ Registro das decisões
		// --------------------------------------------------
		if records == nil {
			records = []models.ResolutionRecord{}
		}
		if err := tx.Absences().SaveResolutions(ctx, a.ID, records); err != nil {
			return fmt.Errorf("save resolutions: %w", err)
		}

		approved, err = tx.Absences().GetAbsence(ctx, a.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("absence approved",
		zap.Uint("absence_id", approved.ID),
		zap.Uint("approver_id", approverID),
		zap.Int("resolutions", len(records)),
	)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: approved.BarbershopID,
		UserID:       &approverID,
		Action:       "absence_approved",
		Entity:       "absence",
		EntityID:     &approved.ID,
		Metadata:     map[string]any{"resolutions": records},
	})

	approvedEv := notify.NewEvent(notify.EventAbsenceApproved, approved.BarbershopID)
	approvedEv.AbsenceID = approved.ID
	approvedEv.BarberID = approved.BarberID
	events = append(events, approvedEv)

	notify.Publish(ctx, uc.notifier, uc.log, events...)

	return approved, nil
}

// ======================================================
// HELPERS
// ======================================================

// checkCompleteness exige exatamente uma ação por agendamento do conjunto
// atual. Ações para agendamentos fora dele também são recusadas.
func checkCompleteness(
	live []models.Booking,
	resolutions map[uint]domain.ResolutionAction,
) error {

	liveIDs := make(map[uint]bool, len(live))
	var missing []uint

	for _, b := range live {
		liveIDs[b.ID] = true
		if _, ok := resolutions[b.ID]; !ok {
			missing = append(missing, b.ID)
		}
	}

	if len(missing) > 0 {
		return errs.IncompleteResolution(missing)
	}

	var unexpected []uint
	for id := range resolutions {
		if !liveIDs[id] {
			unexpected = append(unexpected, id)
		}
	}
	if len(unexpected) > 0 {
		sort.Slice(unexpected, func(i, j int) bool { return unexpected[i] < unexpected[j] })
		return errs.Validation(
			"unexpected_resolution",
			fmt.Sprintf("Agendamentos %v não são afetados por esta ausência.", unexpected),
		)
	}

	return nil
}

func reassign(
	ctx context.Context,
	tx store.Store,
	shop *models.Barbershop,
	b *models.Booking,
	newBarberID uint,
) error {

	reason, err := availability.CheckBarber(ctx, tx, shop, newBarberID, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return err
	}
	if reason != availability.Available {
		return &errs.AssignmentConflictError{
			BookingID: b.ID,
			BarberID:  newBarberID,
			Reason:    reason,
		}
	}

	version := b.Version
	if err := booking.Reassign(b, newBarberID); err != nil {
		return err
	}

	return versionedWrite(ctx, tx, b, version, newBarberID)
}

func cancel(
	ctx context.Context,
	tx store.Store,
	b *models.Booking,
	action domain.ResolutionAction,
	now time.Time,
) error {

	version := b.Version
	if err := booking.Cancel(b, action.RejectionReason, action.RejectionNote, now); err != nil {
		return err
	}

	return versionedWrite(ctx, tx, b, version, b.BarberID)
}

func versionedWrite(
	ctx context.Context,
	tx store.Store,
	b *models.Booking,
	version int,
	barberID uint,
) error {

	err := tx.Bookings().UpdateBooking(ctx, b, version)
	switch {
	case errors.Is(err, booking.ErrStaleVersion):
		return &errs.AssignmentConflictError{BookingID: b.ID, BarberID: barberID, Reason: "booking_modified"}
	case errors.Is(err, booking.ErrSlotTaken):
		return &errs.AssignmentConflictError{BookingID: b.ID, BarberID: barberID, Reason: "slot_taken"}
	case err != nil:
		return fmt.Errorf("update booking %d: %w", b.ID, err)
	}
	return nil
}
