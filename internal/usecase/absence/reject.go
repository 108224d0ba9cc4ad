package absence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
)

type RejectAbsence struct {
	store    store.Store
	log      *zap.Logger
	audit    *audit.Dispatcher
	notifier notify.Notifier
}

func NewRejectAbsence(
	s store.Store,
	log *zap.Logger,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
) *RejectAbsence {
	return &RejectAbsence{
		store:    s,
		log:      log,
		audit:    audit,
		notifier: notifier,
	}
}

// Execute marca o pedido como rejeitado. Nenhum agendamento é alterado.
func (uc *RejectAbsence) Execute(
	ctx context.Context,
	absenceID uint,
	approverID uint,
) (*models.Absence, error) {

	a, err := uc.store.Absences().GetAbsence(ctx, absenceID)
	if err != nil {
		return nil, err
	}

	if !domain.ApprovalState(a.ApprovalState).CanDecide() {
		return nil, &errs.StateError{AbsenceID: a.ID, Current: a.ApprovalState}
	}

	now := time.Now().UTC()

	ok, err := uc.store.Absences().Decide(ctx, a.ID, domain.StateRejected, approverID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// outro admin decidiu entre a leitura e a escrita
		current, err := uc.store.Absences().GetAbsence(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		return nil, &errs.StateError{AbsenceID: a.ID, Current: current.ApprovalState}
	}

	rejected, err := uc.store.Absences().GetAbsence(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	uc.log.Info("absence rejected",
		zap.Uint("absence_id", rejected.ID),
		zap.Uint("approver_id", approverID),
	)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: rejected.BarbershopID,
		UserID:       &approverID,
		Action:       "absence_rejected",
		Entity:       "absence",
		EntityID:     &rejected.ID,
	})

	ev := notify.NewEvent(notify.EventAbsenceRejected, rejected.BarbershopID)
	ev.AbsenceID = rejected.ID
	ev.BarberID = rejected.BarberID
	notify.Publish(ctx, uc.notifier, uc.log, ev)

	return rejected, nil
}
