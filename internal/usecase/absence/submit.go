package absence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type SubmitAbsenceInput struct {
	BarberID uint

	// dias civis; a hora é ignorada
	StartDate time.Time
	EndDate   time.Time

	Reason      string
	Description string
}

// ======================================================
// USE CASE
// ======================================================

type SubmitAbsence struct {
	store store.Store
	log   *zap.Logger
	audit *audit.Dispatcher
}

func NewSubmitAbsence(
	s store.Store,
	log *zap.Logger,
	audit *audit.Dispatcher,
) *SubmitAbsence {
	return &SubmitAbsence{
		store: s,
		log:   log,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SubmitAbsence) Execute(
	ctx context.Context,
	in SubmitAbsenceInput,
) (*models.Absence, error) {

	// --------------------------------------------------
	// 1️⃣ Entrada
	// --------------------------------------------------
	if strings.TrimSpace(in.Reason) == "" {
		return nil, errs.Validation("missing_reason", "Informe o motivo da ausência.")
	}
	reason, ok := domain.ParseReason(in.Reason)
	if !ok {
		return nil, errs.Validation("invalid_reason", "Motivo de ausência inválido.")
	}

	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, errs.Validation("missing_dates", "Datas de início e fim são obrigatórias.")
	}

	period := domain.Period{
		Start: timezone.DateOf(in.StartDate),
		End:   timezone.DateOf(in.EndDate),
	}

	var created *models.Absence

	err := uc.store.Transaction(ctx, func(tx store.Store) error {

		// --------------------------------------------------
		// 2️⃣ Barbeiro e "hoje" no fuso da barbearia
		// --------------------------------------------------
		barber, err := tx.Catalog().GetBarber(ctx, in.BarberID)
		if err != nil {
			return err
		}

		shop, err := tx.Catalog().GetBarbershopByID(ctx, barber.BarbershopID)
		if err != nil {
			return err
		}

		today := timezone.DateOf(timezone.NowIn(shop.Timezone))
		if err := period.Validate(today); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Sobreposição com pedidos não rejeitados
		// --------------------------------------------------
		existing, err := tx.Absences().FindOverlapping(ctx, barber.ID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("find overlapping absences: %w", err)
		}
		if len(existing) > 0 {
			return &errs.ConflictError{ExistingID: existing[0].ID}
		}

		// --------------------------------------------------
		// 4️⃣ Snapshot dos agendamentos afetados
		// --------------------------------------------------
		snapshot, err := NewConflictDetector(tx).SnapshotAtSubmission(ctx, barber.ID, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("snapshot affected bookings: %w", err)
		}

		a := &models.Absence{
			BarbershopID:     barber.BarbershopID,
			BarberID:         barber.ID,
			StartDate:        datatypes.Date(period.Start),
			EndDate:          datatypes.Date(period.End),
			Reason:           string(reason),
			Description:      strings.TrimSpace(in.Description),
			ApprovalState:    string(domain.StatePending),
			AffectedBookings: datatypes.JSONSlice[models.AffectedBooking](snapshot),
			Resolutions:      datatypes.JSONSlice[models.ResolutionRecord]{},
		}

		if err := tx.Absences().CreateAbsence(ctx, a); err != nil {
			return fmt.Errorf("create absence: %w", err)
		}

		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("absence submitted",
		zap.Uint("absence_id", created.ID),
		zap.Uint("barber_id", created.BarberID),
		zap.Int("affected_bookings", len(created.AffectedBookings)),
	)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: created.BarbershopID,
		Action:       "absence_submitted",
		Entity:       "absence",
		EntityID:     &created.ID,
		Metadata: map[string]any{
			"barber_id":         created.BarberID,
			"start_date":        period.Start.Format(timezone.DateLayout),
			"end_date":          period.End.Format(timezone.DateLayout),
			"affected_bookings": len(created.AffectedBookings),
		},
	})

	return created, nil
}
