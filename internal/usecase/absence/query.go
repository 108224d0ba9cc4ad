package absence

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/availability"
)

// ======================================================
// LISTAGENS
// ======================================================

type ListAbsences struct {
	store store.Store
}

func NewListAbsences(s store.Store) *ListAbsences {
	return &ListAbsences{store: s}
}

func (uc *ListAbsences) ByBarber(
	ctx context.Context,
	barberID uint,
) ([]models.Absence, error) {
	return uc.store.Absences().ListByBarber(ctx, barberID)
}

// ByBarbershop aceita state vazio (todos) ou pending/approved/rejected.
func (uc *ListAbsences) ByBarbershop(
	ctx context.Context,
	barbershopID uint,
	state string,
) ([]models.Absence, error) {

	if state != "" {
		if _, ok := domain.ParseState(state); !ok {
			return nil, errs.Validation("invalid_state_filter", "Filtro de estado inválido.")
		}
	}
	return uc.store.Absences().ListByBarbershop(ctx, barbershopID, state)
}

// ======================================================
// DETALHE COM CANDIDATOS
// ======================================================

type GetAbsenceDetail struct {
	store store.Store
}

func NewGetAbsenceDetail(s store.Store) *GetAbsenceDetail {
	return &GetAbsenceDetail{store: s}
}

// Summary carrega o pedido garantindo que pertence à barbearia.
func (uc *GetAbsenceDetail) Summary(
	ctx context.Context,
	barbershopID uint,
	absenceID uint,
) (*models.Absence, error) {

	a, err := uc.store.Absences().GetAbsence(ctx, absenceID)
	if err != nil {
		return nil, err
	}
	if a.BarbershopID != barbershopID {
		return nil, errs.NotFound("absence", absenceID)
	}
	return a, nil
}

// Execute devolve o pedido, o snapshot gravado e, se ainda pendente, o
// conjunto atual de afetados com os barbeiros disponíveis para cada um.
func (uc *GetAbsenceDetail) Execute(
	ctx context.Context,
	barbershopID uint,
	absenceID uint,
) (*dto.AbsenceDetailDTO, error) {

	a, err := uc.Summary(ctx, barbershopID, absenceID)
	if err != nil {
		return nil, err
	}

	out := &dto.AbsenceDetailDTO{
		AbsenceDTO:   dto.NewAbsenceDTO(a),
		LiveAffected: []dto.LiveAffectedBookingDTO{},
	}

	if !domain.ApprovalState(a.ApprovalState).CanDecide() {
		return out, nil
	}

	live, err := NewConflictDetector(uc.store).LiveAffectedSet(ctx, a)
	if err != nil {
		return nil, err
	}

	finder := availability.NewFindAvailableBarbers(uc.store)

	for _, b := range live {
		barbers, err := finder.Execute(ctx, availability.Query{
			BarbershopID:    a.BarbershopID,
			Start:           b.StartTime,
			ServiceID:       b.ServiceID,
			ExcludeBarberID: a.BarberID,
			DurationMin:     b.DurationMin,
		})
		if err != nil {
			return nil, err
		}

		candidates := make([]dto.BarberCandidateDTO, 0, len(barbers))
		for _, c := range barbers {
			candidates = append(candidates, dto.NewBarberCandidate(c))
		}

		out.LiveAffected = append(out.LiveAffected, dto.LiveAffectedBookingDTO{
			BookingID:    b.ID,
			CustomerName: b.Client.Name,
			ServiceName:  b.Service.Name,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			DurationMin:  b.DurationMin,
			Status:       b.Status,
			Candidates:   candidates,
		})
	}

	return out, nil
}
