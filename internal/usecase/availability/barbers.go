package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type Query struct {
	BarbershopID    uint
	Start           time.Time
	ServiceID       uint
	ExcludeBarberID uint

	// sobrescreve a duração do serviço (agendamentos com duração própria)
	DurationMin int
}

type FindAvailableBarbers struct {
	store store.Store
}

func NewFindAvailableBarbers(s store.Store) *FindAvailableBarbers {
	return &FindAvailableBarbers{store: s}
}

// Execute lista barbeiros ativos livres em [Start, Start+duração), sem
// ausência aprovada no dia. Ordem: nota média decrescente.
func (uc *FindAvailableBarbers) Execute(
	ctx context.Context,
	q Query,
) ([]models.Barber, error) {
	return findAvailable(ctx, uc.store, q)
}

func findAvailable(
	ctx context.Context,
	s store.Store,
	q Query,
) ([]models.Barber, error) {

	shop, err := s.Catalog().GetBarbershopByID(ctx, q.BarbershopID)
	if err != nil {
		return nil, err
	}

	duration := q.DurationMin
	if duration <= 0 {
		service, err := s.Catalog().GetService(ctx, q.BarbershopID, q.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = service.DurationMin
	}

	start := q.Start
	end := start.Add(time.Duration(duration) * time.Minute)

	barbers, err := s.Catalog().ListActiveBarbers(ctx, q.BarbershopID)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Barber, 0, len(barbers))
	ids := make([]uint, 0, len(barbers))
	for _, b := range barbers {
		if b.ID == q.ExcludeBarberID {
			continue
		}
		candidates = append(candidates, b)
		ids = append(ids, b.ID)
	}
	if len(candidates) == 0 {
		return []models.Barber{}, nil
	}

	blocked := make(map[uint]bool)

	day := timezone.DateOf(start.In(timezone.Location(shop.Timezone)))
	absences, err := s.Absences().ListApprovedCovering(ctx, ids, day)
	if err != nil {
		return nil, err
	}
	for _, a := range absences {
		blocked[a.BarberID] = true
	}

	busy, err := s.Bookings().ListOverlapping(ctx, ids, start, end, 0)
	if err != nil {
		return nil, err
	}
	for _, b := range busy {
		blocked[b.BarberID] = true
	}

	out := make([]models.Barber, 0, len(candidates))
	for _, b := range candidates {
		if !blocked[b.ID] {
			out = append(out, b)
		}
	}

	return out, nil
}
