package absence

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Repository interface {
	GetAbsence(ctx context.Context, id uint) (*models.Absence, error)

	CreateAbsence(ctx context.Context, a *models.Absence) error

	// pendentes ou aprovadas do barbeiro que cruzam [start, end]
	FindOverlapping(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Absence, error)

	// aprovadas que cobrem o dia, para qualquer um dos barbeiros
	ListApprovedCovering(
		ctx context.Context,
		barberIDs []uint,
		day time.Time,
	) ([]models.Absence, error)

	ListByBarber(ctx context.Context, barberID uint) ([]models.Absence, error)

	ListByBarbershop(ctx context.Context, barbershopID uint, state string) ([]models.Absence, error)

	// Decide faz pending -> to de forma condicional. Devolve false se o
	// registro não estava mais pendente.
	Decide(
		ctx context.Context,
		id uint,
		to ApprovalState,
		approverID uint,
		at time.Time,
	) (bool, error)

	SaveResolutions(ctx context.Context, id uint, records []models.ResolutionRecord) error
}
