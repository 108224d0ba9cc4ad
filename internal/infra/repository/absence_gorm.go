package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AbsenceGormRepository struct {
	db *gorm.DB
}

func NewAbsenceGormRepository(db *gorm.DB) *AbsenceGormRepository {
	return &AbsenceGormRepository{db: db}
}

func (r *AbsenceGormRepository) GetAbsence(
	ctx context.Context,
	id uint,
) (*models.Absence, error) {

	var a models.Absence
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFoundOr(err, "absence", id)
	}
	return &a, nil
}

func (r *AbsenceGormRepository) CreateAbsence(
	ctx context.Context,
	a *models.Absence,
) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AbsenceGormRepository) FindOverlapping(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Absence, error) {

	var absences []models.Absence
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND approval_state <> ? AND start_date <= ? AND end_date >= ?",
			barberID, domain.StateRejected, end, start,
		).
		Order("start_date ASC").
		Find(&absences).Error; err != nil {
		return nil, err
	}
	return absences, nil
}

func (r *AbsenceGormRepository) ListApprovedCovering(
	ctx context.Context,
	barberIDs []uint,
	day time.Time,
) ([]models.Absence, error) {

	if len(barberIDs) == 0 {
		return nil, nil
	}

	var absences []models.Absence
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id IN ? AND approval_state = ? AND start_date <= ? AND end_date >= ?",
			barberIDs, domain.StateApproved, day, day,
		).
		Find(&absences).Error; err != nil {
		return nil, err
	}
	return absences, nil
}

func (r *AbsenceGormRepository) ListByBarber(
	ctx context.Context,
	barberID uint,
) ([]models.Absence, error) {

	var absences []models.Absence
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("start_date DESC").
		Find(&absences).Error; err != nil {
		return nil, err
	}
	return absences, nil
}

func (r *AbsenceGormRepository) ListByBarbershop(
	ctx context.Context,
	barbershopID uint,
	state string,
) ([]models.Absence, error) {

	q := r.db.WithContext(ctx).Where("barbershop_id = ?", barbershopID)
	if state != "" {
		q = q.Where("approval_state = ?", state)
	}

	var absences []models.Absence
	if err := q.Order("created_at ASC").Find(&absences).Error; err != nil {
		return nil, err
	}
	return absences, nil
}

// UPDATE ... WHERE approval_state = 'pending': dois admins concorrentes
// não conseguem decidir o mesmo pedido.
func (r *AbsenceGormRepository) Decide(
	ctx context.Context,
	id uint,
	to domain.ApprovalState,
	approverID uint,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Absence{}).
		Where("id = ? AND approval_state = ?", id, domain.StatePending).
		Updates(map[string]any{
			"approval_state": string(to),
			"approved_by":    approverID,
			"decided_at":     at.UTC(),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AbsenceGormRepository) SaveResolutions(
	ctx context.Context,
	id uint,
	records []models.ResolutionRecord,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Absence{}).
		Where("id = ?", id).
		Update("resolutions", datatypes.JSONSlice[models.ResolutionRecord](records)).Error
}

// Compile-time check
var _ domain.Repository = (*AbsenceGormRepository)(nil)
