package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Booking (read)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		First(&b, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("booking", id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListActiveForBarber(
	ctx context.Context,
	barberID uint,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			barberID, domain.ActiveStatuses, from.UTC(), to.UTC(),
		).
		Order("start_time ASC, id ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormRepository) ListOverlapping(
	ctx context.Context,
	barberIDs []uint,
	start time.Time,
	end time.Time,
	excludeBookingID uint,
) ([]models.Booking, error) {

	if len(barberIDs) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).
		Where(
			"barber_id IN ? AND status IN ? AND start_time < ? AND end_time > ?",
			barberIDs, domain.ActiveStatuses, end.UTC(), start.UTC(),
		)

	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormRepository) ListForPeriod(
	ctx context.Context,
	barberID uint,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID,
			from.UTC(),
			to.UTC(),
		).
		Order("start_time ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// --------------------------------------------------
// Booking (write)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
	if b.Version == 0 {
		b.Version = 1
	}

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("time_conflict")
	}
	return err
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
	expectedVersion int,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND version = ?", b.ID, expectedVersion).
		Updates(map[string]any{
			"barber_id":     b.BarberID,
			"status":        b.Status,
			"cancel_reason": b.CancelReason,
			"cancel_note":   b.CancelNote,
			"cancelled_at":  b.CancelledAt,
			"completed_at":  b.CompletedAt,
			"version":       expectedVersion + 1,
			"updated_at":    time.Now().UTC(),
		})

	if res.Error != nil {
		if httperr.IsExclusionConflict(res.Error) {
			return domain.ErrSlotTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleVersion
	}

	b.Version = expectedVersion + 1
	return nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
