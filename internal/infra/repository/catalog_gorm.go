package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *CatalogGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, notFoundOr(err, "barbershop", id)
	}
	return &shop, nil
}

func (r *CatalogGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, notFoundOr(err, "barbershop", 0)
	}
	return &shop, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *CatalogGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&service).Error; err != nil {
		return nil, notFoundOr(err, "service", serviceID)
	}
	return &service, nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *CatalogGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).First(&barber, id).Error; err != nil {
		return nil, notFoundOr(err, "barber", id)
	}
	return &barber, nil
}

func (r *CatalogGormRepository) GetBarberByUserID(
	ctx context.Context,
	userID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&barber).Error; err != nil {
		return nil, notFoundOr(err, "barber", 0)
	}
	return &barber, nil
}

func (r *CatalogGormRepository) ListActiveBarbers(
	ctx context.Context,
	barbershopID uint,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND active = ?", barbershopID, true).
		Order("average_rating DESC, id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *CatalogGormRepository) GetOrCreateClient(
	ctx context.Context,
	barbershopID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

// nil, nil quando o barbeiro não tem expediente nesse dia
func (r *CatalogGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &wh, nil
}

func notFoundOr(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(entity, id)
	}
	return err
}

// Compile-time check
var _ domain.CatalogRepository = (*CatalogGormRepository)(nil)
