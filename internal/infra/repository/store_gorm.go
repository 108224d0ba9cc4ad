package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/store"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Bookings() booking.Repository {
	return NewBookingGormRepository(s.db)
}

func (s *GormStore) Catalog() booking.CatalogRepository {
	return NewCatalogGormRepository(s.db)
}

func (s *GormStore) Absences() absence.Repository {
	return NewAbsenceGormRepository(s.db)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// Compile-time check
var _ store.Store = (*GormStore)(nil)
