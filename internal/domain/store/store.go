package store

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/domain/absence"
	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

// Store agrupa os repositórios e permite rodá-los numa única transação.
type Store interface {
	Bookings() booking.Repository
	Catalog() booking.CatalogRepository
	Absences() absence.Repository

	// fn recebe um Store ligado à transação; erro => rollback.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
