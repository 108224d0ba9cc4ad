package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrStaleVersion: o agendamento mudou entre a leitura e a escrita.
var ErrStaleVersion = errors.New("booking version mismatch")

type Repository interface {
	// -------- Booking (read) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// pending/confirmed com início em [from, to), ordenados por início
	ListActiveForBarber(
		ctx context.Context,
		barberID uint,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	// pending/confirmed cuja janela cruza [start, end)
	ListOverlapping(
		ctx context.Context,
		barberIDs []uint,
		start time.Time,
		end time.Time,
		excludeBookingID uint,
	) ([]models.Booking, error)

	ListForPeriod(
		ctx context.Context,
		barberID uint,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	// -------- Booking (write) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// Escrita condicionada à versão lida. ErrStaleVersion se mudou.
	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
		expectedVersion int,
	) error
}

type CatalogRepository interface {
	// -------- Barbershop --------
	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)
	GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error)

	// -------- Service --------
	GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error)

	// -------- Barber --------
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error)
	// ativos, por nota média decrescente
	ListActiveBarbers(ctx context.Context, barbershopID uint) ([]models.Barber, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Working hours --------
	GetWorkingHours(ctx context.Context, barberID uint, weekday int) (*models.WorkingHours, error)
}

// ErrSlotTaken: o banco recusou a escrita por sobreposição de horário.
var ErrSlotTaken = errors.New("barber already booked in this window")
