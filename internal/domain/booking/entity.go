package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Transition(b *models.Booking, to Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	switch to {
	case StatusCancelled:
		b.CancelledAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	}
	return nil
}

func Cancel(b *models.Booking, reason, note string, now time.Time) error {
	if err := Transition(b, StatusCancelled, now); err != nil {
		return err
	}

	b.CancelReason = reason
	b.CancelNote = note
	return nil
}

// Reassign troca o barbeiro sem mexer no horário nem no status.
func Reassign(b *models.Booking, newBarberID uint) error {
	if !Status(b.Status).IsActive() {
		return httperr.ErrBusiness("booking_not_active")
	}

	b.BarberID = newBarberID
	return nil
}

// Overlaps: [aStart, aEnd) ∩ [bStart, bEnd) ≠ ∅
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
