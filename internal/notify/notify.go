// Package notify publica o resultado das decisões (reatribuição,
// cancelamento, aprovação) para quem entrega as mensagens.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventAbsenceApproved   = "absence_approved"
	EventAbsenceRejected   = "absence_rejected"
	EventBookingReassigned = "booking_reassigned"
	EventBookingCancelled  = "booking_cancelled"
)

type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	OccurredAt   time.Time `json:"occurred_at"`
	BarbershopID uint      `json:"barbershop_id"`
	AbsenceID    uint      `json:"absence_id,omitempty"`
	BookingID    uint      `json:"booking_id,omitempty"`
	CustomerID   uint      `json:"customer_id,omitempty"`
	BarberID     uint      `json:"barber_id,omitempty"`
	NewBarberID  uint      `json:"new_barber_id,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	Note         string    `json:"note,omitempty"`
}

func NewEvent(eventType string, barbershopID uint) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		OccurredAt:   time.Now().UTC(),
		BarbershopID: barbershopID,
	}
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Publish envia os eventos depois do commit. Falhas só são logadas.
func Publish(ctx context.Context, n Notifier, log *zap.Logger, events ...Event) {
	if n == nil {
		return
	}
	for _, ev := range events {
		if err := n.Notify(ctx, ev); err != nil {
			log.Error("failed to publish notification",
				zap.String("type", ev.Type),
				zap.String("event_id", ev.ID),
				zap.Error(err),
			)
		}
	}
}

// LogNotifier é usado quando não há Redis configurado.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, ev Event) error {
	n.log.Info("notification",
		zap.String("type", ev.Type),
		zap.String("event_id", ev.ID),
		zap.Uint("absence_id", ev.AbsenceID),
		zap.Uint("booking_id", ev.BookingID),
		zap.Uint("new_barber_id", ev.NewBarberID),
	)
	return nil
}
