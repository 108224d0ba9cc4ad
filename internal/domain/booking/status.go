package booking

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// ActiveStatuses ocupam a agenda do barbeiro.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), true
	}
	return "", false
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

// ===============================
// Validations
// ===============================

// CanTransition valida a máquina de estados do agendamento.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_status_transition")
}

// InitialStatus é o status de todo agendamento recém-criado.
func InitialStatus() Status {
	return StatusPending
}
