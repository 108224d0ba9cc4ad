package absence

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ResolutionKind string

const (
	KindReassign ResolutionKind = "reassign"
	KindReject   ResolutionKind = "reject"
)

// ResolutionAction é a decisão do admin para um agendamento afetado.
type ResolutionAction struct {
	Kind            ResolutionKind
	NewBarberID     uint
	RejectionReason string
	RejectionNote   string
}

func Reassign(newBarberID uint) ResolutionAction {
	return ResolutionAction{Kind: KindReassign, NewBarberID: newBarberID}
}

func Reject(reason, note string) ResolutionAction {
	return ResolutionAction{Kind: KindReject, RejectionReason: reason, RejectionNote: note}
}

// Validate checa a forma da ação; disponibilidade é checada na aplicação.
func (a ResolutionAction) Validate(bookingID, absentBarberID uint) error {
	switch a.Kind {
	case KindReassign:
		if a.NewBarberID == 0 {
			return errs.Validation("missing_new_barber", "Informe o barbeiro que assumirá o agendamento.")
		}
		if a.NewBarberID == absentBarberID {
			return &errs.AssignmentConflictError{
				BookingID: bookingID,
				BarberID:  a.NewBarberID,
				Reason:    "same_barber",
			}
		}
	case KindReject:
		if strings.TrimSpace(a.RejectionReason) == "" {
			return errs.Validation("missing_rejection_reason", "Informe o motivo do cancelamento.")
		}
	default:
		return errs.Validation("invalid_resolution_action", "Ação inválida para o agendamento.")
	}
	return nil
}

func (a ResolutionAction) Record(bookingID, approverID uint, at time.Time) models.ResolutionRecord {
	rec := models.ResolutionRecord{
		BookingID: bookingID,
		Action:    string(a.Kind),
		DecidedBy: approverID,
		DecidedAt: at,
	}
	if a.Kind == KindReassign {
		id := a.NewBarberID
		rec.NewBarberID = &id
	} else {
		rec.RejectionReason = a.RejectionReason
		rec.RejectionNote = a.RejectionNote
	}
	return rec
}
