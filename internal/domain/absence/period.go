package absence

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
)

const MaxDays = 30

// Period é um intervalo inclusivo de dias civis (meia-noite UTC).
type Period struct {
	Start time.Time
	End   time.Time
}

// Validate aplica as regras de envio: fim >= início, até MaxDays de
// diferença e início não anterior a today.
func (p Period) Validate(today time.Time) error {
	if p.Start.IsZero() || p.End.IsZero() {
		return errs.Validation("missing_dates", "Datas de início e fim são obrigatórias.")
	}
	if p.End.Before(p.Start) {
		return errs.Validation("invalid_date_range", "A data final deve ser igual ou posterior à inicial.")
	}
	if p.End.Sub(p.Start) > MaxDays*24*time.Hour {
		return errs.Validation("absence_too_long", "A ausência não pode passar de 30 dias.")
	}
	if p.Start.Before(today) {
		return errs.Validation("start_in_past", "A data inicial não pode estar no passado.")
	}
	return nil
}

// Overlaps considera os dois períodos inclusivos.
func (p Period) Overlaps(o Period) bool {
	return !p.Start.After(o.End) && !o.Start.After(p.End)
}

func (p Period) Covers(day time.Time) bool {
	return !day.Before(p.Start) && !day.After(p.End)
}
