package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// WithinWorkingHours valida se um horário está dentro do expediente
// incluindo pausa de almoço (regra de domínio)
func WithinWorkingHours(wh *models.WorkingHours, start, end time.Time) bool {
	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return false
	}

	workStart, ok1 := ClockOn(start, wh.StartTime)
	workEnd, ok2 := ClockOn(start, wh.EndTime)
	if !ok1 || !ok2 {
		return false
	}

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if lunchStart, lunchEnd, ok := LunchBreak(wh, start); ok {
		if Overlaps(start, end, lunchStart, lunchEnd) {
			return false
		}
	}

	return true
}

// ClockOn monta "HH:MM" no mesmo dia/fuso de day.
func ClockOn(day time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), true
}

func LunchBreak(wh *models.WorkingHours, day time.Time) (time.Time, time.Time, bool) {
	if wh.LunchStart == "" || wh.LunchEnd == "" {
		return time.Time{}, time.Time{}, false
	}
	ls, ok1 := ClockOn(day, wh.LunchStart)
	le, ok2 := ClockOn(day, wh.LunchEnd)
	return ls, le, ok1 && ok2
}
