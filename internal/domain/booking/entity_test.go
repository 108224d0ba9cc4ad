package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
		StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	}
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"), "%s -> %s", from, to)
			}
		}
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusPending.IsActive())
	assert.False(t, StatusNoShow.IsActive())
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestCancelAndReassign(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	b := &models.Booking{BarberID: 1, Status: string(StatusConfirmed)}
	require.NoError(t, Reassign(b, 2))
	assert.Equal(t, uint(2), b.BarberID)
	assert.Equal(t, string(StatusConfirmed), b.Status)

	require.NoError(t, Cancel(b, "barber_unavailable", "nota", now))
	assert.Equal(t, string(StatusCancelled), b.Status)
	assert.Equal(t, "barber_unavailable", b.CancelReason)
	require.NotNil(t, b.CancelledAt)
	assert.True(t, b.CancelledAt.Equal(now))

	assert.True(t, httperr.IsBusiness(Reassign(b, 3), "booking_not_active"))
	assert.Error(t, Cancel(b, "x", "", now))
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }

	assert.True(t, Overlaps(at(10, 0), at(10, 30), at(10, 15), at(10, 45)))
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(10, 15), at(10, 30)))
	assert.False(t, Overlaps(at(10, 0), at(10, 30), at(10, 30), at(11, 0)))
	assert.False(t, Overlaps(at(10, 30), at(11, 0), at(10, 0), at(10, 30)))
}

func TestWithinWorkingHours(t *testing.T) {
	wh := &models.WorkingHours{
		StartTime:  "09:00",
		EndTime:    "18:00",
		LunchStart: "12:00",
		LunchEnd:   "13:00",
		Active:     true,
	}
	at := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }

	assert.True(t, WithinWorkingHours(wh, at(9, 0), at(9, 30)))
	assert.True(t, WithinWorkingHours(wh, at(17, 30), at(18, 0)))
	assert.True(t, WithinWorkingHours(wh, at(13, 0), at(13, 30)))
	assert.False(t, WithinWorkingHours(wh, at(8, 30), at(9, 0)))
	assert.False(t, WithinWorkingHours(wh, at(17, 45), at(18, 15)))
	assert.False(t, WithinWorkingHours(wh, at(11, 45), at(12, 15)))
	assert.False(t, WithinWorkingHours(nil, at(10, 0), at(10, 30)))

	wh.Active = false
	assert.False(t, WithinWorkingHours(wh, at(10, 0), at(10, 30)))
}
