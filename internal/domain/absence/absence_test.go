package absence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
)

func day(d int) time.Time {
	return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestPeriodValidate(t *testing.T) {
	today := day(0)

	cases := []struct {
		name string
		p    Period
		code string
	}{
		{"single day today", Period{day(0), day(0)}, ""},
		{"exactly 30 days", Period{day(1), day(31)}, ""},
		{"31 days", Period{day(1), day(32)}, "absence_too_long"},
		{"inverted", Period{day(3), day(2)}, "invalid_date_range"},
		{"yesterday", Period{day(-1), day(2)}, "start_in_past"},
		{"zero", Period{}, "missing_dates"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate(today)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.code, ve.Code)
		})
	}
}

func TestPeriodOverlapsAndCovers(t *testing.T) {
	p := Period{day(5), day(7)}

	assert.True(t, p.Overlaps(Period{day(7), day(9)}))
	assert.True(t, p.Overlaps(Period{day(1), day(5)}))
	assert.True(t, p.Overlaps(Period{day(6), day(6)}))
	assert.False(t, p.Overlaps(Period{day(8), day(9)}))

	assert.True(t, p.Covers(day(5)))
	assert.True(t, p.Covers(day(7)))
	assert.False(t, p.Covers(day(8)))
}

func TestApprovalState(t *testing.T) {
	assert.Nil(t, StatePending.IsApproved())
	assert.True(t, *StateApproved.IsApproved())
	assert.False(t, *StateRejected.IsApproved())

	assert.True(t, StatePending.CanDecide())
	assert.False(t, StateApproved.CanDecide())
	assert.True(t, StateRejected.IsTerminal())

	_, ok := ParseState("approved")
	assert.True(t, ok)
	_, ok = ParseState("maybe")
	assert.False(t, ok)
}

func TestResolutionAction(t *testing.T) {
	now := day(0)

	assert.NoError(t, Reassign(2).Validate(10, 1))
	assert.NoError(t, Reject("barber_unavailable", "").Validate(10, 1))

	var ae *errs.AssignmentConflictError
	require.ErrorAs(t, Reassign(1).Validate(10, 1), &ae)
	assert.Equal(t, "same_barber", ae.Reason)
	assert.Equal(t, uint(10), ae.BookingID)

	rec := Reassign(2).Record(10, 99, now)
	assert.Equal(t, "reassign", rec.Action)
	require.NotNil(t, rec.NewBarberID)
	assert.Equal(t, uint(2), *rec.NewBarberID)
	assert.Empty(t, rec.RejectionReason)

	rec = Reject("barber_unavailable", "ligar antes").Record(11, 99, now)
	assert.Nil(t, rec.NewBarberID)
	assert.Equal(t, "ligar antes", rec.RejectionNote)
	assert.Equal(t, uint(99), rec.DecidedBy)
}

func TestParseReason(t *testing.T) {
	for _, r := range []string{"sick_leave", "vacation", "emergency", "training", "personal", "other"} {
		_, ok := ParseReason(r)
		assert.True(t, ok, r)
	}
	_, ok := ParseReason("Vacation")
	assert.False(t, ok)
}
