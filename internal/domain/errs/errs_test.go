package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{Validation("x", "y"), ErrValidation},
		{NotFound("barber", 1), ErrNotFound},
		{&StateError{AbsenceID: 1, Current: "approved"}, ErrState},
		{IncompleteResolution([]uint{1}), ErrIncompleteResolution},
		{&AssignmentConflictError{BookingID: 1, BarberID: 2, Reason: "barber_busy"}, ErrAssignmentConflict},
		{&ConflictError{ExistingID: 3}, ErrConflict},
	}

	for _, tc := range cases {
		wrapped := fmt.Errorf("approve: %w", tc.err)
		assert.ErrorIs(t, wrapped, tc.sentinel, tc.err.Error())
	}
}

func TestIncompleteResolutionSortsIDs(t *testing.T) {
	input := []uint{9, 2, 5}
	err := IncompleteResolution(input)

	var ie *IncompleteResolutionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, []uint{2, 5, 9}, ie.Missing)
	assert.Equal(t, []uint{9, 2, 5}, input)
	assert.Equal(t, "missing resolution for bookings [2,5,9]", err.Error())
}
