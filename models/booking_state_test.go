package models

import (
	"testing"

	"urbanhaven/constants"

	"github.com/stretchr/testify/assert"
)

func TestPendingTransitions(t *testing.T) {
	booking := &Booking{Status: constants.BookingStatusPending}

	state := GetBookingState(booking.Status)
	assert.NoError(t, state.Confirm(booking))
	assert.Equal(t, constants.BookingStatusConfirmed, booking.Status)

	booking.Status = constants.BookingStatusPending
	assert.NoError(t, state.Cancel(booking))
	assert.Equal(t, constants.BookingStatusCancelled, booking.Status)
}

func TestConfirmedTransitions(t *testing.T) {
	booking := &Booking{Status: constants.BookingStatusConfirmed}
	state := GetBookingState(booking.Status)

	assert.Error(t, state.Confirm(booking))

	assert.NoError(t, state.Cancel(booking))
	assert.Equal(t, constants.BookingStatusCancelled, booking.Status)
}

func TestCancelledIsTerminal(t *testing.T) {
	booking := &Booking{Status: constants.BookingStatusCancelled}
	state := GetBookingState(booking.Status)

	assert.Error(t, state.Confirm(booking))
	assert.Error(t, state.Cancel(booking))
	assert.Equal(t, constants.BookingStatusCancelled, booking.Status)
}

func TestUnknownStatusTreatedAsPending(t *testing.T) {
	state := GetBookingState("garbage")
	assert.IsType(t, &PendingState{}, state)
}
