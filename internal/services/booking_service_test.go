package services

import (
	"fmt"
	"testing"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingService_CapacityLimit(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	session := env.session(t, 3)

	for i := 0; i < 3; i++ {
		dog := env.dog(t, customer.ID, fmt.Sprintf("Hund-%d", i))
		_, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
			TrainingSessionID: session.ID,
			CustomerID:        customer.ID,
			DogID:             dog.ID,
		})
		require.NoError(t, err)
	}

	extra := env.dog(t, customer.ID, "Zuviel")
	_, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             extra.ID,
	})
	assert.ErrorIs(t, err, ErrSessionFull)

	avail, err := env.sessions.Availability(t.Context(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, avail.AvailableSpots)
	assert.True(t, avail.IsFull)
}

func TestBookingService_DuplicateDog(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	session := env.session(t, 5)
	dog := env.dog(t, customer.ID, "Rex")

	_, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dog.ID,
	})
	require.NoError(t, err)

	_, err = env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dog.ID,
	})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestBookingService_OwnershipMismatch(t *testing.T) {
	env := newTestEnv(t)
	anna := env.customer(t, "anna@example.org")
	jonas := env.customer(t, "jonas@example.org")
	session := env.session(t, 5)
	jonasDog := env.dog(t, jonas.ID, "Luna")

	// Capacity is plentiful; the rejection is purely the ownership check.
	_, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        anna.ID,
		DogID:             jonasDog.ID,
	})
	assert.ErrorIs(t, err, ErrOwnershipMismatch)
}

func TestBookingService_CreateEnqueuesMail(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	session := env.session(t, 5)
	dog := env.dog(t, customer.ID, "Rex")

	booking, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dog.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, booking.Status)

	jobs := env.dispatcher.sent()
	require.Len(t, jobs, 1)
	assert.Equal(t, notify.TemplateBookingCreated, jobs[0].Template)
	assert.Equal(t, "anna@example.org", jobs[0].Recipient)
	assert.Equal(t, "Welpenschule", jobs[0].Data["course_title"])
}

func TestBookingService_ConfirmAndCancel(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	session := env.session(t, 5)
	dog := env.dog(t, customer.ID, "Rex")

	booking, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dog.ID,
	})
	require.NoError(t, err)

	confirmed, err := env.bookings.Confirm(t.Context(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, confirmed.Status)

	// Confirming twice is an invalid transition.
	_, err = env.bookings.Confirm(t.Context(), booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled, err := env.bookings.Cancel(t.Context(), booking.ID, "krank")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "krank", *cancelled.CancellationReason)

	_, err = env.bookings.Cancel(t.Context(), booking.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	jobs := env.dispatcher.sent()
	require.Len(t, jobs, 2)
	assert.Equal(t, notify.TemplateBookingConfirmed, jobs[1].Template)
}

// Booking, failing on capacity, cancelling and rebooking walks the spot
// through a full reuse cycle.
func TestBookingService_SpotFreedByCancellation(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	session := env.session(t, 1)
	dogA := env.dog(t, customer.ID, "A")
	dogB := env.dog(t, customer.ID, "B")

	first, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dogA.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, first.Status)

	_, err = env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dogB.ID,
	})
	assert.ErrorIs(t, err, ErrSessionFull)

	_, err = env.bookings.Cancel(t.Context(), first.ID, "verhindert")
	require.NoError(t, err)

	second, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dogB.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, second.Status)
}

func TestBookingService_UpdateRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	customer := env.customer(t, "anna@example.org")
	session := env.session(t, 5)
	dog := env.dog(t, customer.ID, "Rex")

	booking, err := env.bookings.Create(t.Context(), model.BookingCreateRequest{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dog.ID,
	})
	require.NoError(t, err)

	bogus := model.BookingStatus("approved")
	_, err = env.bookings.Update(t.Context(), booking.ID, model.BookingUpdateRequest{Status: &bogus})
	require.Error(t, err)

	after, err := env.bookings.Get(t.Context(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, after.Status)

	confirmed := model.BookingStatusConfirmed
	got, err := env.bookings.Update(t.Context(), booking.ID, model.BookingUpdateRequest{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, got.Status)
}
