package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_CountActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)

	customer := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")
	course := seedCourse(t, db, "Welpenschule")
	session := seedSession(t, db, course.ID, 5)

	dogs := []*model.Dog{
		seedDog(t, db, customer.ID, "Rex"),
		seedDog(t, db, customer.ID, "Luna"),
		seedDog(t, db, customer.ID, "Balu"),
	}

	statuses := []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusCancelled,
	}
	for i, status := range statuses {
		_, err := repo.Create(t.Context(), &model.Booking{
			TrainingSessionID: session.ID,
			CustomerID:        customer.ID,
			DogID:             dogs[i].ID,
			Status:            status,
			BookingDate:       time.Now(),
		})
		require.NoError(t, err)
	}

	// Cancelled bookings do not hold a spot.
	count, err := repo.CountActive(t.Context(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBookingRepository_HasActiveForDog(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)

	customer := seedCustomer(t, db, "Jonas", "Timm", "jonas@example.org")
	course := seedCourse(t, db, "Agility Basics")
	session := seedSession(t, db, course.ID, 5)
	dog := seedDog(t, db, customer.ID, "Milo")

	booking, err := repo.Create(t.Context(), &model.Booking{
		TrainingSessionID: session.ID,
		CustomerID:        customer.ID,
		DogID:             dog.ID,
		Status:            model.BookingStatusPending,
		BookingDate:       time.Now(),
	})
	require.NoError(t, err)

	has, err := repo.HasActiveForDog(t.Context(), session.ID, dog.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// A cancelled booking frees the dog for rebooking.
	reason := "customer request"
	booking.Status = model.BookingStatusCancelled
	booking.CancellationReason = &reason
	_, err = repo.Update(t.Context(), booking)
	require.NoError(t, err)

	has, err = repo.HasActiveForDog(t.Context(), session.ID, dog.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBookingRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookingRepository(db)

	anna := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")
	jonas := seedCustomer(t, db, "Jonas", "Timm", "jonas@example.org")
	course := seedCourse(t, db, "Obedience II")
	session := seedSession(t, db, course.ID, 10)
	annaDog := seedDog(t, db, anna.ID, "Rex")
	jonasDog := seedDog(t, db, jonas.ID, "Luna")

	for _, b := range []*model.Booking{
		{TrainingSessionID: session.ID, CustomerID: anna.ID, DogID: annaDog.ID, Status: model.BookingStatusPending, BookingDate: time.Now()},
		{TrainingSessionID: session.ID, CustomerID: anna.ID, DogID: annaDog.ID, Status: model.BookingStatusCancelled, BookingDate: time.Now()},
		{TrainingSessionID: session.ID, CustomerID: jonas.ID, DogID: jonasDog.ID, Status: model.BookingStatusConfirmed, BookingDate: time.Now()},
	} {
		_, err := repo.Create(t.Context(), b)
		require.NoError(t, err)
	}

	t.Run("by customer", func(t *testing.T) {
		got, total, err := repo.List(t.Context(), model.BookingFilter{CustomerID: &anna.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, b := range got {
			assert.Equal(t, anna.ID, b.CustomerID)
		}
	})

	t.Run("by status set", func(t *testing.T) {
		got, total, err := repo.List(t.Context(), model.BookingFilter{
			Statuses: []model.BookingStatus{model.BookingStatusPending, model.BookingStatusConfirmed},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, got, 2)
	})

	t.Run("not found on get", func(t *testing.T) {
		_, err := repo.Get(t.Context(), 9999)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestBookingRepository_CapacityWithinTransaction(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingRepository(db)
	sessions := NewSessionRepository(db)

	customer := seedCustomer(t, db, "Anna", "Berg", "anna@example.org")
	course := seedCourse(t, db, "Welpenschule")
	session := seedSession(t, db, course.ID, 2)

	errFull := errors.New("session full")
	rex := seedDog(t, db, customer.ID, "Rex")
	luna := seedDog(t, db, customer.ID, "Luna")
	balu := seedDog(t, db, customer.ID, "Balu")

	book := func(dogID int64) error {
		return db.WithinTransaction(t.Context(), func(ctx context.Context) error {
			locked, err := sessions.GetForUpdate(ctx, session.ID)
			if err != nil {
				return err
			}
			count, err := bookings.CountActive(ctx, locked.ID)
			if err != nil {
				return err
			}
			if count >= int64(locked.MaxParticipants) {
				return errFull
			}
			_, err = bookings.Create(ctx, &model.Booking{
				TrainingSessionID: locked.ID,
				CustomerID:        customer.ID,
				DogID:             dogID,
				Status:            model.BookingStatusPending,
				BookingDate:       time.Now(),
			})
			return err
		})
	}

	require.NoError(t, book(rex.ID))
	require.NoError(t, book(luna.ID))
	assert.ErrorIs(t, book(balu.ID), errFull)

	count, err := bookings.CountActive(t.Context(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
