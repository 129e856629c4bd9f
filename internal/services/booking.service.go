package services

import (
	"context"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/notify"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/pkg/logger"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"github.com/pfotenwerk/backoffice/pkg/prom"
)

type BookingService struct {
	db         *pg.DB
	bookings   *repository.BookingRepository
	sessions   *repository.SessionRepository
	dogs       *repository.DogRepository
	customers  *repository.CustomerRepository
	courses    *repository.CourseRepository
	dispatcher notify.Dispatcher
}

func NewBookingService(
	db *pg.DB,
	bookings *repository.BookingRepository,
	sessions *repository.SessionRepository,
	dogs *repository.DogRepository,
	customers *repository.CustomerRepository,
	courses *repository.CourseRepository,
	dispatcher notify.Dispatcher,
) *BookingService {
	return &BookingService{
		db:         db,
		bookings:   bookings,
		sessions:   sessions,
		dogs:       dogs,
		customers:  customers,
		courses:    courses,
		dispatcher: dispatcher,
	}
}

// Create books a dog into a session. The capacity check and the insert run
// in one transaction with the session row locked, so two concurrent requests
// cannot both take the last spot.
func (s *BookingService) Create(ctx context.Context, req model.BookingCreateRequest) (*model.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetForUpdate(txCtx, req.TrainingSessionID)
		if err != nil {
			return err
		}
		if session.Status != model.SessionStatusScheduled {
			return ErrSessionNotBookable
		}

		count, err := s.bookings.CountActive(txCtx, session.ID)
		if err != nil {
			return err
		}
		if count >= int64(session.MaxParticipants) {
			return ErrSessionFull
		}

		dog, err := s.dogs.Get(txCtx, req.DogID)
		if err != nil {
			return err
		}
		if dog.CustomerID != req.CustomerID {
			return ErrOwnershipMismatch
		}

		duplicate, err := s.bookings.HasActiveForDog(txCtx, session.ID, dog.ID)
		if err != nil {
			return err
		}
		if duplicate {
			return ErrDuplicateBooking
		}

		booking, err = s.bookings.Create(txCtx, &model.Booking{
			TrainingSessionID: session.ID,
			CustomerID:        req.CustomerID,
			DogID:             dog.ID,
			Status:            model.BookingStatusPending,
			BookingDate:       time.Now(),
			Notes:             req.Notes,
		})
		return err
	})
	if err != nil {
		if err == ErrSessionFull {
			prom.IncCounter(prom.SystemBookings, prom.MetricBookingsFull)
		}
		return nil, err
	}

	prom.IncCounter(prom.SystemBookings, prom.MetricBookingsCreated)
	s.sendBookingMail(ctx, booking, notify.TemplateBookingCreated)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *BookingService) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error) {
	return s.bookings.List(ctx, f)
}

func (s *BookingService) Update(ctx context.Context, id int64, req model.BookingUpdateRequest) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, model.ValidationError("invalid booking status")
		}
		booking.Status = *req.Status
	}
	if req.Attended != nil {
		booking.Attended = req.Attended
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}
	return s.bookings.Update(ctx, booking)
}

// Confirm transitions a pending booking to confirmed and notifies the
// customer.
func (s *BookingService) Confirm(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusPending {
		return nil, ErrInvalidTransition
	}

	booking.Status = model.BookingStatusConfirmed
	booking, err = s.bookings.Update(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.sendBookingMail(ctx, booking, notify.TemplateBookingConfirmed)
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrInvalidTransition
	}

	booking.Status = model.BookingStatusCancelled
	if reason != "" {
		booking.CancellationReason = &reason
	}
	return s.bookings.Update(ctx, booking)
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	return s.bookings.Delete(ctx, id)
}

// sendBookingMail enqueues a notification for the booking. Enqueue failures
// are logged and swallowed; the booking write has already committed.
func (s *BookingService) sendBookingMail(ctx context.Context, booking *model.Booking, template string) {
	customer, err := s.customers.Get(ctx, booking.CustomerID)
	if err != nil {
		logger.Warn("[booking] skipping mail, customer lookup failed", "booking_id", booking.ID, "error", err)
		return
	}

	session, err := s.sessions.Get(ctx, booking.TrainingSessionID)
	if err != nil {
		logger.Warn("[booking] skipping mail, session lookup failed", "booking_id", booking.ID, "error", err)
		return
	}

	courseTitle := "Einzeltraining"
	if session.CourseID != nil {
		if course, err := s.courses.Get(ctx, *session.CourseID); err == nil {
			courseTitle = course.Title
		}
	}

	job := notify.EmailJob{
		Template:  template,
		Recipient: customer.Email,
		Data: map[string]interface{}{
			"customer_name": customer.FirstName,
			"course_title":  courseTitle,
			"session_date":  session.SessionDate.Format("02.01.2006"),
			"start_time":    session.StartTime,
		},
	}
	if err := s.dispatcher.Enqueue(ctx, job); err != nil {
		logger.Error("[booking] mail enqueue failed", "booking_id", booking.ID, "template", template, "error", err)
	}
}
