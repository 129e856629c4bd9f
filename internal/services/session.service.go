package services

import (
	"context"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type SessionService struct {
	sessions *repository.SessionRepository
	bookings *repository.BookingRepository
}

func NewSessionService(sessions *repository.SessionRepository, bookings *repository.BookingRepository) *SessionService {
	return &SessionService{sessions: sessions, bookings: bookings}
}

func (s *SessionService) Create(ctx context.Context, req model.SessionCreateRequest) (*model.TrainingSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.sessions.Create(ctx, &model.TrainingSession{
		CourseID:        req.CourseID,
		TrainerID:       req.TrainerID,
		SessionDate:     req.SessionDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		Location:        req.Location,
		Notes:           req.Notes,
		Status:          model.SessionStatusScheduled,
	})
}

func (s *SessionService) Get(ctx context.Context, id int64) (*model.TrainingSession, error) {
	return s.sessions.Get(ctx, id)
}

func (s *SessionService) List(ctx context.Context, f model.SessionFilter) ([]*model.TrainingSession, int64, error) {
	return s.sessions.List(ctx, f)
}

func (s *SessionService) Update(ctx context.Context, session *model.TrainingSession) (*model.TrainingSession, error) {
	return s.sessions.Update(ctx, session)
}

func (s *SessionService) Delete(ctx context.Context, id int64) error {
	return s.sessions.Delete(ctx, id)
}

// Availability is the capacity snapshot for one session. The count is a
// plain read, so the number can be stale by the time the caller books.
func (s *SessionService) Availability(ctx context.Context, id int64) (*model.SessionAvailability, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.bookings.CountActive(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	spots := session.MaxParticipants - int(count)
	if spots < 0 {
		spots = 0
	}

	return &model.SessionAvailability{
		SessionID:       session.ID,
		MaxParticipants: session.MaxParticipants,
		CurrentBookings: int(count),
		AvailableSpots:  spots,
		IsFull:          spots == 0,
		IsAvailable:     spots > 0 && session.Status == model.SessionStatusScheduled,
	}, nil
}
