package repository

import (
	"context"
	"errors"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

// activeStatuses are the statuses that occupy a seat.
var activeStatuses = []model.BookingStatus{
	model.BookingStatusPending,
	model.BookingStatusConfirmed,
}

type BookingRepository struct {
	*pg.DB
}

func NewBookingRepository(db *pg.DB) *BookingRepository {
	return &BookingRepository{db}
}

func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	entity := toBookingEntity(b)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toBookingModel(entity), nil
}

func (r *BookingRepository) Get(ctx context.Context, id int64) (*model.Booking, error) {
	var entity BookingEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return toBookingModel(&entity), nil
}

// CountActive returns the number of seat-occupying bookings for a session.
// Inside a booking-creation transaction the count must go through the write
// handle so it observes the locked session row's view.
func (r *BookingRepository) CountActive(ctx context.Context, sessionID int64) (int64, error) {
	var count int64
	err := r.Write(ctx).Model(&BookingEntity{}).
		Where("training_session_id = ? AND status IN ?", sessionID, activeStatuses).
		Count(&count).Error
	return count, err
}

// HasActiveForDog reports whether the dog already occupies a seat in the
// session.
func (r *BookingRepository) HasActiveForDog(ctx context.Context, sessionID, dogID int64) (bool, error) {
	var count int64
	err := r.Write(ctx).Model(&BookingEntity{}).
		Where("training_session_id = ? AND dog_id = ? AND status IN ?", sessionID, dogID, activeStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *BookingRepository) Update(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	res := r.Write(ctx).Model(&BookingEntity{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"status":              b.Status,
		"attended":            b.Attended,
		"cancellation_reason": b.CancellationReason,
		"notes":               b.Notes,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrBookingNotFound
	}
	return r.Get(ctx, b.ID)
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&BookingEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) List(ctx context.Context, f model.BookingFilter) ([]*model.Booking, int64, error) {
	q := r.Read(ctx).Model(&BookingEntity{})

	if f.TrainingSessionID != nil {
		q = q.Where("training_session_id = ?", *f.TrainingSessionID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.DogID != nil {
		q = q.Where("dog_id = ?", *f.DogID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.From != nil {
		q = q.Where("booking_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("booking_date < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*BookingEntity
	if err := q.Order(orderClause("booking_date", f.Desc)).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toBookingModels(entities), total, nil
}
