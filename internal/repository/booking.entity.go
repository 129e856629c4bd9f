package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type BookingEntity struct {
	ID                 int64                  `gorm:"primaryKey;autoIncrement;column:id"`
	TrainingSessionID  int64                  `gorm:"column:training_session_id;not null;index"`
	TrainingSession    *TrainingSessionEntity `gorm:"foreignKey:TrainingSessionID;references:ID"`
	CustomerID         int64                  `gorm:"column:customer_id;not null;index"`
	Customer           *CustomerEntity        `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	DogID              int64                  `gorm:"column:dog_id;not null;index"`
	Dog                *DogEntity             `gorm:"foreignKey:DogID;references:ID"`
	Status             model.BookingStatus    `gorm:"column:status;not null;default:'pending'"`
	BookingDate        time.Time              `gorm:"column:booking_date;not null"`
	Attended           *bool                  `gorm:"column:attended"`
	CancellationReason *string                `gorm:"column:cancellation_reason"`
	Notes              string                 `gorm:"column:notes"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (BookingEntity) TableName() string { return "bookings" }

func toBookingEntity(m *model.Booking) *BookingEntity {
	if m == nil {
		return nil
	}
	return &BookingEntity{
		ID:                 m.ID,
		TrainingSessionID:  m.TrainingSessionID,
		CustomerID:         m.CustomerID,
		DogID:              m.DogID,
		Status:             m.Status,
		BookingDate:        m.BookingDate,
		Attended:           m.Attended,
		CancellationReason: m.CancellationReason,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
	}
}

func toBookingModel(e *BookingEntity) *model.Booking {
	if e == nil {
		return nil
	}
	return &model.Booking{
		ID:                 e.ID,
		TrainingSessionID:  e.TrainingSessionID,
		CustomerID:         e.CustomerID,
		DogID:              e.DogID,
		Status:             e.Status,
		BookingDate:        e.BookingDate,
		Attended:           e.Attended,
		CancellationReason: e.CancellationReason,
		Notes:              e.Notes,
		CreatedAt:          e.CreatedAt,
	}
}

func toBookingModels(entities []*BookingEntity) []*model.Booking {
	if entities == nil {
		return nil
	}
	models := make([]*model.Booking, len(entities))
	for i, e := range entities {
		models[i] = toBookingModel(e)
	}
	return models
}
