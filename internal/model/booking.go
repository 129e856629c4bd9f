package model

import (
	"time"
)

// BookingStatus is the lifecycle state of a booking. Bookings are created
// pending; trainers confirm them, customers or staff cancel them.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID                 int64            `json:"id"                  gorm:"primaryKey;autoIncrement;column:id"`
	TrainingSessionID  int64            `json:"training_session_id" gorm:"column:training_session_id;not null;index"`
	TrainingSession    *TrainingSession `json:"-"                   gorm:"foreignKey:TrainingSessionID;references:ID"`
	CustomerID         int64            `json:"customer_id"         gorm:"column:customer_id;not null;index"`
	Customer           *Customer        `json:"-"                   gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	DogID              int64            `json:"dog_id"              gorm:"column:dog_id;not null;index"`
	Dog                *Dog             `json:"-"                   gorm:"foreignKey:DogID;references:ID"`
	Status             BookingStatus    `json:"status"              gorm:"column:status;not null;default:'pending'"`
	BookingDate        time.Time        `json:"booking_date"        gorm:"column:booking_date;not null"`
	Attended           *bool            `json:"attended"            gorm:"column:attended"`
	CancellationReason *string          `json:"cancellation_reason" gorm:"column:cancellation_reason"`
	Notes              string           `json:"notes"               gorm:"column:notes"`
	CreatedAt          time.Time        `json:"created_at"          gorm:"column:created_at;autoCreateTime"`
}

func (Booking) TableName() string { return "bookings" }

type BookingCreateRequest struct {
	TrainingSessionID int64
	CustomerID        int64
	DogID             int64
	Notes             string
}

func (p BookingCreateRequest) Validate() error {
	if p.TrainingSessionID == 0 {
		return invalid("training_session_id is required")
	}
	if p.CustomerID == 0 {
		return invalid("customer_id is required")
	}
	if p.DogID == 0 {
		return invalid("dog_id is required")
	}
	return nil
}

type BookingUpdateRequest struct {
	Status   *BookingStatus
	Attended *bool
	Notes    *string
}

type BookingFilter struct {
	TrainingSessionID *int64
	CustomerID        *int64
	DogID             *int64
	Statuses          []BookingStatus // IN (...)
	From              *time.Time
	To                *time.Time
	PerPage           int
	Page              int
	Desc              bool
}
