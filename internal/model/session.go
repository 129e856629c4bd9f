package model

import (
	"time"
)

// SessionStatus is the lifecycle state of a training session.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

type TrainingSession struct {
	ID              int64         `json:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	CourseID        *int64        `json:"course_id"        gorm:"column:course_id;index"`
	Course          *Course       `json:"-"                gorm:"foreignKey:CourseID;references:ID;constraint:OnDelete:SET NULL"`
	TrainerID       int64         `json:"trainer_id"       gorm:"column:trainer_id;not null;index"`
	SessionDate     time.Time     `json:"session_date"     gorm:"column:session_date;not null"`
	StartTime       string        `json:"start_time"       gorm:"column:start_time;not null"` // "HH:MM"
	EndTime         string        `json:"end_time"         gorm:"column:end_time;not null"`
	MaxParticipants int           `json:"max_participants" gorm:"column:max_participants;not null;default:8"`
	Location        string        `json:"location"         gorm:"column:location"`
	Notes           string        `json:"notes"            gorm:"column:notes"`
	Status          SessionStatus `json:"status"           gorm:"column:status;not null;default:'scheduled'"`
	CreatedAt       time.Time     `json:"created_at"       gorm:"column:created_at;autoCreateTime"`
}

func (TrainingSession) TableName() string { return "training_sessions" }

type SessionCreateRequest struct {
	CourseID        *int64
	TrainerID       int64
	SessionDate     time.Time
	StartTime       string
	EndTime         string
	MaxParticipants int
	Location        string
	Notes           string
}

func (p SessionCreateRequest) Validate() error {
	if p.TrainerID == 0 {
		return invalid("trainer_id is required")
	}
	if p.SessionDate.IsZero() {
		return invalid("session_date is required")
	}
	if p.StartTime == "" || p.EndTime == "" {
		return invalid("start_time and end_time are required")
	}
	if p.MaxParticipants < 1 {
		return invalid("max_participants must be at least 1")
	}
	return nil
}

type SessionFilter struct {
	CourseID  *int64
	TrainerID *int64
	Status    *SessionStatus
	From      *time.Time
	To        *time.Time
	PerPage   int
	Page      int
	Desc      bool
}

// SessionAvailability is the capacity snapshot returned by the
// availability endpoint.
type SessionAvailability struct {
	SessionID       int64 `json:"session_id"`
	MaxParticipants int   `json:"max_participants"`
	CurrentBookings int   `json:"current_bookings"`
	AvailableSpots  int   `json:"available_spots"`
	IsFull          bool  `json:"is_full"`
	IsAvailable     bool  `json:"is_available"`
}
