package model

import (
	"strings"
	"time"
)

type Course struct {
	ID              int64     `json:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	TrainerID       int64     `json:"trainer_id"       gorm:"column:trainer_id;not null;index"`
	Trainer         *User     `json:"-"                gorm:"foreignKey:TrainerID;references:ID"`
	Title           string    `json:"title"            gorm:"column:title;not null"`
	Description     string    `json:"description"      gorm:"column:description"`
	CourseType      string    `json:"course_type"      gorm:"column:course_type"` // e.g. "puppy", "obedience", "agility"
	MaxParticipants int       `json:"max_participants" gorm:"column:max_participants;not null;default:8"`
	Price           float64   `json:"price"            gorm:"column:price;not null;default:0"`
	Active          bool      `json:"active"           gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time `json:"created_at"       gorm:"column:created_at;autoCreateTime"`
}

func (Course) TableName() string { return "courses" }

type CourseCreateRequest struct {
	TrainerID       int64
	Title           string
	Description     string
	CourseType      string
	MaxParticipants int
	Price           float64
}

func (p CourseCreateRequest) Validate() error {
	if p.TrainerID == 0 {
		return invalid("trainer_id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title is required")
	}
	if p.MaxParticipants < 1 {
		return invalid("max_participants must be at least 1")
	}
	if p.Price < 0 {
		return invalid("price must not be negative")
	}
	return nil
}

type CourseFilter struct {
	TrainerID *int64
	Active    *bool
	Search    *string // matches title
	PerPage   int
	Page      int
	Desc      bool
}
