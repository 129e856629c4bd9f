package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type CourseEntity struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;column:id"`
	TrainerID       int64     `gorm:"column:trainer_id;not null;index"`
	Title           string    `gorm:"column:title;not null"`
	Description     string    `gorm:"column:description"`
	CourseType      string    `gorm:"column:course_type"`
	MaxParticipants int       `gorm:"column:max_participants;not null;default:8"`
	Price           float64   `gorm:"column:price;not null;default:0"`
	Active          bool      `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CourseEntity) TableName() string { return "courses" }

func toCourseEntity(m *model.Course) *CourseEntity {
	if m == nil {
		return nil
	}
	return &CourseEntity{
		ID:              m.ID,
		TrainerID:       m.TrainerID,
		Title:           m.Title,
		Description:     m.Description,
		CourseType:      m.CourseType,
		MaxParticipants: m.MaxParticipants,
		Price:           m.Price,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
	}
}

func toCourseModel(e *CourseEntity) *model.Course {
	if e == nil {
		return nil
	}
	return &model.Course{
		ID:              e.ID,
		TrainerID:       e.TrainerID,
		Title:           e.Title,
		Description:     e.Description,
		CourseType:      e.CourseType,
		MaxParticipants: e.MaxParticipants,
		Price:           e.Price,
		Active:          e.Active,
		CreatedAt:       e.CreatedAt,
	}
}

func toCourseModels(entities []*CourseEntity) []*model.Course {
	if entities == nil {
		return nil
	}
	models := make([]*model.Course, len(entities))
	for i, e := range entities {
		models[i] = toCourseModel(e)
	}
	return models
}
