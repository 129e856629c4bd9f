package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type TrainingSessionEntity struct {
	ID              int64               `gorm:"primaryKey;autoIncrement;column:id"`
	CourseID        *int64              `gorm:"column:course_id;index"`
	Course          *CourseEntity       `gorm:"foreignKey:CourseID;references:ID;constraint:OnDelete:SET NULL"`
	TrainerID       int64               `gorm:"column:trainer_id;not null;index"`
	SessionDate     time.Time           `gorm:"column:session_date;not null"`
	StartTime       string              `gorm:"column:start_time;not null"`
	EndTime         string              `gorm:"column:end_time;not null"`
	MaxParticipants int                 `gorm:"column:max_participants;not null;default:8"`
	Location        string              `gorm:"column:location"`
	Notes           string              `gorm:"column:notes"`
	Status          model.SessionStatus `gorm:"column:status;not null;default:'scheduled'"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (TrainingSessionEntity) TableName() string { return "training_sessions" }

func toSessionEntity(m *model.TrainingSession) *TrainingSessionEntity {
	if m == nil {
		return nil
	}
	return &TrainingSessionEntity{
		ID:              m.ID,
		CourseID:        m.CourseID,
		TrainerID:       m.TrainerID,
		SessionDate:     m.SessionDate,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		MaxParticipants: m.MaxParticipants,
		Location:        m.Location,
		Notes:           m.Notes,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
	}
}

func toSessionModel(e *TrainingSessionEntity) *model.TrainingSession {
	if e == nil {
		return nil
	}
	return &model.TrainingSession{
		ID:              e.ID,
		CourseID:        e.CourseID,
		TrainerID:       e.TrainerID,
		SessionDate:     e.SessionDate,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		MaxParticipants: e.MaxParticipants,
		Location:        e.Location,
		Notes:           e.Notes,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt,
	}
}

func toSessionModels(entities []*TrainingSessionEntity) []*model.TrainingSession {
	if entities == nil {
		return nil
	}
	models := make([]*model.TrainingSession, len(entities))
	for i, e := range entities {
		models[i] = toSessionModel(e)
	}
	return models
}
