package repository

import (
	"time"

	"github.com/lib/pq"
	"github.com/pfotenwerk/backoffice/internal/model"
)

type AnamnesisTemplateEntity struct {
	ID          int64                      `gorm:"primaryKey;autoIncrement;column:id"`
	TrainerID   int64                      `gorm:"column:trainer_id;not null;index"`
	Name        string                     `gorm:"column:name;not null"`
	Description string                     `gorm:"column:description"`
	Active      bool                       `gorm:"column:active;not null;default:true"`
	Questions   []*AnamnesisQuestionEntity `gorm:"foreignKey:TemplateID"`
	CreatedAt   time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

func (AnamnesisTemplateEntity) TableName() string { return "anamnesis_templates" }

type AnamnesisQuestionEntity struct {
	ID           int64              `gorm:"primaryKey;autoIncrement;column:id"`
	TemplateID   int64              `gorm:"column:template_id;not null;index"`
	Position     int                `gorm:"column:position;not null"`
	QuestionText string             `gorm:"column:question_text;not null"`
	QuestionType model.QuestionType `gorm:"column:question_type;not null"`
	Options      pq.StringArray     `gorm:"column:options;type:text[]"`
	Required     bool               `gorm:"column:required;not null;default:false"`
}

func (AnamnesisQuestionEntity) TableName() string { return "anamnesis_questions" }

type AnamnesisResponseEntity struct {
	ID          int64                    `gorm:"primaryKey;autoIncrement;column:id"`
	TemplateID  int64                    `gorm:"column:template_id;not null;index"`
	DogID       int64                    `gorm:"column:dog_id;not null;index"`
	SubmittedAt time.Time                `gorm:"column:submitted_at;not null"`
	Answers     []*AnamnesisAnswerEntity `gorm:"foreignKey:ResponseID"`
}

func (AnamnesisResponseEntity) TableName() string { return "anamnesis_responses" }

type AnamnesisAnswerEntity struct {
	ID            int64          `gorm:"primaryKey;autoIncrement;column:id"`
	ResponseID    int64          `gorm:"column:response_id;not null;index"`
	QuestionID    int64          `gorm:"column:question_id;not null"`
	AnswerText    string         `gorm:"column:answer_text"`
	AnswerOptions pq.StringArray `gorm:"column:answer_options;type:text[]"`
}

func (AnamnesisAnswerEntity) TableName() string { return "anamnesis_answers" }

func toTemplateEntity(m *model.AnamnesisTemplate) *AnamnesisTemplateEntity {
	if m == nil {
		return nil
	}
	entity := &AnamnesisTemplateEntity{
		ID:          m.ID,
		TrainerID:   m.TrainerID,
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
	}
	for _, q := range m.Questions {
		entity.Questions = append(entity.Questions, toQuestionEntity(q))
	}
	return entity
}

func toQuestionEntity(m *model.AnamnesisQuestion) *AnamnesisQuestionEntity {
	if m == nil {
		return nil
	}
	return &AnamnesisQuestionEntity{
		ID:           m.ID,
		TemplateID:   m.TemplateID,
		Position:     m.Position,
		QuestionText: m.QuestionText,
		QuestionType: m.QuestionType,
		Options:      pq.StringArray(m.Options),
		Required:     m.Required,
	}
}

func toTemplateModel(e *AnamnesisTemplateEntity) *model.AnamnesisTemplate {
	if e == nil {
		return nil
	}
	m := &model.AnamnesisTemplate{
		ID:          e.ID,
		TrainerID:   e.TrainerID,
		Name:        e.Name,
		Description: e.Description,
		Active:      e.Active,
		CreatedAt:   e.CreatedAt,
	}
	for _, q := range e.Questions {
		m.Questions = append(m.Questions, toQuestionModel(q))
	}
	return m
}

func toQuestionModel(e *AnamnesisQuestionEntity) *model.AnamnesisQuestion {
	if e == nil {
		return nil
	}
	return &model.AnamnesisQuestion{
		ID:           e.ID,
		TemplateID:   e.TemplateID,
		Position:     e.Position,
		QuestionText: e.QuestionText,
		QuestionType: e.QuestionType,
		Options:      []string(e.Options),
		Required:     e.Required,
	}
}

func toTemplateModels(entities []*AnamnesisTemplateEntity) []*model.AnamnesisTemplate {
	if entities == nil {
		return nil
	}
	models := make([]*model.AnamnesisTemplate, len(entities))
	for i, e := range entities {
		models[i] = toTemplateModel(e)
	}
	return models
}

func toResponseEntity(m *model.AnamnesisResponse) *AnamnesisResponseEntity {
	if m == nil {
		return nil
	}
	entity := &AnamnesisResponseEntity{
		ID:          m.ID,
		TemplateID:  m.TemplateID,
		DogID:       m.DogID,
		SubmittedAt: m.SubmittedAt,
	}
	for _, a := range m.Answers {
		entity.Answers = append(entity.Answers, &AnamnesisAnswerEntity{
			ID:            a.ID,
			ResponseID:    a.ResponseID,
			QuestionID:    a.QuestionID,
			AnswerText:    a.AnswerText,
			AnswerOptions: pq.StringArray(a.AnswerOptions),
		})
	}
	return entity
}

func toResponseModel(e *AnamnesisResponseEntity) *model.AnamnesisResponse {
	if e == nil {
		return nil
	}
	m := &model.AnamnesisResponse{
		ID:          e.ID,
		TemplateID:  e.TemplateID,
		DogID:       e.DogID,
		SubmittedAt: e.SubmittedAt,
	}
	for _, a := range e.Answers {
		m.Answers = append(m.Answers, &model.AnamnesisAnswer{
			ID:            a.ID,
			ResponseID:    a.ResponseID,
			QuestionID:    a.QuestionID,
			AnswerText:    a.AnswerText,
			AnswerOptions: []string(a.AnswerOptions),
		})
	}
	return m
}

func toResponseModels(entities []*AnamnesisResponseEntity) []*model.AnamnesisResponse {
	if entities == nil {
		return nil
	}
	models := make([]*model.AnamnesisResponse, len(entities))
	for i, e := range entities {
		models[i] = toResponseModel(e)
	}
	return models
}
