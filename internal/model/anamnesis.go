package model

import (
	"strings"
	"time"
)

// QuestionType discriminates how an anamnesis question is answered.
type QuestionType string

const (
	QuestionTypeText         QuestionType = "text"
	QuestionTypeNumber       QuestionType = "number"
	QuestionTypeBoolean      QuestionType = "boolean"
	QuestionTypeSingleChoice QuestionType = "single_choice"
	QuestionTypeMultiChoice  QuestionType = "multi_choice"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeNumber, QuestionTypeBoolean,
		QuestionTypeSingleChoice, QuestionTypeMultiChoice:
		return true
	}
	return false
}

// AnamnesisTemplate is a trainer-authored intake questionnaire with ordered
// questions. Responses are filed per dog.
type AnamnesisTemplate struct {
	ID          int64                `json:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	TrainerID   int64                `json:"trainer_id"  gorm:"column:trainer_id;not null;index"`
	Name        string               `json:"name"        gorm:"column:name;not null"`
	Description string               `json:"description" gorm:"column:description"`
	Active      bool                 `json:"active"      gorm:"column:active;not null;default:true"`
	Questions   []*AnamnesisQuestion `json:"questions"   gorm:"foreignKey:TemplateID"`
	CreatedAt   time.Time            `json:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (AnamnesisTemplate) TableName() string { return "anamnesis_templates" }

type AnamnesisQuestion struct {
	ID           int64        `json:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	TemplateID   int64        `json:"template_id"   gorm:"column:template_id;not null;index"`
	Position     int          `json:"position"      gorm:"column:position;not null"`
	QuestionText string       `json:"question_text" gorm:"column:question_text;not null"`
	QuestionType QuestionType `json:"question_type" gorm:"column:question_type;not null"`
	Options      []string     `json:"options"       gorm:"-"` // persisted as text[] in the entity layer
	Required     bool         `json:"required"      gorm:"column:required;not null;default:false"`
}

func (AnamnesisQuestion) TableName() string { return "anamnesis_questions" }

type AnamnesisResponse struct {
	ID          int64              `json:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	TemplateID  int64              `json:"template_id"  gorm:"column:template_id;not null;index"`
	DogID       int64              `json:"dog_id"       gorm:"column:dog_id;not null;index"`
	SubmittedAt time.Time          `json:"submitted_at" gorm:"column:submitted_at;not null"`
	Answers     []*AnamnesisAnswer `json:"answers"      gorm:"foreignKey:ResponseID"`
}

func (AnamnesisResponse) TableName() string { return "anamnesis_responses" }

type AnamnesisAnswer struct {
	ID            int64    `json:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	ResponseID    int64    `json:"response_id"    gorm:"column:response_id;not null;index"`
	QuestionID    int64    `json:"question_id"    gorm:"column:question_id;not null"`
	AnswerText    string   `json:"answer_text"    gorm:"column:answer_text"`
	AnswerOptions []string `json:"answer_options" gorm:"-"` // selected options for choice questions
}

func (AnamnesisAnswer) TableName() string { return "anamnesis_answers" }

type QuestionInput struct {
	QuestionText string
	QuestionType QuestionType
	Options      []string
	Required     bool
}

type TemplateCreateRequest struct {
	TrainerID   int64
	Name        string
	Description string
	Questions   []QuestionInput
}

func (p TemplateCreateRequest) Validate() error {
	if p.TrainerID == 0 {
		return invalid("trainer_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	for _, q := range p.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return invalid("question_text is required")
		}
		if !q.QuestionType.Valid() {
			return invalid("invalid question_type")
		}
		switch q.QuestionType {
		case QuestionTypeSingleChoice, QuestionTypeMultiChoice:
			if len(q.Options) < 2 {
				return invalid("choice questions need at least two options")
			}
		}
	}
	return nil
}

type AnswerInput struct {
	QuestionID    int64
	AnswerText    string
	AnswerOptions []string
}

type ResponseCreateRequest struct {
	TemplateID int64
	DogID      int64
	Answers    []AnswerInput
}

func (p ResponseCreateRequest) Validate() error {
	if p.TemplateID == 0 {
		return invalid("template_id is required")
	}
	if p.DogID == 0 {
		return invalid("dog_id is required")
	}
	if len(p.Answers) == 0 {
		return invalid("at least one answer is required")
	}
	return nil
}

type ResponseUpdateRequest struct {
	Answers []AnswerInput
}

func (p ResponseUpdateRequest) Validate() error {
	if len(p.Answers) == 0 {
		return invalid("at least one answer is required")
	}
	return nil
}

type TemplateFilter struct {
	TrainerID *int64
	Active    *bool
	PerPage   int
	Page      int
	Desc      bool
}

type ResponseFilter struct {
	TemplateID *int64
	DogID      *int64
	PerPage    int
	Page       int
	Desc       bool
}
