package services

import (
	"context"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type AnamnesisService struct {
	forms *repository.AnamnesisRepository
	dogs  *repository.DogRepository
}

func NewAnamnesisService(forms *repository.AnamnesisRepository, dogs *repository.DogRepository) *AnamnesisService {
	return &AnamnesisService{forms: forms, dogs: dogs}
}

func (s *AnamnesisService) CreateTemplate(ctx context.Context, req model.TemplateCreateRequest) (*model.AnamnesisTemplate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	questions := make([]*model.AnamnesisQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, &model.AnamnesisQuestion{
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      q.Options,
			Required:     q.Required,
		})
	}

	return s.forms.CreateTemplate(ctx, &model.AnamnesisTemplate{
		TrainerID:   req.TrainerID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		Questions:   questions,
	})
}

func (s *AnamnesisService) GetTemplate(ctx context.Context, id int64) (*model.AnamnesisTemplate, error) {
	return s.forms.GetTemplate(ctx, id)
}

func (s *AnamnesisService) ListTemplates(ctx context.Context, f model.TemplateFilter) ([]*model.AnamnesisTemplate, int64, error) {
	return s.forms.ListTemplates(ctx, f)
}

func (s *AnamnesisService) SetTemplateActive(ctx context.Context, id int64, active bool) error {
	return s.forms.SetTemplateActive(ctx, id, active)
}

func (s *AnamnesisService) DeleteTemplate(ctx context.Context, id int64) error {
	return s.forms.DeleteTemplate(ctx, id)
}

// SubmitResponse files an intake questionnaire for a dog against an active
// template.
func (s *AnamnesisService) SubmitResponse(ctx context.Context, req model.ResponseCreateRequest) (*model.AnamnesisResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	template, err := s.forms.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !template.Active {
		return nil, ErrTemplateInactive
	}
	if _, err := s.dogs.Get(ctx, req.DogID); err != nil {
		return nil, err
	}

	answers := make([]*model.AnamnesisAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, &model.AnamnesisAnswer{
			QuestionID:    a.QuestionID,
			AnswerText:    a.AnswerText,
			AnswerOptions: a.AnswerOptions,
		})
	}

	return s.forms.CreateResponse(ctx, &model.AnamnesisResponse{
		TemplateID:  template.ID,
		DogID:       req.DogID,
		SubmittedAt: time.Now(),
		Answers:     answers,
	})
}

func (s *AnamnesisService) GetResponse(ctx context.Context, id int64) (*model.AnamnesisResponse, error) {
	return s.forms.GetResponse(ctx, id)
}

func (s *AnamnesisService) ListResponses(ctx context.Context, f model.ResponseFilter) ([]*model.AnamnesisResponse, int64, error) {
	return s.forms.ListResponses(ctx, f)
}

// UpdateResponse replaces a filed questionnaire's answers. The template and
// dog stay fixed; correcting those means withdrawing and refiling.
func (s *AnamnesisService) UpdateResponse(ctx context.Context, id int64, req model.ResponseUpdateRequest) (*model.AnamnesisResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	answers := make([]*model.AnamnesisAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, &model.AnamnesisAnswer{
			QuestionID:    a.QuestionID,
			AnswerText:    a.AnswerText,
			AnswerOptions: a.AnswerOptions,
		})
	}

	if err := s.forms.ReplaceAnswers(ctx, id, answers, time.Now()); err != nil {
		return nil, err
	}
	return s.forms.GetResponse(ctx, id)
}

func (s *AnamnesisService) DeleteResponse(ctx context.Context, id int64) error {
	return s.forms.DeleteResponse(ctx, id)
}
