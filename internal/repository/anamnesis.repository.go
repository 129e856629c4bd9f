package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound = errors.New("anamnesis template not found")
	ErrResponseNotFound = errors.New("anamnesis response not found")
)

type AnamnesisRepository struct {
	*pg.DB
}

func NewAnamnesisRepository(db *pg.DB) *AnamnesisRepository {
	return &AnamnesisRepository{db}
}

/* ------------------------------ templates --------------------------------- */

// CreateTemplate writes the template and its questions in one transaction.
// Question positions are assigned from slice order.
func (r *AnamnesisRepository) CreateTemplate(ctx context.Context, t *model.AnamnesisTemplate) (*model.AnamnesisTemplate, error) {
	entity := toTemplateEntity(t)
	for i, q := range entity.Questions {
		q.Position = i + 1
	}
	err := r.WithinTransaction(ctx, func(txCtx context.Context) error {
		return r.Write(txCtx).Create(entity).Error
	})
	if err != nil {
		return nil, err
	}
	return toTemplateModel(entity), nil
}

func (r *AnamnesisRepository) GetTemplate(ctx context.Context, id int64) (*model.AnamnesisTemplate, error) {
	var entity AnamnesisTemplateEntity
	err := r.Read(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return toTemplateModel(&entity), nil
}

// SetTemplateActive toggles availability without touching the questions.
func (r *AnamnesisRepository) SetTemplateActive(ctx context.Context, id int64, active bool) error {
	res := r.Write(ctx).Model(&AnamnesisTemplateEntity{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *AnamnesisRepository) DeleteTemplate(ctx context.Context, id int64) error {
	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := r.Write(txCtx).Where("template_id = ?", id).Delete(&AnamnesisQuestionEntity{}).Error; err != nil {
			return err
		}
		res := r.Write(txCtx).Where("id = ?", id).Delete(&AnamnesisTemplateEntity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTemplateNotFound
		}
		return nil
	})
}

func (r *AnamnesisRepository) ListTemplates(ctx context.Context, f model.TemplateFilter) ([]*model.AnamnesisTemplate, int64, error) {
	q := r.Read(ctx).Model(&AnamnesisTemplateEntity{})

	if f.TrainerID != nil {
		q = q.Where("trainer_id = ?", *f.TrainerID)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*AnamnesisTemplateEntity
	err := q.Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order(orderClause("created_at", f.Desc)).
		Limit(limit).Offset(offset).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toTemplateModels(entities), total, nil
}

/* ------------------------------ responses --------------------------------- */

func (r *AnamnesisRepository) CreateResponse(ctx context.Context, resp *model.AnamnesisResponse) (*model.AnamnesisResponse, error) {
	entity := toResponseEntity(resp)
	err := r.WithinTransaction(ctx, func(txCtx context.Context) error {
		return r.Write(txCtx).Create(entity).Error
	})
	if err != nil {
		return nil, err
	}
	return toResponseModel(entity), nil
}

func (r *AnamnesisRepository) GetResponse(ctx context.Context, id int64) (*model.AnamnesisResponse, error) {
	var entity AnamnesisResponseEntity
	err := r.Read(ctx).
		Preload("Answers").
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, err
	}
	return toResponseModel(&entity), nil
}

// ReplaceAnswers swaps out a response's answer set and refreshes the
// submission time, all in one transaction.
func (r *AnamnesisRepository) ReplaceAnswers(ctx context.Context, responseID int64, answers []*model.AnamnesisAnswer, submittedAt time.Time) error {
	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		res := r.Write(txCtx).Model(&AnamnesisResponseEntity{}).
			Where("id = ?", responseID).
			Update("submitted_at", submittedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrResponseNotFound
		}

		if err := r.Write(txCtx).Where("response_id = ?", responseID).Delete(&AnamnesisAnswerEntity{}).Error; err != nil {
			return err
		}

		entities := make([]*AnamnesisAnswerEntity, 0, len(answers))
		for _, a := range answers {
			entities = append(entities, &AnamnesisAnswerEntity{
				ResponseID:    responseID,
				QuestionID:    a.QuestionID,
				AnswerText:    a.AnswerText,
				AnswerOptions: pq.StringArray(a.AnswerOptions),
			})
		}
		return r.Write(txCtx).Create(&entities).Error
	})
}

func (r *AnamnesisRepository) DeleteResponse(ctx context.Context, id int64) error {
	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := r.Write(txCtx).Where("response_id = ?", id).Delete(&AnamnesisAnswerEntity{}).Error; err != nil {
			return err
		}
		res := r.Write(txCtx).Where("id = ?", id).Delete(&AnamnesisResponseEntity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrResponseNotFound
		}
		return nil
	})
}

func (r *AnamnesisRepository) ListResponses(ctx context.Context, f model.ResponseFilter) ([]*model.AnamnesisResponse, int64, error) {
	q := r.Read(ctx).Model(&AnamnesisResponseEntity{})

	if f.TemplateID != nil {
		q = q.Where("template_id = ?", *f.TemplateID)
	}
	if f.DogID != nil {
		q = q.Where("dog_id = ?", *f.DogID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*AnamnesisResponseEntity
	err := q.Preload("Answers").
		Order(orderClause("submitted_at", f.Desc)).
		Limit(limit).Offset(offset).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toResponseModels(entities), total, nil
}
