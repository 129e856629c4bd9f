package repository

import (
	"context"
	"errors"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
)

var ErrCourseNotFound = errors.New("course not found")

type CourseRepository struct {
	*pg.DB
}

func NewCourseRepository(db *pg.DB) *CourseRepository {
	return &CourseRepository{db}
}

func (r *CourseRepository) Create(ctx context.Context, c *model.Course) (*model.Course, error) {
	entity := toCourseEntity(c)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toCourseModel(entity), nil
}

func (r *CourseRepository) Get(ctx context.Context, id int64) (*model.Course, error) {
	var entity CourseEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return toCourseModel(&entity), nil
}

func (r *CourseRepository) Update(ctx context.Context, c *model.Course) (*model.Course, error) {
	res := r.Write(ctx).Model(&CourseEntity{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"title":            c.Title,
		"description":      c.Description,
		"course_type":      c.CourseType,
		"max_participants": c.MaxParticipants,
		"price":            c.Price,
		"active":           c.Active,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCourseNotFound
	}
	return r.Get(ctx, c.ID)
}

func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&CourseEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) List(ctx context.Context, f model.CourseFilter) ([]*model.Course, int64, error) {
	q := r.Read(ctx).Model(&CourseEntity{})

	if f.TrainerID != nil {
		q = q.Where("trainer_id = ?", *f.TrainerID)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.Search != nil && *f.Search != "" {
		q = q.Where("title LIKE ?", "%"+*f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*CourseEntity
	if err := q.Order(orderClause("created_at", f.Desc)).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toCourseModels(entities), total, nil
}
