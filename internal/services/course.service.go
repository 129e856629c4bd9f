package services

import (
	"context"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
)

type CourseService struct {
	courses *repository.CourseRepository
}

func NewCourseService(courses *repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

func (s *CourseService) Create(ctx context.Context, req model.CourseCreateRequest) (*model.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.courses.Create(ctx, &model.Course{
		TrainerID:       req.TrainerID,
		Title:           req.Title,
		Description:     req.Description,
		CourseType:      req.CourseType,
		MaxParticipants: req.MaxParticipants,
		Price:           req.Price,
		Active:          true,
	})
}

func (s *CourseService) Get(ctx context.Context, id int64) (*model.Course, error) {
	return s.courses.Get(ctx, id)
}

func (s *CourseService) List(ctx context.Context, f model.CourseFilter) ([]*model.Course, int64, error) {
	return s.courses.List(ctx, f)
}

func (s *CourseService) Update(ctx context.Context, c *model.Course) (*model.Course, error) {
	return s.courses.Update(ctx, c)
}

func (s *CourseService) Delete(ctx context.Context, id int64) error {
	return s.courses.Delete(ctx, id)
}
