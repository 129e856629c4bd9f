package repository

import (
	"context"
	"errors"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSessionNotFound = errors.New("training session not found")

type SessionRepository struct {
	*pg.DB
}

func NewSessionRepository(db *pg.DB) *SessionRepository {
	return &SessionRepository{db}
}

func (r *SessionRepository) Create(ctx context.Context, s *model.TrainingSession) (*model.TrainingSession, error) {
	entity := toSessionEntity(s)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toSessionModel(entity), nil
}

func (r *SessionRepository) Get(ctx context.Context, id int64) (*model.TrainingSession, error) {
	var entity TrainingSessionEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return toSessionModel(&entity), nil
}

// GetForUpdate loads the session row under SELECT FOR UPDATE. Booking
// creation serializes its capacity check on this lock; callers must already
// be inside WithinTransaction.
func (r *SessionRepository) GetForUpdate(ctx context.Context, id int64) (*model.TrainingSession, error) {
	var entity TrainingSessionEntity
	err := r.Write(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return toSessionModel(&entity), nil
}

func (r *SessionRepository) Update(ctx context.Context, s *model.TrainingSession) (*model.TrainingSession, error) {
	res := r.Write(ctx).Model(&TrainingSessionEntity{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"course_id":        s.CourseID,
		"session_date":     s.SessionDate,
		"start_time":       s.StartTime,
		"end_time":         s.EndTime,
		"max_participants": s.MaxParticipants,
		"location":         s.Location,
		"notes":            s.Notes,
		"status":           s.Status,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrSessionNotFound
	}
	return r.Get(ctx, s.ID)
}

func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&TrainingSessionEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) List(ctx context.Context, f model.SessionFilter) ([]*model.TrainingSession, int64, error) {
	q := r.Read(ctx).Model(&TrainingSessionEntity{})

	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	if f.TrainerID != nil {
		q = q.Where("trainer_id = ?", *f.TrainerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("session_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("session_date < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := pageWindow(f.PerPage, f.Page)
	var entities []*TrainingSessionEntity
	if err := q.Order(orderClause("session_date", f.Desc)).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toSessionModels(entities), total, nil
}
