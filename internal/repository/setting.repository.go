package repository

import (
	"context"
	"errors"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingRepository struct {
	*pg.DB
}

func NewSettingRepository(db *pg.DB) *SettingRepository {
	return &SettingRepository{db}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var entity SettingEntity
	err := r.Read(ctx).Where("key = ?", key).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return toSettingModel(&entity), nil
}

// Set upserts on the key column.
func (r *SettingRepository) Set(ctx context.Context, s *model.Setting) (*model.Setting, error) {
	entity := toSettingEntity(s)
	err := r.Write(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "updated_at"}),
		}).
		Create(entity).
		Error
	if err != nil {
		return nil, err
	}
	return toSettingModel(entity), nil
}

func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	res := r.Write(ctx).Where("key = ?", key).Delete(&SettingEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return nil
}

func (r *SettingRepository) List(ctx context.Context) ([]*model.Setting, error) {
	var entities []*SettingEntity
	if err := r.Read(ctx).Order("key ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toSettingModels(entities), nil
}
