package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type SettingEntity struct {
	Key       string            `gorm:"primaryKey;column:key"`
	Value     string            `gorm:"column:value;not null"`
	ValueType model.SettingType `gorm:"column:value_type;not null;default:'string'"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (SettingEntity) TableName() string { return "settings" }

func toSettingEntity(m *model.Setting) *SettingEntity {
	if m == nil {
		return nil
	}
	return &SettingEntity{
		Key:       m.Key,
		Value:     m.Value,
		ValueType: m.ValueType,
		UpdatedAt: m.UpdatedAt,
	}
}

func toSettingModel(e *SettingEntity) *model.Setting {
	if e == nil {
		return nil
	}
	return &model.Setting{
		Key:       e.Key,
		Value:     e.Value,
		ValueType: e.ValueType,
		UpdatedAt: e.UpdatedAt,
	}
}

func toSettingModels(entities []*SettingEntity) []*model.Setting {
	if entities == nil {
		return nil
	}
	models := make([]*model.Setting, len(entities))
	for i, e := range entities {
		models[i] = toSettingModel(e)
	}
	return models
}
