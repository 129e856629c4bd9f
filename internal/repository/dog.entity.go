package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type DogEntity struct {
	ID         int64           `gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID int64           `gorm:"column:customer_id;not null;index"`
	Customer   *CustomerEntity `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Name       string          `gorm:"column:name;not null"`
	Breed      string          `gorm:"column:breed"`
	BirthDate  *time.Time      `gorm:"column:birth_date"`
	Gender     string          `gorm:"column:gender"`
	Neutered   bool            `gorm:"column:neutered;not null;default:false"`
	Notes      string          `gorm:"column:notes"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (DogEntity) TableName() string { return "dogs" }

func toDogEntity(m *model.Dog) *DogEntity {
	if m == nil {
		return nil
	}
	return &DogEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Name:       m.Name,
		Breed:      m.Breed,
		BirthDate:  m.BirthDate,
		Gender:     m.Gender,
		Neutered:   m.Neutered,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}

func toDogModel(e *DogEntity) *model.Dog {
	if e == nil {
		return nil
	}
	return &model.Dog{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Name:       e.Name,
		Breed:      e.Breed,
		BirthDate:  e.BirthDate,
		Gender:     e.Gender,
		Neutered:   e.Neutered,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}

func toDogModels(entities []*DogEntity) []*model.Dog {
	if entities == nil {
		return nil
	}
	models := make([]*model.Dog, len(entities))
	for i, e := range entities {
		models[i] = toDogModel(e)
	}
	return models
}
