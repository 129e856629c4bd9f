package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type VaccinationEntity struct {
	ID              int64      `gorm:"primaryKey;autoIncrement;column:id"`
	DogID           int64      `gorm:"column:dog_id;not null;index"`
	Dog             *DogEntity `gorm:"foreignKey:DogID;references:ID;constraint:OnDelete:CASCADE"`
	VaccineName     string     `gorm:"column:vaccine_name;not null"`
	VaccinationDate time.Time  `gorm:"column:vaccination_date;not null"`
	ExpiryDate      *time.Time `gorm:"column:expiry_date"`
	Veterinarian    string     `gorm:"column:veterinarian"`
	Notes           string     `gorm:"column:notes"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (VaccinationEntity) TableName() string { return "vaccinations" }

func toVaccinationEntity(m *model.Vaccination) *VaccinationEntity {
	if m == nil {
		return nil
	}
	return &VaccinationEntity{
		ID:              m.ID,
		DogID:           m.DogID,
		VaccineName:     m.VaccineName,
		VaccinationDate: m.VaccinationDate,
		ExpiryDate:      m.ExpiryDate,
		Veterinarian:    m.Veterinarian,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}

func toVaccinationModel(e *VaccinationEntity) *model.Vaccination {
	if e == nil {
		return nil
	}
	return &model.Vaccination{
		ID:              e.ID,
		DogID:           e.DogID,
		Dog:             toDogModel(e.Dog),
		VaccineName:     e.VaccineName,
		VaccinationDate: e.VaccinationDate,
		ExpiryDate:      e.ExpiryDate,
		Veterinarian:    e.Veterinarian,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt,
	}
}

func toVaccinationModels(entities []*VaccinationEntity) []*model.Vaccination {
	if entities == nil {
		return nil
	}
	models := make([]*model.Vaccination, len(entities))
	for i, e := range entities {
		models[i] = toVaccinationModel(e)
	}
	return models
}
