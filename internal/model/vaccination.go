package model

import (
	"strings"
	"time"
)

type Vaccination struct {
	ID              int64      `json:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	DogID           int64      `json:"dog_id"           gorm:"column:dog_id;not null;index"`
	Dog             *Dog       `json:"-"                gorm:"foreignKey:DogID;references:ID;constraint:OnDelete:CASCADE"`
	VaccineName     string     `json:"vaccine_name"     gorm:"column:vaccine_name;not null"`
	VaccinationDate time.Time  `json:"vaccination_date" gorm:"column:vaccination_date;not null"`
	ExpiryDate      *time.Time `json:"expiry_date"      gorm:"column:expiry_date"`
	Veterinarian    string     `json:"veterinarian"     gorm:"column:veterinarian"`
	Notes           string     `json:"notes"            gorm:"column:notes"`
	CreatedAt       time.Time  `json:"created_at"       gorm:"column:created_at;autoCreateTime"`
}

func (Vaccination) TableName() string { return "vaccinations" }

type VaccinationCreateRequest struct {
	DogID           int64
	VaccineName     string
	VaccinationDate time.Time
	ExpiryDate      *time.Time
	Veterinarian    string
	Notes           string
}

func (p VaccinationCreateRequest) Validate() error {
	if p.DogID == 0 {
		return invalid("dog_id is required")
	}
	if strings.TrimSpace(p.VaccineName) == "" {
		return invalid("vaccine_name is required")
	}
	if p.VaccinationDate.IsZero() {
		return invalid("vaccination_date is required")
	}
	return nil
}

type VaccinationFilter struct {
	DogID         *int64
	ExpiresBefore *time.Time // expiring-soon listing
	PerPage       int
	Page          int
	Desc          bool
}
