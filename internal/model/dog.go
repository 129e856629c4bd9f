package model

import (
	"strings"
	"time"
)

type Dog struct {
	ID         int64      `json:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID int64      `json:"customer_id" gorm:"column:customer_id;not null;index"`
	Customer   *Customer  `json:"-"           gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Name       string     `json:"name"        gorm:"column:name;not null"`
	Breed      string     `json:"breed"       gorm:"column:breed"`
	BirthDate  *time.Time `json:"birth_date"  gorm:"column:birth_date"`
	Gender     string     `json:"gender"      gorm:"column:gender"`
	Neutered   bool       `json:"neutered"    gorm:"column:neutered;not null;default:false"`
	Notes      string     `json:"notes"       gorm:"column:notes"`
	CreatedAt  time.Time  `json:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (Dog) TableName() string { return "dogs" }

type DogCreateRequest struct {
	CustomerID int64
	Name       string
	Breed      string
	BirthDate  *time.Time
	Gender     string
	Neutered   bool
	Notes      string
}

func (p DogCreateRequest) Validate() error {
	if p.CustomerID == 0 {
		return invalid("customer_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	return nil
}

type DogFilter struct {
	CustomerID *int64
	Search     *string // matches name or breed
	PerPage    int
	Page       int
	Desc       bool
}
