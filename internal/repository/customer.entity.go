package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type CustomerEntity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    *int64    `gorm:"column:user_id;index"`
	User      *UserEntity `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Phone     string    `gorm:"column:phone"`
	Street    string    `gorm:"column:street"`
	ZipCode   string    `gorm:"column:zip_code"`
	City      string    `gorm:"column:city"`
	Notes     string    `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string { return "customers" }

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:        m.ID,
		UserID:    m.UserID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Street:    m.Street,
		ZipCode:   m.ZipCode,
		City:      m.City,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:        e.ID,
		UserID:    e.UserID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Phone:     e.Phone,
		Street:    e.Street,
		ZipCode:   e.ZipCode,
		City:      e.City,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
