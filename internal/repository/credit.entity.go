package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type CreditPackageEntity struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name         string    `gorm:"column:name;not null"`
	Description  string    `gorm:"column:description"`
	TotalCredits int       `gorm:"column:total_credits;not null"`
	Price        float64   `gorm:"column:price;not null"`
	ValidityDays *int      `gorm:"column:validity_days"`
	Active       bool      `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CreditPackageEntity) TableName() string { return "credit_packages" }

type CustomerCreditEntity struct {
	ID               int64                `gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID       int64                `gorm:"column:customer_id;not null;index"`
	Customer         *CustomerEntity      `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	CreditPackageID  int64                `gorm:"column:credit_package_id;not null;index"`
	CreditPackage    *CreditPackageEntity `gorm:"foreignKey:CreditPackageID;references:ID"`
	TotalCredits     int                  `gorm:"column:total_credits;not null"`
	RemainingCredits int                  `gorm:"column:remaining_credits;not null"`
	PurchaseDate     time.Time            `gorm:"column:purchase_date;not null"`
	ExpirationDate   *time.Time           `gorm:"column:expiration_date"`
	Status           model.CreditStatus   `gorm:"column:status;not null;default:'active'"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (CustomerCreditEntity) TableName() string { return "customer_credits" }

func toPackageEntity(m *model.CreditPackage) *CreditPackageEntity {
	if m == nil {
		return nil
	}
	return &CreditPackageEntity{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		TotalCredits: m.TotalCredits,
		Price:        m.Price,
		ValidityDays: m.ValidityDays,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
	}
}

func toPackageModel(e *CreditPackageEntity) *model.CreditPackage {
	if e == nil {
		return nil
	}
	return &model.CreditPackage{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		TotalCredits: e.TotalCredits,
		Price:        e.Price,
		ValidityDays: e.ValidityDays,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
	}
}

func toPackageModels(entities []*CreditPackageEntity) []*model.CreditPackage {
	if entities == nil {
		return nil
	}
	models := make([]*model.CreditPackage, len(entities))
	for i, e := range entities {
		models[i] = toPackageModel(e)
	}
	return models
}

func toCreditEntity(m *model.CustomerCredit) *CustomerCreditEntity {
	if m == nil {
		return nil
	}
	return &CustomerCreditEntity{
		ID:               m.ID,
		CustomerID:       m.CustomerID,
		CreditPackageID:  m.CreditPackageID,
		TotalCredits:     m.TotalCredits,
		RemainingCredits: m.RemainingCredits,
		PurchaseDate:     m.PurchaseDate,
		ExpirationDate:   m.ExpirationDate,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
	}
}

func toCreditModel(e *CustomerCreditEntity) *model.CustomerCredit {
	if e == nil {
		return nil
	}
	return &model.CustomerCredit{
		ID:               e.ID,
		CustomerID:       e.CustomerID,
		CreditPackageID:  e.CreditPackageID,
		TotalCredits:     e.TotalCredits,
		RemainingCredits: e.RemainingCredits,
		PurchaseDate:     e.PurchaseDate,
		ExpirationDate:   e.ExpirationDate,
		Status:           e.Status,
		CreatedAt:        e.CreatedAt,
	}
}

func toCreditModels(entities []*CustomerCreditEntity) []*model.CustomerCredit {
	if entities == nil {
		return nil
	}
	models := make([]*model.CustomerCredit, len(entities))
	for i, e := range entities {
		models[i] = toCreditModel(e)
	}
	return models
}
