package model

import (
	"strings"
	"time"
)

type CreditPackage struct {
	ID           int64     `json:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Name         string    `json:"name"          gorm:"column:name;not null"`
	Description  string    `json:"description"   gorm:"column:description"`
	TotalCredits int       `json:"total_credits" gorm:"column:total_credits;not null"`
	Price        float64   `json:"price"         gorm:"column:price;not null"`
	ValidityDays *int      `json:"validity_days" gorm:"column:validity_days"`
	Active       bool      `json:"active"        gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time `json:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (CreditPackage) TableName() string { return "credit_packages" }

type CreditPackageCreateRequest struct {
	Name         string
	Description  string
	TotalCredits int
	Price        float64
	ValidityDays *int
}

func (p CreditPackageCreateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	if p.TotalCredits < 1 {
		return invalid("total_credits must be at least 1")
	}
	if p.Price < 0 {
		return invalid("price must not be negative")
	}
	if p.ValidityDays != nil && *p.ValidityDays < 1 {
		return invalid("validity_days must be at least 1")
	}
	return nil
}

// CreditStatus is the lifecycle state of a purchased credit balance.
// remaining == 0 implies "used".
type CreditStatus string

const (
	CreditStatusActive  CreditStatus = "active"
	CreditStatusExpired CreditStatus = "expired"
	CreditStatusUsed    CreditStatus = "used"
)

type CustomerCredit struct {
	ID               int64          `json:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID       int64          `json:"customer_id"       gorm:"column:customer_id;not null;index"`
	Customer         *Customer      `json:"-"                 gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	CreditPackageID  int64          `json:"credit_package_id" gorm:"column:credit_package_id;not null;index"`
	CreditPackage    *CreditPackage `json:"-"                 gorm:"foreignKey:CreditPackageID;references:ID"`
	TotalCredits     int            `json:"total_credits"     gorm:"column:total_credits;not null"`
	RemainingCredits int            `json:"remaining_credits" gorm:"column:remaining_credits;not null"`
	PurchaseDate     time.Time      `json:"purchase_date"     gorm:"column:purchase_date;not null"`
	ExpirationDate   *time.Time     `json:"expiration_date"   gorm:"column:expiration_date"`
	Status           CreditStatus   `json:"status"            gorm:"column:status;not null;default:'active'"`
	CreatedAt        time.Time      `json:"created_at"        gorm:"column:created_at;autoCreateTime"`
}

func (CustomerCredit) TableName() string { return "customer_credits" }

type CreditPurchaseRequest struct {
	CustomerID      int64
	CreditPackageID int64
}

func (p CreditPurchaseRequest) Validate() error {
	if p.CustomerID == 0 {
		return invalid("customer_id is required")
	}
	if p.CreditPackageID == 0 {
		return invalid("credit_package_id is required")
	}
	return nil
}

type CreditUpdateRequest struct {
	RemainingCredits *int
	ExpirationDate   *time.Time
}

type CreditFilter struct {
	CustomerID *int64
	Status     *CreditStatus
	PerPage    int
	Page       int
	Desc       bool
}
