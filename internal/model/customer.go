package model

import (
	"strings"
	"time"
)

type Customer struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	UserID    *int64    `json:"user_id"    gorm:"column:user_id;index"`
	User      *User     `json:"-"          gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`
	FirstName string    `json:"first_name" gorm:"column:first_name;not null"`
	LastName  string    `json:"last_name"  gorm:"column:last_name;not null"`
	Email     string    `json:"email"      gorm:"column:email;not null"`
	Phone     string    `json:"phone"      gorm:"column:phone"`
	Street    string    `json:"street"     gorm:"column:street"`
	ZipCode   string    `json:"zip_code"   gorm:"column:zip_code"`
	City      string    `json:"city"       gorm:"column:city"`
	Notes     string    `json:"notes"      gorm:"column:notes"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "customers" }

type CustomerCreateRequest struct {
	UserID    *int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Street    string
	ZipCode   string
	City      string
	Notes     string
}

func (p CustomerCreateRequest) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return invalid("first_name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return invalid("last_name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return invalid("email is required")
	}
	return nil
}

type CustomerUpdateRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Street    *string
	ZipCode   *string
	City      *string
	Notes     *string
}

// CustomerFilter controls List queries.
type CustomerFilter struct {
	Search  *string // matches first name, last name or email
	UserID  *int64
	PerPage int // default 15
	Page    int // 1-based
	Desc    bool
}
