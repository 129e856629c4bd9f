package model

import (
	"strings"
	"time"
)

// Role is the flat authorization role of a user. There is no hierarchy;
// policies switch over the three values.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTrainer  Role = "trainer"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	Email        string    `json:"email"         gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `json:"-"             gorm:"column:password_hash;not null"`
	Name         string    `json:"name"          gorm:"column:name;not null"`
	Role         Role      `json:"role"          gorm:"column:role;not null;default:'customer'"`
	Active       bool      `json:"active"        gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time `json:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

type UserCreateRequest struct {
	Email    string
	Password string
	Name     string
}

func (p UserCreateRequest) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return invalid("email is required")
	}
	if len(p.Password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	return nil
}
