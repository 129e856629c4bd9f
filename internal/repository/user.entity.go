package repository

import (
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
)

type UserEntity struct {
	ID           int64      `gorm:"primaryKey;autoIncrement;column:id"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Name         string     `gorm:"column:name;not null"`
	Role         model.Role `gorm:"column:role;not null;default:'customer'"`
	Active       bool       `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (UserEntity) TableName() string { return "users" }

func toUserEntity(m *model.User) *UserEntity {
	if m == nil {
		return nil
	}
	return &UserEntity{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         m.Role,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Name:         e.Name,
		Role:         e.Role,
		Active:       e.Active,
		CreatedAt:    e.CreatedAt,
	}
}
