package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrAccountInactive = errors.New("account is not active")
)

type User struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	UserID string `gorm:"size:32;uniqueIndex:ux_users_user_id_active" json:"user_id"`
	Email  string `gorm:"size:255" json:"email"`
	Name   string `gorm:"size:255" json:"name"`
	// Flipped by the KYC gate; everything client-facing checks it.
	IsAccountActive bool           `gorm:"default:false" json:"is_account_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
