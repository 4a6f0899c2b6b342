package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Role         string    `json:"role" gorm:"default:'admin'"` // super_admin, admin, viewer
	Active       bool      `json:"active" gorm:"default:true"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (AdminUser) TableName() string {
	return "admin_users"
}

type AdminRole string

const (
	SuperAdmin AdminRole = "super_admin"
	Admin      AdminRole = "admin"
	Viewer     AdminRole = "viewer"
)
