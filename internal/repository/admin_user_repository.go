package repository

import (
	"lpg_assistant/internal/models"

	"gorm.io/gorm"
)

type AdminUserRepository interface {
	Create(user *models.AdminUser) error
	GetByEmail(email string) (*models.AdminUser, error)
	GetAll() ([]models.AdminUser, error)
	Count() (int64, error)
}

type adminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(user *models.AdminUser) error {
	return r.db.Create(user).Error
}

func (r *adminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminUserRepository) GetAll() ([]models.AdminUser, error) {
	var users []models.AdminUser
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *adminUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.AdminUser{}).Count(&count).Error
	return count, err
}
