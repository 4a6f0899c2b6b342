package services

import (
	"errors"
	"log"

	"lpg_assistant/internal/models"
	"lpg_assistant/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers unknown email, wrong password and deactivated
// accounts alike, so login responses never reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminService interface {
	Login(email, password string) (*models.AdminUser, error)
	CreateAdmin(name, email, role, password string) (*models.AdminUser, error)
	GetAllAdmins() ([]models.AdminUser, error)
	EnsureDefaultAdmin(email, password string) error
}

type adminService struct {
	adminRepo repository.AdminUserRepository
}

func NewAdminService(adminRepo repository.AdminUserRepository) AdminService {
	return &adminService{adminRepo: adminRepo}
}

func (s *adminService) Login(email, password string) (*models.AdminUser, error) {
	user, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *adminService) CreateAdmin(name, email, role, password string) (*models.AdminUser, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = string(models.Admin)
	}

	user := &models.AdminUser{
		Name:         name,
		Email:        email,
		Role:         role,
		Active:       true,
		PasswordHash: string(hashedPassword),
	}

	if err := s.adminRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *adminService) GetAllAdmins() ([]models.AdminUser, error) {
	return s.adminRepo.GetAll()
}

// EnsureDefaultAdmin creates the bootstrap account when the table is empty.
// Skipped when no password is configured.
func (s *adminService) EnsureDefaultAdmin(email, password string) error {
	if password == "" {
		return nil
	}

	count, err := s.adminRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.CreateAdmin("Administrator", email, string(models.SuperAdmin), password)
	if err != nil {
		return err
	}

	log.Printf("Created default admin user %s", email)
	return nil
}
