package services

import (
	"errors"
	"fmt"
	"strings"

	"lpg_assistant/internal/models"
	"lpg_assistant/internal/repository"

	"gorm.io/gorm"
)

type CustomerService interface {
	// RegisterCustomer creates the customer unless one already exists for the
	// phone number. The bool reports whether a new row was created.
	RegisterCustomer(customer *models.Customer) (*models.Customer, bool, error)
	GetCustomerByPhone(phone string) (*models.Customer, error)
	GetCustomerByID(id string) (*models.Customer, error)
	GetAllCustomers() ([]models.Customer, error)
	UpdateCustomer(customer *models.Customer) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) RegisterCustomer(customer *models.Customer) (*models.Customer, bool, error) {
	existing, err := s.GetCustomerByPhone(customer.Phone)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := s.customerRepo.Create(customer); err != nil {
		// A concurrent registration may have won the phone uniqueness race.
		// Re-read instead of surfacing the conflict.
		if isUniqueViolation(err) {
			existing, lookupErr := s.GetCustomerByPhone(customer.Phone)
			if lookupErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, true, nil
}

func (s *customerService) GetCustomerByPhone(phone string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomerByID(id string) (*models.Customer, error) {
	return s.customerRepo.GetByID(id)
}

func (s *customerService) GetAllCustomers() ([]models.Customer, error) {
	return s.customerRepo.GetAll()
}

func (s *customerService) UpdateCustomer(customer *models.Customer) error {
	return s.customerRepo.Update(customer)
}

// isUniqueViolation matches both the Postgres and SQLite unique-constraint
// error texts; gorm does not expose a portable sentinel for either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
