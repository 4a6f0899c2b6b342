package repository

import (
	"lpg_assistant/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByCustomerID(customerID string) ([]models.Order, error)
	GetLatestByCustomerID(customerID string) (*models.Order, error)
	GetAll() ([]models.Order, error)
	Update(order *models.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByCustomerID(customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetLatestByCustomerID(customerID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Customer").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}
