package services

import (
	"errors"
	"fmt"

	"lpg_assistant/internal/models"
	"lpg_assistant/internal/repository"

	"gorm.io/gorm"
)

// ErrInvalidTransition is returned when a status change breaks the order
// state machine.
var ErrInvalidTransition = errors.New("invalid order status transition")

// ErrUnknownCylinderSize is returned when no price is configured for the
// requested size.
var ErrUnknownCylinderSize = errors.New("unknown cylinder size")

type OrderService interface {
	PlaceOrder(customerID, cylinderSize string, quantity int, deliveryDate, notes string) (*models.Order, error)
	GetOrderByID(id string) (*models.Order, error)
	GetOrdersByCustomer(customerID string) ([]models.Order, error)
	GetLatestOrderForCustomer(customerID string) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	UpdateOrderStatus(id, newStatus string) (*models.Order, error)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	pricingService PricingService
}

func NewOrderService(orderRepo repository.OrderRepository, pricingService PricingService) OrderService {
	return &orderService{orderRepo: orderRepo, pricingService: pricingService}
}

func (s *orderService) PlaceOrder(customerID, cylinderSize string, quantity int, deliveryDate, notes string) (*models.Order, error) {
	unitPrice, ok, err := s.pricingService.PriceFor(cylinderSize)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCylinderSize, cylinderSize)
	}

	order := &models.Order{
		CustomerID:     customerID,
		CylinderSize:   cylinderSize,
		Quantity:       quantity,
		PriceKES:       unitPrice,
		TotalAmountKES: unitPrice * float64(quantity),
		DeliveryDate:   deliveryDate,
		Status:         string(models.OrderPending),
		Notes:          notes,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

func (s *orderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *orderService) GetOrdersByCustomer(customerID string) ([]models.Order, error) {
	return s.orderRepo.GetByCustomerID(customerID)
}

func (s *orderService) GetLatestOrderForCustomer(customerID string) (*models.Order, error) {
	order, err := s.orderRepo.GetLatestByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// statusTransitions encodes pending -> confirmed -> out_for_delivery ->
// delivered, with cancellation allowed from any non-terminal state.
var statusTransitions = map[string][]string{
	string(models.OrderPending):        {string(models.OrderConfirmed), string(models.OrderCancelled)},
	string(models.OrderConfirmed):      {string(models.OrderOutForDelivery), string(models.OrderCancelled)},
	string(models.OrderOutForDelivery): {string(models.OrderDelivered), string(models.OrderCancelled)},
}

func (s *orderService) UpdateOrderStatus(id, newStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	order.Status = newStatus
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
