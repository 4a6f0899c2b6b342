package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID     string    `json:"customer_id" gorm:"type:uuid;not null;index"`
	Customer       Customer  `json:"customer" gorm:"foreignKey:CustomerID"`
	CylinderSize   string    `json:"cylinder_size" gorm:"not null"` // 6kg, 13kg
	Quantity       int       `json:"quantity" gorm:"not null"`
	PriceKES       float64   `json:"price_kes" gorm:"not null"`
	TotalAmountKES float64   `json:"total_amount_kes" gorm:"not null"`
	DeliveryDate   string    `json:"delivery_date"`
	Status         string    `json:"status" gorm:"default:'pending'"` // pending, confirmed, out_for_delivery, delivered, cancelled
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)
