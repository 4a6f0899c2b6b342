package models

import "time"

// CylinderPrice is the single source of truth for unit prices. The voice
// tools and the admin pricing panel both read and write this table.
type CylinderPrice struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Size      string    `json:"size" gorm:"uniqueIndex;not null"` // 6kg, 13kg
	PriceKES  float64   `json:"price_kes" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CylinderPrice) TableName() string {
	return "cylinder_prices"
}
