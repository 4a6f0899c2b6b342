package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"uniqueIndex;not null"`
	Email     *string   `json:"email"`
	Address   string    `json:"address"`
	GpsLat    *float64  `json:"gps_lat"`
	GpsLon    *float64  `json:"gps_lon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (Customer) TableName() string {
	return "customers"
}
