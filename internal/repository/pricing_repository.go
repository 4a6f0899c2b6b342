package repository

import (
	"lpg_assistant/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PricingRepository interface {
	GetAll() ([]models.CylinderPrice, error)
	Upsert(size string, priceKES float64) error
}

type pricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) GetAll() ([]models.CylinderPrice, error) {
	var prices []models.CylinderPrice
	err := r.db.Order("size ASC").Find(&prices).Error
	return prices, err
}

func (r *pricingRepository) Upsert(size string, priceKES float64) error {
	price := models.CylinderPrice{Size: size, PriceKES: priceKES}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "size"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_kes", "updated_at"}),
	}).Create(&price).Error
}
