package services

import (
	"fmt"
	"log"
	"time"

	"lpg_assistant/internal/repository"
)

// DefaultCylinderPrices seeds the pricing table on first migration.
var DefaultCylinderPrices = map[string]float64{
	"6kg":  1200,
	"13kg": 2500,
}

// PriceCache is the Redis-backed cache in front of the pricing table.
// A nil cache is allowed; reads then always hit the database.
type PriceCache interface {
	GetPrices() (map[string]float64, error)
	SetPrices(prices map[string]float64, ttl time.Duration) error
	InvalidatePrices() error
}

type PricingService interface {
	GetPrices() (map[string]float64, error)
	PriceFor(size string) (float64, bool, error)
	UpdatePrice(size string, priceKES float64) error
	SeedDefaults() error
}

type pricingService struct {
	pricingRepo repository.PricingRepository
	cache       PriceCache
	cacheTTL    time.Duration
}

func NewPricingService(pricingRepo repository.PricingRepository, cache PriceCache, cacheTTL time.Duration) PricingService {
	return &pricingService{pricingRepo: pricingRepo, cache: cache, cacheTTL: cacheTTL}
}

func (s *pricingService) GetPrices() (map[string]float64, error) {
	if s.cache != nil {
		if prices, err := s.cache.GetPrices(); err == nil {
			return prices, nil
		}
	}

	rows, err := s.pricingRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	prices := make(map[string]float64, len(rows))
	for _, row := range rows {
		prices[row.Size] = row.PriceKES
	}

	if s.cache != nil {
		if err := s.cache.SetPrices(prices, s.cacheTTL); err != nil {
			log.Printf("Warning: failed to cache prices: %v", err)
		}
	}

	return prices, nil
}

func (s *pricingService) PriceFor(size string) (float64, bool, error) {
	prices, err := s.GetPrices()
	if err != nil {
		return 0, false, err
	}
	price, ok := prices[size]
	return price, ok, nil
}

func (s *pricingService) UpdatePrice(size string, priceKES float64) error {
	if err := s.pricingRepo.Upsert(size, priceKES); err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidatePrices(); err != nil {
			log.Printf("Warning: failed to invalidate price cache: %v", err)
		}
	}

	return nil
}

func (s *pricingService) SeedDefaults() error {
	rows, err := s.pricingRepo.GetAll()
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(rows))
	for _, row := range rows {
		existing[row.Size] = true
	}

	for size, price := range DefaultCylinderPrices {
		if existing[size] {
			continue
		}
		if err := s.pricingRepo.Upsert(size, price); err != nil {
			return err
		}
	}

	return nil
}

// SeedableCylinderSizes returns the sizes the company sells, in menu order.
func SeedableCylinderSizes() []string {
	return []string{"6kg", "13kg"}
}
