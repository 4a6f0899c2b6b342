package migrations

import (
	"log"

	"lpg_assistant/internal/config"
	"lpg_assistant/internal/database"
	"lpg_assistant/internal/repository"
	"lpg_assistant/internal/services"

	"gorm.io/gorm"
)

// RunMigrations migrates the schema and seeds the data the service cannot
// run without: the cylinder price table and the bootstrap admin account.
func RunMigrations(db *gorm.DB, cfg *config.Config) error {
	log.Println("Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	pricingService := services.NewPricingService(repository.NewPricingRepository(db), nil, 0)
	if err := pricingService.SeedDefaults(); err != nil {
		return err
	}

	adminService := services.NewAdminService(repository.NewAdminUserRepository(db))
	if err := adminService.EnsureDefaultAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}
