package main

import (
	"fmt"
	"log"

	"lpg_assistant/internal/config"
	"lpg_assistant/internal/database"
	"lpg_assistant/internal/migrations"
	"lpg_assistant/internal/models"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.Customer{},
		&models.Order{},
		&models.CallSummary{},
		&models.AdminUser{},
		&models.CylinderPrice{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// Recreate schema and seed defaults
	if err := migrations.RunMigrations(db, cfg); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Database initialized successfully")
}
