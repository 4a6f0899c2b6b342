package main

import (
	"log"
	"time"

	"lpg_assistant/internal/config"
	"lpg_assistant/internal/database"
	"lpg_assistant/internal/handlers"
	"lpg_assistant/internal/migrations"
	"lpg_assistant/internal/redis"
	"lpg_assistant/internal/repository"
	"lpg_assistant/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Migrate schema and seed default prices/admin
	if err := migrations.RunMigrations(db, cfg); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis price cache; the service still works without it
	var priceCache services.PriceCache
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, price reads fall back to the database: %v", err)
	} else {
		priceCache = redisClient
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	summaryRepo := repository.NewCallSummaryRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	pricingRepo := repository.NewPricingRepository(db)

	// Initialize services
	customerService := services.NewCustomerService(customerRepo)
	pricingService := services.NewPricingService(pricingRepo, priceCache, time.Duration(cfg.PriceCacheTTL)*time.Second)
	orderService := services.NewOrderService(orderRepo, pricingService)
	summaryService := services.NewCallSummaryService(summaryRepo, customerService)
	adminService := services.NewAdminService(adminRepo)

	// Initialize handlers
	vapiHandler := handlers.NewVapiHandler(customerService, orderService, summaryService)
	adminHandler := handlers.NewAdminHandler(customerService, orderService, pricingService, summaryService, adminService)

	// Setup routes
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Vapi-Secret"},
	}))

	router.GET("/health", adminHandler.Health)

	// Voice platform webhooks
	webhooks := router.Group("/", handlers.VerifyWebhookSecret(cfg.VapiWebhookSecret))
	webhooks.POST("/summary", vapiHandler.HandleSummary)
	webhooks.POST("/tools", vapiHandler.HandleTools)

	// Admin API
	api := router.Group("/api")
	{
		api.GET("/customers", adminHandler.ListCustomers)
		api.GET("/customers/:id", adminHandler.GetCustomer)
		api.PUT("/customers/:id", adminHandler.UpdateCustomer)

		api.GET("/orders", adminHandler.ListOrders)
		api.GET("/orders/:id", adminHandler.GetOrder)
		api.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

		api.GET("/call-summaries", adminHandler.ListCallSummaries)

		api.GET("/pricing", adminHandler.GetPricing)
		api.PUT("/pricing", adminHandler.UpdatePricing)

		api.POST("/admin/login", adminHandler.Login)
		api.POST("/admin/users", adminHandler.CreateAdminUser)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
