package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/matbakh-pos/matbakh-api/internal/application/service"
	"github.com/matbakh-pos/matbakh-api/internal/config"
	"github.com/matbakh-pos/matbakh-api/internal/infrastructure/database"
	"github.com/matbakh-pos/matbakh-api/internal/infrastructure/ledger"
	"github.com/matbakh-pos/matbakh-api/internal/infrastructure/repository"
	"github.com/matbakh-pos/matbakh-api/internal/presentation/http/handler"
	"github.com/matbakh-pos/matbakh-api/internal/presentation/http/routes"
	"github.com/matbakh-pos/matbakh-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the chart of accounts and optional admin user
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	issuanceStore := repository.NewIssuanceStore(db, ledger.NewService())

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(orderRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo)
	issuanceService := service.NewIssuanceService(issuanceStore)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Order:    handler.NewOrderHandler(orderService, cfg.POS),
		Invoice:  handler.NewInvoiceHandler(issuanceService, invoiceService, cfg.POS),
		Customer: handler.NewCustomerHandler(customerService),
		Product:  handler.NewProductHandler(productService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
