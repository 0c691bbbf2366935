package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dchukwu/shoplane-backend/config"
	"github.com/dchukwu/shoplane-backend/internal/app/controller"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/app/service"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/dchukwu/shoplane-backend/internal/middleware"
	"github.com/dchukwu/shoplane-backend/internal/router"
	"github.com/dchukwu/shoplane-backend/internal/scheduler"
	"github.com/dchukwu/shoplane-backend/internal/storage"
	"github.com/dchukwu/shoplane-backend/pkg/logger"
	"github.com/dchukwu/shoplane-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SHOPLANE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis for the token blacklist
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Failed to connect to redis, logout revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	cartService := service.NewCartService(cartRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB())

	// Initialize S3 storage for product images
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	reviewController := controller.NewReviewController(reviewService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the stale cart cleanup scheduler
	cartScheduler := scheduler.NewCartCleanupScheduler(cartService, cfg.Cart.Retention)
	if err := cartScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cart cleanup scheduler", err)
	}
	defer cartScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		categoryController,
		productController,
		reviewController,
		cartController,
		orderController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
