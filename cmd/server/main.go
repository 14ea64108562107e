package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minhngo/birdnest-backend/config"
	"github.com/minhngo/birdnest-backend/internal/app/controller"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/minhngo/birdnest-backend/internal/middleware"
	"github.com/minhngo/birdnest-backend/internal/router"
	"github.com/minhngo/birdnest-backend/internal/scheduler"
	"github.com/minhngo/birdnest-backend/internal/storage"
	"github.com/minhngo/birdnest-backend/internal/websocket"
	"github.com/minhngo/birdnest-backend/pkg/events"
	"github.com/minhngo/birdnest-backend/pkg/logger"
	"github.com/minhngo/birdnest-backend/pkg/redis"
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

	logger.Info("Starting Yến Sào Backend Server", map[string]interface{}{
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

	// Initialize Redis (token blacklist + checkout drafts)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// WebSocket hub for realtime notifications
	hub := websocket.NewHub()
	go hub.Run()

	// Kafka producer is a no-op unless KAFKA_ENABLED=true
	producer := events.NewProducer(&cfg.Kafka)
	defer producer.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	settingRepo := repository.NewSettingRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())
	passwordResetRepo := repository.NewPasswordResetRepository(db.GetDB())
	checkoutRepo := repository.NewCheckoutRepository(redis.GetClient())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	settingService := service.NewSettingService(settingRepo)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	addressService := service.NewAddressService(addressRepo)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	checkoutService := service.NewCheckoutService(
		checkoutRepo,
		productRepo,
		addressRepo,
		settingService,
		cfg.Checkout.DraftTTL,
	)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		cartRepo,
		checkoutRepo,
		settingService,
		notificationService,
		producer,
		db.GetDB(),
	)
	paymentService := service.NewPaymentService(settingService)
	reviewService := service.NewReviewService(reviewRepo, productRepo, notificationService)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	passwordResetService := service.NewPasswordResetService(passwordResetRepo, userRepo)

	// S3 storage for review and product images
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	passwordResetController := controller.NewPasswordResetController(passwordResetService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService)
	paymentController := controller.NewPaymentController(paymentService)
	reviewController := controller.NewReviewController(reviewService)
	wishlistController := controller.NewWishlistController(wishlistService)
	addressController := controller.NewAddressController(addressService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	settingController := controller.NewSettingController(settingService)
	divisionController := controller.NewDivisionController()
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Scheduled sweep that cancels unpaid bank-transfer orders
	orderExpiryScheduler := scheduler.NewOrderExpiryScheduler(
		orderService,
		cfg.Order.ExpiryCron,
		cfg.Order.ExpiryAfter,
	)
	if err := orderExpiryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start order expiry scheduler", err)
	}
	defer orderExpiryScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		passwordResetController,
		productController,
		cartController,
		checkoutController,
		orderController,
		paymentController,
		reviewController,
		wishlistController,
		addressController,
		notificationController,
		settingController,
		divisionController,
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
