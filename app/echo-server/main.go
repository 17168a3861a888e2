package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dreamKeys/app/echo-server/router"
	"dreamKeys/business/bid"
	"dreamKeys/business/payments"
	"dreamKeys/business/property"
	"dreamKeys/business/report"
	userService "dreamKeys/business/user"
	"dreamKeys/business/wishlist"
	"dreamKeys/internal/middleware"
	"dreamKeys/internal/repository/notification"
	psqlRepo "dreamKeys/internal/repository/postgres"
	redisRepo "dreamKeys/internal/repository/redis"
	"dreamKeys/internal/repository/stripe"
	"dreamKeys/internal/rest"
	"dreamKeys/pkg/config"
	"dreamKeys/pkg/database"
	"dreamKeys/pkg/database/redis"
	"dreamKeys/pkg/logger"
	"dreamKeys/pkg/metrics"
	"dreamKeys/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting DreamKeys", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redis.CloseRedisClient(redisClient)

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(cfg.Mailjet)
	if !mailjetEmail.Enabled() {
		logger.Warn("Mailjet is not configured, bid e-mails are disabled")
	}

	stripeRepo := stripe.NewStripeRepository(
		stripe.StripeConfig{
			SecretKey:     cfg.Stripe.StripeSecretKey,
			WebhookSecret: cfg.Stripe.StripeWebhookSecret,
		},
	)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	propertyRepo := psqlRepo.NewPropertyRepository(db)
	bidRepo := psqlRepo.NewBidRepository(db)
	paymentsRepo := psqlRepo.NewPaymentsRepository(db)
	wishlistRepo := psqlRepo.NewWishlistRepository(db)
	reportRepo := psqlRepo.NewReportRepository(db)
	eventRepo := redisRepo.NewEventRepository(redisClient)

	// Init service
	propertyService := property.NewPropertyService(propertyRepo)
	userService := userService.NewUserService(userRepo, propertyService, validate)
	bidService := bid.NewBidService(bidRepo, propertyRepo, paymentsRepo, mailjetEmail)
	paymentsService := payments.NewPaymentsService(paymentsRepo, stripeRepo, bidService, eventRepo, cfg.Stripe.Currency)
	wishlistService := wishlist.NewWishlistService(wishlistRepo, propertyRepo)
	reportService := report.NewReportService(reportRepo, propertyRepo)

	// Init handler
	handlers := router.Handlers{
		Token:    rest.NewTokenHandler(jwtManager),
		User:     rest.NewUserHandler(userService),
		Property: rest.NewPropertyHandler(propertyService),
		Bid:      rest.NewBidHandler(bidService),
		Payments: rest.NewPaymentsHandler(paymentsService),
		Webhook:  rest.NewWebhookHandler(stripeRepo, paymentsService),
		Wishlist: rest.NewWishlistHandler(wishlistService),
		Report:   rest.NewReportHandler(reportService),
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.Setup(api, handlers, router.Guards{
		AuthRequired: middleware.AuthMiddleware(jwtManager),
		ResolveActor: middleware.ResolveActor(userRepo),
		AdminOnly:    middleware.AdminOnly(),
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
