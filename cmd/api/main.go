package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketgrid/orders-api/docs"
	"github.com/marketgrid/orders-api/internal/auth"
	"github.com/marketgrid/orders-api/internal/config"
	"github.com/marketgrid/orders-api/internal/database"
	"github.com/marketgrid/orders-api/internal/http/handler"
	"github.com/marketgrid/orders-api/internal/http/middleware"
	"github.com/marketgrid/orders-api/internal/http/router"
	"github.com/marketgrid/orders-api/internal/jobs"
	"github.com/marketgrid/orders-api/internal/logger"
	"github.com/marketgrid/orders-api/internal/mail"
	"github.com/marketgrid/orders-api/internal/repository"
	"github.com/marketgrid/orders-api/internal/service"
	"go.uber.org/zap"
)

// @title MarketGrid Orders API
// @version 1.0
// @description Marketplace backend: catalog browsing, per-user basket, order confirmation and contacts

// @contact.name API Support
// @contact.email support@marketgrid.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Outbound mail (SES, or a logging stub when disabled)
	mailer, err := mail.New(&cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewShopRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	contactRepo := repository.NewContactRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Auth
	tokens := auth.NewTokenManager(&cfg.Auth)
	authMiddleware := auth.NewMiddleware(tokens, log)

	// Services
	notificationService := service.NewNotificationService(mailer, cfg.App.FrontendURL, log)
	accountService := service.NewAccountService(db, userRepo, tokens, notificationService, log)
	catalogService := service.NewCatalogService(shopRepo, categoryRepo, offerRepo, log)
	basketService := service.NewBasketService(db, orderRepo, log)
	orderService := service.NewOrderService(db, orderRepo, userRepo, notificationService, log)
	contactService := service.NewContactService(contactRepo, log)

	// HTTP layer
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	accountHandler := handler.NewAccountHandler(accountService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	basketHandler := handler.NewBasketHandler(basketService, log)
	orderHandler := handler.NewOrderHandler(orderService, log)
	contactHandler := handler.NewContactHandler(contactService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		accountHandler,
		catalogHandler,
		basketHandler,
		orderHandler,
		contactHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		cleanupJob := jobs.NewBasketCleanupJob(orderRepo, &cfg.Jobs, log)
		if err := cleanupJob.Register(scheduler); err != nil {
			log.Error("Failed to register basket cleanup job", zap.Error(err))
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
