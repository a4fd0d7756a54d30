package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrenoo/config"
	deliveryHttp "qrenoo/internal/delivery/http"
	"qrenoo/internal/delivery/http/handler"
	"qrenoo/internal/delivery/http/middleware"
	"qrenoo/internal/domain/gateway"
	"qrenoo/internal/infrastructure/cache"
	"qrenoo/internal/infrastructure/database"
	"qrenoo/internal/infrastructure/messaging"
	"qrenoo/internal/infrastructure/payment"
	"qrenoo/internal/repository"
	"qrenoo/internal/service"
	"qrenoo/internal/usecase"
	"qrenoo/pkg/jwt"
	"qrenoo/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   gateway.EventPublisher
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := SetupLogger(cfg.App)
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, gormLogLevel(cfg.App))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Redis only backs the feature cache; without it entitlements hit the database
	featureCache := service.NewNoopFeatureCache()
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		featureCache = service.NewRedisFeatureCache(redisClient, log, cfg.Entitlements.CacheTTL)
		log.Info("Redis connected successfully")
	} else {
		log.Warn("REDIS_HOST not set, feature cache disabled")
	}

	app.Publisher = NewPublisher(cfg.RabbitMQ, log)

	app.Server = initializeServer(cfg, log, db, featureCache, app.Publisher)

	return app, nil
}

// SetupLogger configures the standard logrus logger
func SetupLogger(cfg config.AppConfig) *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	if !cfg.IsProduction() {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return logrus.StandardLogger()
}

func gormLogLevel(cfg config.AppConfig) logger.LogLevel {
	if cfg.IsProduction() {
		return logger.Error
	}
	return logger.Warn
}

// NewPublisher connects to RabbitMQ, falling back to logging events when the broker is not configured or unreachable.
func NewPublisher(cfg config.RabbitMQConfig, log *logrus.Logger) gateway.EventPublisher {
	if cfg.URL == "" {
		log.Warn("RABBITMQ_URL not set, events will only be logged")
		return messaging.NewLogPublisher(log)
	}

	producer, err := messaging.NewEventProducer(cfg.URL, cfg.Exchange, log)
	if err != nil {
		log.Errorf("Failed to connect to RabbitMQ, events will only be logged: %v", err)
		return messaging.NewLogPublisher(log)
	}
	log.Info("RabbitMQ connected successfully")
	return producer
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, featureCache service.FeatureCache, publisher gateway.EventPublisher) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.Auth)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	userViewRepo := repository.NewAdminUserViewRepository()
	profileRepo := repository.NewProfileRepository()
	rdvRepo := repository.NewRendezvousRepository()
	planRepo := repository.NewPlanRepository()
	priceRepo := repository.NewPriceMappingRepository()
	logRepo := repository.NewLogRepository()

	// Initialize services and gateways
	logService := service.NewLogService(log, logRepo)
	paymentGateway := payment.NewStripeGateway(cfg.Stripe, nil)

	// Initialize usecases
	entitlementUsecase := usecase.NewEntitlementUsecase(db, log, profileRepo, planRepo, featureCache, cfg.App.PricingPath)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, profileRepo, rdvRepo)
	bookingUsecase := usecase.NewBookingUsecase(db, log, rdvRepo, profileRepo, publisher, cfg.Booking.PendingTTL)
	profileUsecase := usecase.NewProfileUsecase(db, log, userRepo, profileRepo)
	adminUsecase := usecase.NewAdminUsecase(db, log, customValidator, userRepo, profileRepo, planRepo, userViewRepo, logService, entitlementUsecase)
	billingUsecase := usecase.NewBillingUsecase(db, log, paymentGateway, profileRepo, priceRepo, logService, entitlementUsecase, usecase.BillingOptions{
		ResetPlanOnCancel: cfg.Billing.ResetPlanOnCancel,
		DeadLetterEnabled: cfg.Billing.DeadLetterEnabled,
	})

	// Initialize handlers
	errorWriter := handler.NewErrorWriter(log, !cfg.App.IsProduction())
	proHandler := handler.NewProHandler(availabilityUsecase, errorWriter)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator, errorWriter, cfg.App.PublicURL)
	profileHandler := handler.NewProfileHandler(profileUsecase, entitlementUsecase, customValidator, errorWriter)
	adminHandler := handler.NewAdminHandler(adminUsecase, errorWriter)
	billingHandler := handler.NewBillingHandler(billingUsecase, customValidator, errorWriter)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	featureMiddleware := middleware.NewFeatureMiddleware(entitlementUsecase, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.PublicURL)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		proHandler,
		bookingHandler,
		profileHandler,
		adminHandler,
		billingHandler,
		authMiddleware,
		featureMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, broker)
func (app *App) Close() {
	if app.Publisher != nil {
		app.Publisher.Close()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
