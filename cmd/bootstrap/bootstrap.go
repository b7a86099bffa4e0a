package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-appointment-booking/config"
	deliveryHttp "medical-appointment-booking/internal/delivery/http"
	"medical-appointment-booking/internal/delivery/http/handler"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/infrastructure/cache"
	"medical-appointment-booking/internal/infrastructure/database"
	"medical-appointment-booking/internal/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/jwt"
	"medical-appointment-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	RateLimiter *middleware.RateLimiter
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

	// Setup logger
	app.Log = NewLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsProduction(), app.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, app.Log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	if err := app.initializeServer(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// NewLogger returns a JSON logger writing to stdout at level. Unknown levels
// fall back to info.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// initializeServer wires repositories, services, usecases and handlers into
// the HTTP server.
func (app *App) initializeServer() error {
	cfg, db, log := app.Config, app.DB, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	availabilityRepo := repository.NewDoctorAvailabilityRepository()
	timeSlotRepo := repository.NewTimeSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	mailService := service.NewMailService(cfg.SMTP, log)
	slotLocker := service.NewSlotLockService(app.RedisClient, log, cfg.SlotLock.TTL, cfg.SlotLock.Wait)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, patientProfileRepo, auditService, mailService, jwtService, app.RedisClient, cfg.App.FrontendURL)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, auditService, customValidator)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorProfileRepo, timeSlotRepo)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientProfileRepo, appointmentRepo)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, doctorProfileRepo, availabilityRepo, timeSlotRepo, auditService)
	timeSlotUsecase := usecase.NewTimeSlotUsecase(db, log, doctorProfileRepo, timeSlotRepo, appointmentRepo, auditService, slotLocker)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, patientProfileRepo, timeSlotRepo, appointmentRepo, auditService, slotLocker)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Seed the first administrator when configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authUsecase.EnsureAdmin(ctx, cfg.Admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db, log)
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, timeSlotUsecase, availabilityUsecase, appointmentUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, appointmentUsecase, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	timeSlotHandler := handler.NewTimeSlotHandler(timeSlotUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	app.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies)

	// Initialize router
	router := deliveryHttp.NewRouter(
		healthHandler,
		authHandler,
		userHandler,
		doctorHandler,
		patientHandler,
		availabilityHandler,
		timeSlotHandler,
		appointmentHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		app.RateLimiter,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and blocks until shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close releases the rate limiter, database and Redis connections
func (app *App) Close() {
	if app.RateLimiter != nil {
		app.RateLimiter.Stop()
	}

	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// Migrate runs schema migrations up, or down by steps when steps > 0.
func Migrate(down bool, steps int) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := NewLogger(cfg.App.LogLevel)

	migrator, err := database.NewMigrator(cfg.DB, log)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if down {
		return migrator.Down(steps)
	}
	return migrator.Up()
}
