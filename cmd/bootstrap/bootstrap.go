package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"medcare-api/config"
	deliveryHttp "medcare-api/internal/delivery/http"
	"medcare-api/internal/delivery/http/handler"
	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/infrastructure/cache"
	"medcare-api/internal/infrastructure/database"
	"medcare-api/internal/infrastructure/mailer"
	"medcare-api/internal/infrastructure/storage"
	"medcare-api/internal/repository"
	"medcare-api/internal/service"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/document"
	"medcare-api/pkg/jwt"
	"medcare-api/pkg/metrics"
	"medcare-api/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(configPath string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := NewLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize object storage and mail
	s3Storage, err := storage.NewS3Storage(context.Background(), cfg.Storage, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialise object storage: %w", err)
	}

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialise mailer: %w", err)
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient, s3Storage, smtpMailer)

	return app, nil
}

// NewLogger configures a JSON logrus logger at the configured level
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	fileStorage usecase.FileStorage,
	mail usecase.Mailer,
) *http.Server {
	// Fees are sent as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(cfg.App.Name, registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(redisClient, jwtService.GetRefreshExpiry())
	appointmentRepo := repository.NewAppointmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, tokenRepo, jwtService, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, userRepo, appointmentRepo, auditService)
	paymentUsecase := usecase.NewPaymentUsecase(log, appointmentRepo, paymentRepo, auditService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(
		log,
		appointmentRepo,
		prescriptionRepo,
		document.NewPDFRenderer(cfg.App.Name),
		fileStorage,
		auditService,
		loadLocation(cfg.Prescription.TimeZone, log),
		cfg.Storage.UploadTimeout,
	)
	adminUsecase := usecase.NewAdminUsecase(log, userRepo, appointmentRepo, auditService)
	staffUsecase := usecase.NewStaffUsecase(log, userRepo, mail, auditService, cfg.SMTP.Timeout)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:        handler.NewAuthHandler(authUsecase, customValidator, collector),
		Appointment: handler.NewAppointmentHandler(appointmentUsecase, customValidator, collector),
		Patient:     handler.NewPatientHandler(appointmentUsecase, prescriptionUsecase, customValidator),
		Doctor:      handler.NewDoctorHandler(appointmentUsecase, prescriptionUsecase, customValidator, collector),
		Staff:       handler.NewStaffHandler(staffUsecase, paymentUsecase, customValidator, collector),
		Admin:       handler.NewAdminHandler(adminUsecase, customValidator),
		AuditLog:    handler.NewAuditLogHandler(auditLogUsecase),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}),
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		}),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware()
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthRequestsPerSecond, cfg.RateLimit.AuthBurst)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, authLimiter, collector, log)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func loadLocation(name string, log *logrus.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warnf("Unknown time zone %q, prescriptions will be dated in UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
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

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
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
