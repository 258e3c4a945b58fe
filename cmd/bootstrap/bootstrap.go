package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"klinik-sentosa/config"
	deliveryHttp "klinik-sentosa/internal/delivery/http"
	"klinik-sentosa/internal/delivery/http/handler"
	"klinik-sentosa/internal/delivery/http/middleware"
	domainRepo "klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/internal/infrastructure/cache"
	"klinik-sentosa/internal/infrastructure/metrics"
	"klinik-sentosa/internal/infrastructure/store"
	"klinik-sentosa/internal/repository"
	"klinik-sentosa/internal/service"
	"klinik-sentosa/internal/usecase"
	"klinik-sentosa/pkg/jwt"
	"klinik-sentosa/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const metricsNamespace = "klinik"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Store       domainRepo.RecordStore
	RedisClient *redis.Client
	Mirror      *service.MirrorSyncService
	Server      *http.Server
}

// Load sets up the logger and reads the configuration
func Load() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(cfg.App.Env)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, log, err := Load()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg}

	m := metrics.New(metricsNamespace)

	// Initialize record store
	recordStore, err := store.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	app.Store = metrics.InstrumentStore(recordStore, m)
	log.Infof("Record store %q ready", cfg.Store.Driver)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize all layers
	app.Server, app.Mirror = initializeServer(cfg, log, m, app.Store, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(env string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	if env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// newMirror builds the mirror over the store's six collections
func newMirror(cfg *config.Config, log *logrus.Logger, recordStore domainRepo.RecordStore) *service.MirrorSyncService {
	return service.NewMirrorSyncService(service.MirrorRepositories{
		Patients:      repository.NewPatientRepository(recordStore),
		Queue:         repository.NewQueueRepository(recordStore),
		Examinations:  repository.NewExaminationRepository(recordStore),
		Prescriptions: repository.NewPrescriptionRepository(recordStore),
		Transactions:  repository.NewTransactionRepository(recordStore),
		Medicines:     repository.NewMedicineRepository(recordStore),
	}, cfg.Mirror.Mode, log)
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	m *metrics.Metrics,
	recordStore domainRepo.RecordStore,
	redisClient *redis.Client,
) (*http.Server, *service.MirrorSyncService) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository(recordStore)
	sessionRepo := repository.NewSessionRepository(redisClient)
	patientRepo := repository.NewPatientRepository(recordStore)
	queueRepo := repository.NewQueueRepository(recordStore)
	examinationRepo := repository.NewExaminationRepository(recordStore)
	prescriptionRepo := repository.NewPrescriptionRepository(recordStore)
	transactionRepo := repository.NewTransactionRepository(recordStore)
	medicineRepo := repository.NewMedicineRepository(recordStore)

	// Initialize services
	mirror := newMirror(cfg, log, recordStore)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	if err := mirror.Refresh(ctx); err != nil {
		log.Warnf("Starting with an empty mirror: %v", err)
	}
	cancel()
	mirror.StartAutoRefresh(cfg.Mirror.RefreshInterval)

	billing := service.NewBillingService(cfg.Billing)
	notifier := service.NewNotificationService(cfg.Notification.Duration, log)
	m.RegisterMirror(metrics.NewMirrorCollector(metricsNamespace, mirror, cfg.Inventory.LowStockThreshold))

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, sessionRepo, jwtService)
	clinicFlow := usecase.NewClinicFlowUsecase(
		log, patientRepo, queueRepo, examinationRepo, prescriptionRepo, transactionRepo, medicineRepo,
		mirror, billing, notifier, m, cfg.Inventory,
	)
	medicineUsecase := usecase.NewMedicineUsecase(log, medicineRepo, mirror, notifier, m, cfg.Inventory.LowStockThreshold)
	dashboard := usecase.NewDashboardUsecase(log, mirror, billing, notifier, cfg.Inventory.LowStockThreshold)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(clinicFlow, dashboard, customValidator)
	examinationHandler := handler.NewExaminationHandler(clinicFlow, dashboard, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(clinicFlow, dashboard, customValidator)
	paymentHandler := handler.NewPaymentHandler(clinicFlow, dashboard, customValidator)
	medicineHandler := handler.NewMedicineHandler(medicineUsecase, customValidator)
	dashboardHandler := handler.NewDashboardHandler(dashboard, clinicFlow)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUsecase)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	metricsMiddleware := middleware.NewMetricsMiddleware(m)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler, patientHandler, examinationHandler, prescriptionHandler,
		paymentHandler, medicineHandler, dashboardHandler,
		authMiddleware, corsMiddleware, metricsMiddleware, m.Handler(),
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, mirror
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
	waitForShutdown(app.Server)
	app.Close()

	logrus.Info("Server shutdown complete")
}

// waitForShutdown blocks until an interrupt signal is received, then drains srv
func waitForShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
}

// Close stops the mirror and closes the store and Redis connections
func (app *App) Close() {
	if app.Mirror != nil {
		app.Mirror.Stop()
	}

	closeStore(app.Store)

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// closeStore closes the database pool behind the postgres driver
func closeStore(s domainRepo.RecordStore) {
	if closer, ok := s.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logrus.Warnf("Failed to close record store: %v", err)
		}
	}
}
