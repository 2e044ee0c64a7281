// Package main provides the main entry point for the ReachBee marketing backend
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amirphl/reachbee/app/handlers"
	"github.com/amirphl/reachbee/app/logger"
	"github.com/amirphl/reachbee/app/router"
	"github.com/amirphl/reachbee/app/scheduler"
	"github.com/amirphl/reachbee/app/services"
	businessflow "github.com/amirphl/reachbee/business_flow"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/repository"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	server    *fiber.App
	logger    *zap.Logger
	stopFuncs []func()
}

func main() {
	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("Starting ReachBee",
		zap.String("environment", cfg.Deployment.Environment),
		zap.String("version", cfg.Deployment.Version),
		zap.String("commit", cfg.Deployment.CommitHash),
	)

	// Initialize application
	app, err := initializeApplication(cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize application", zap.Error(err))
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	zl.Info("Shutting down gracefully", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("Error during shutdown", zap.Error(err))
	}

	// Workers and connections outlive in-flight requests
	for _, fn := range app.stopFuncs {
		fn()
	}

	zl.Info("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, zl *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(zl.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             cfg.SlowQueryTime,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(
			&models.ContentRecord{},
			&models.EmailTracking{},
			&models.EmailOpenEvent{},
			&models.Campaign{},
			&models.TrendingEvent{},
		); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	zl.Info("Database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig, zl *zap.Logger) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	zl.Info("Redis connection established", zap.String("addr", opt.Addr), zap.Int("db", cfg.RedisDB))
	return rc, nil
}

// startCacheHealthMonitor periodically pings Redis to detect connectivity issues.
// The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, zl *zap.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					zl.Warn("Redis healthcheck failed", zap.Error(err))
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeTextGenerator picks the configured text model provider
func initializeTextGenerator(cfg *config.InferenceConfig, hf *services.HuggingFaceClient) services.TextGenerator {
	if cfg.TextProvider == "anthropic" {
		return services.NewAnthropicClient(cfg)
	}
	return hf
}

// initializeEmailSender picks the configured delivery provider
func initializeEmailSender(ctx context.Context, cfg *config.EmailConfig) (services.EmailSender, error) {
	if cfg.Provider == "mock" {
		return services.NewMockEmailSender(), nil
	}
	return services.NewSESEmailSender(ctx, cfg)
}

// initializeImageStore picks the configured object store
func initializeImageStore(ctx context.Context, cfg *config.StorageConfig) (services.ImageStore, error) {
	if cfg.Provider == "mock" {
		return services.NewMockImageStore(), nil
	}
	return services.NewS3ImageStore(ctx, cfg)
}

func initializeWhatsAppSender(cfg *config.WhatsAppConfig) services.WhatsAppSender {
	if cfg.Provider == "mock" {
		return &services.MockWhatsAppSender{}
	}
	return services.NewTwilioWhatsAppSender(cfg)
}

// initializeEventSources returns every event source that has credentials
func initializeEventSources(cfg *config.EventsConfig) []services.EventSource {
	var sources []services.EventSource
	if cfg.CalendarificAPIKey != "" {
		sources = append(sources, services.NewCalendarificSource(cfg))
	}
	if cfg.OpenWeatherAPIKey != "" {
		sources = append(sources, services.NewOpenWeatherSource(cfg))
	}
	return sources
}

// initializeApplication initializes all application components
func initializeApplication(cfg *config.ProductionConfig, zl *zap.Logger) (*Application, error) {
	ctx := context.Background()

	db, err := initializeDatabase(cfg.Database, zl)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rc, err := initializeCache(cfg.Cache, zl)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	var stopFuncs []func()
	if rc != nil {
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(ctx, rc, cfg.Cache.CleanupInterval, zl))
	} else {
		zl.Warn("Redis cache disabled; Instagram results and Twitter rate limits will not be remembered")
	}

	// Repositories
	contentRepo := repository.NewContentRecordRepository(db)
	trackingRepo := repository.NewEmailTrackingRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	eventRepo := repository.NewTrendingEventRepository(db)

	// External providers
	hf := services.NewHuggingFaceClient(&cfg.Inference)
	text := initializeTextGenerator(&cfg.Inference, hf)

	emailSender, err := initializeEmailSender(ctx, &cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	imageStore, err := initializeImageStore(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	var twitter services.TwitterClient
	if cfg.Twitter.Enabled {
		twitter = services.NewXClient(ctx, &cfg.Twitter)
	} else {
		zl.Info("Twitter integration disabled")
	}

	instagram := services.NewRapidAPIInstagramClient(&cfg.Instagram)
	whatsapp := initializeWhatsAppSender(&cfg.WhatsApp)

	// Business flows
	contentFlow := businessflow.NewContentFlow(text, hf, contentRepo, &cfg.Inference)
	brandKitFlow := businessflow.NewBrandKitFlow(hf, &cfg.Inference, zl)
	emailCampaignFlow := businessflow.NewEmailCampaignFlow(text, emailSender, trackingRepo, &cfg.Email, zl)
	emailTrackingFlow := businessflow.NewEmailTrackingFlow(trackingRepo)
	socialFlow := businessflow.NewSocialFlow(
		twitter, imageStore, whatsapp, instagram, rc,
		&cfg.Cache, &cfg.Twitter, &cfg.Instagram, &cfg.Storage, zl,
	)
	var poster businessflow.TweetPoster
	if twitter != nil {
		poster = socialFlow
	}
	campaignFlow := businessflow.NewCampaignFlow(campaignRepo, poster, zl)
	workflowFlow := businessflow.NewWorkflowFlow(contentRepo, &cfg.Workflow)
	eventFlow := businessflow.NewEventFlow(initializeEventSources(&cfg.Events), eventRepo, zl)

	// Handlers
	timeout := cfg.Server.RequestTimeout
	h := router.Handlers{
		Content:  handlers.NewContentHandler(contentFlow, brandKitFlow, zl, timeout),
		Email:    handlers.NewEmailHandler(emailCampaignFlow, emailTrackingFlow, zl, timeout),
		Campaign: handlers.NewCampaignHandler(campaignFlow, zl, timeout),
		Social:   handlers.NewSocialHandler(socialFlow, zl, timeout),
		Workflow: handlers.NewWorkflowHandler(workflowFlow, zl, timeout),
		Event:    handlers.NewEventHandler(eventFlow, zl, timeout),
		Health:   handlers.NewHealthHandler(db, rc, cfg.Deployment.Version, zl),
	}

	r := router.NewFiberRouter(h, cfg, zl)

	if cfg.Events.Enabled {
		s := scheduler.NewEventScheduler(eventFlow, cfg.Events.RefreshInterval, cfg.Events.Timeout, zl)
		stopFuncs = append(stopFuncs, s.Start(ctx))
	}

	if rc != nil {
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	}

	return &Application{
		router:    r,
		config:    cfg,
		server:    r.GetApp(),
		logger:    zl,
		stopFuncs: stopFuncs,
	}, nil
}
