package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAP-F-2025/coding-assessment/internal/cache"
	"github.com/SAP-F-2025/coding-assessment/internal/config"
	"github.com/SAP-F-2025/coding-assessment/internal/handlers"
	"github.com/SAP-F-2025/coding-assessment/internal/judge0"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories/postgres"
	"github.com/SAP-F-2025/coding-assessment/internal/runner"
	"github.com/SAP-F-2025/coding-assessment/internal/services"
	"github.com/SAP-F-2025/coding-assessment/internal/utils"
	"github.com/SAP-F-2025/coding-assessment/internal/validator"
	"github.com/SAP-F-2025/coding-assessment/pkg"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("").Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	repo := postgres.NewRepository(db)

	zapLogger := newZapLogger(cfg)
	defer func() { _ = zapLogger.Sync() }()

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache and submission guard", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, zapLogger)
		// cached questions may predate the schema just migrated
		if err := cacheService.DeletePattern(context.Background(), cache.QuestionPattern()); err != nil {
			logger.Warn("Failed to clear question cache", "error", err)
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	gateway := judge0.NewClient(cfg.Judge0.URL, cfg.Judge0.Host, cfg.Judge0.Key,
		judge0.WithTimeout(cfg.Judge0.Timeout),
		judge0.WithLogger(slogger))
	testRunner := runner.New(gateway, slogger, runner.WithConfig(runner.Config{
		MaxPollAttempts: cfg.Runner.MaxPollAttempts,
		PollInterval:    cfg.Runner.PollInterval,
	}))

	v := validator.New()
	submissionService := services.NewSubmissionService(repo, cacheService, slogger)
	sessionService := services.NewSessionService(
		repo,
		services.NewAssessmentLoader(repo, cacheService, slogger),
		testRunner,
		submissionService,
		publisher,
		v,
		slogger,
		services.SessionConfig{
			TickInterval:    cfg.Session.TickInterval,
			Retention:       cfg.Session.Retention,
			DefaultLanguage: cfg.DefaultLanguage,
		},
	)
	defer sessionService.Shutdown()

	if err := sessionService.StartSweeper(cfg.Session.SweepSpec); err != nil {
		logger.LogError(err, "Failed to start session sweeper", "spec", cfg.Session.SweepSpec)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestID(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))

	handlers.NewHandlerManager(handlers.ServiceSet{
		Sessions:    sessionService,
		Submissions: submissionService,
		Authoring:   services.NewAuthoringService(repo, cacheService, v, slogger),
		Export:      services.NewExportService(repo, slogger),
	}, v, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting coding assessment service", "port", cfg.Port, "environment", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server stopped")
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Server shutdown failed")
	}
}

func newZapLogger(cfg *config.Config) *zap.Logger {
	var (
		zapLogger *zap.Logger
		err       error
	)
	if cfg.IsProduction() {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return zapLogger.Named("cache")
}
