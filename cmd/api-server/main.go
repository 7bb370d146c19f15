package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/router"
	"yamdb/internal/microservices/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	// Setup structured logging
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// Confirmation-code redemption: redis when configured, otherwise in-process
	var redemptions repository.RedemptionStore
	if cfg.RedisURL != "" {
		store, closeRedis, err := repository.NewRedisRedemptionStore(cfg.RedisURL)
		if err != nil {
			logger.Error("redis_connect_failed", "error", err)
			os.Exit(1)
		}
		defer closeRedis()
		redemptions = store
		logger.Info("redemption_store_ready", "backend", "redis")
	} else {
		redemptions = repository.NewMemoryRedemptionStore()
		logger.Warn("redemption_store_ready", "backend", "memory")
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	mailer := service.NewSMTPMailer(cfg)

	svc := router.Services{
		Auth:       service.NewAuthService(userRepo, redemptions, mailer, cfg, logger),
		Users:      service.NewUserService(userRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Genres:     service.NewGenreService(genreRepo),
		Titles:     service.NewTitleService(titleRepo, genreRepo, categoryRepo),
		Reviews:    service.NewReviewService(reviewRepo, titleRepo, logger),
		Comments:   service.NewCommentService(commentRepo, reviewRepo, titleRepo, logger),
	}

	r, err := router.New(svc, userRepo, router.Options{
		PageSize:      cfg.PageSize,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("router_setup_failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server_shutdown_failed", "error", err)
			return
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}
