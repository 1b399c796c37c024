package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/claim-appeal-api/internal/config"
	"github.com/BerylCAtieno/claim-appeal-api/internal/db"
	"github.com/BerylCAtieno/claim-appeal-api/internal/repository"
	"github.com/BerylCAtieno/claim-appeal-api/internal/router"
	"github.com/BerylCAtieno/claim-appeal-api/internal/services"
	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)

	// Appeal history
	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	appealService, err := services.NewServiceFromConfig(initCtx, repository.NewRepository(database), cfg, logger)
	cancelInit()
	if err != nil {
		logger.Fatal("Failed to initialize appeal service", "error", err)
	}

	handler := router.NewRouter(appealService, router.Options{
		MaxFileSize:    cfg.MaxFileSize,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	// Generation blocks on the chat API, so the write timeout must outlast it.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"router_url", cfg.RouterURL,
			"default_model", cfg.DefaultModel,
			"archive", cfg.S3Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
