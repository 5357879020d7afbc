package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"prfaq-backend/config"
	"prfaq-backend/internal/api"
	"prfaq-backend/internal/database"
	"prfaq-backend/internal/models"
	"prfaq-backend/internal/services"
	"prfaq-backend/pkg/logger"
)

// @title prfaq-backend API
// @version 1.0
// @description Points ledger, usage metering and billing for the PRFAQ generation tool.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.Log.Fatal("failed to connect database", zap.Error(err))
	}

	rdb, err := database.ConnectRedis(cfg)
	if err != nil {
		// The cache is an optimization; run without it rather than refuse to start.
		logger.Log.Warn("redis unavailable, running without user cache", zap.Error(err))
		rdb = nil
	}

	// Migrate the schema
	if err := db.AutoMigrate(&models.User{}, &models.PointTransaction{}, &models.Bill{}, &models.SchedulerState{}); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	scheduler := services.NewResetScheduler(db, cfg.Location(), logger.Log)
	go scheduler.Start()

	router := api.NewRouter(cfg, db, rdb, logger.Log)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()
	logger.Log.Info("server started", zap.String("addr", cfg.ServerAddr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
}
