package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/schedule-grid-api/api/swagger"
	"github.com/noah-isme/schedule-grid-api/internal/handler"
	"github.com/noah-isme/schedule-grid-api/internal/repository"
	"github.com/noah-isme/schedule-grid-api/internal/router"
	"github.com/noah-isme/schedule-grid-api/internal/service"
	"github.com/noah-isme/schedule-grid-api/pkg/cache"
	"github.com/noah-isme/schedule-grid-api/pkg/config"
	"github.com/noah-isme/schedule-grid-api/pkg/database"
	"github.com/noah-isme/schedule-grid-api/pkg/logger"
)

// @title Schedule Grid API
// @version 1.0.0
// @description Weekly schedule grid with conflict detection and placement suggestions
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := service.NewGridSettings(cfg)
	if err != nil {
		logr.Fatal("invalid grid configuration", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(db.DB, logr)
		if err != nil {
			logr.Fatal("failed to prepare migrations", zap.Error(err))
		}
		if err := migrator.Up(ctx); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.GridCache.Enabled)
	if err != nil {
		logr.Warn("grid cache unavailable, serving from the record store", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	var cacheRepo service.CacheRepository
	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
		checks["cache"] = handler.PingerFunc(repo.Ping)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, settings.CacheTTL, logr, redisClient != nil)

	unitRepo := repository.NewUnitRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	slotRepo := repository.NewSlotRepository(db)

	gridSvc := service.NewGridService(unitRepo, roomRepo, slotRepo, cacheSvc, metrics, settings, validate, logr)
	roomSvc := service.NewRoomService(unitRepo, roomRepo, cacheSvc, validate, logr)
	exportSvc, err := service.NewExportService(gridSvc, service.ExportConfig{Timezone: cfg.Export.Timezone}, logr)
	if err != nil {
		logr.Fatal("invalid export configuration", zap.Error(err))
	}
	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	engine := router.Setup(cfg, router.Handlers{
		Grid:   handler.NewGridHandler(gridSvc, logr),
		Room:   handler.NewRoomHandler(roomSvc),
		Export: handler.NewExportHandler(exportSvc),
		Health: handler.NewHealthHandler(metrics, checks),
	}, tokens, metrics, logr)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "grid_cache", cacheSvc.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
