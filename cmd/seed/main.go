package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/internal/repository"
	"github.com/noah-isme/schedule-grid-api/internal/seed"
	"github.com/noah-isme/schedule-grid-api/internal/service"
	"github.com/noah-isme/schedule-grid-api/pkg/config"
	"github.com/noah-isme/schedule-grid-api/pkg/database"
	"github.com/noah-isme/schedule-grid-api/pkg/logger"
)

func main() {
	path := flag.String("file", "seed.yaml", "YAML fixture with units, rooms and slots")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	settings, err := service.NewGridSettings(cfg)
	if err != nil {
		logr.Fatal("invalid grid configuration", zap.Error(err))
	}

	file, err := os.Open(*path)
	if err != nil {
		logr.Fatal("failed to open fixture", zap.String("file", *path), zap.Error(err))
	}
	defer file.Close()

	fixture, err := seed.Parse(file)
	if err != nil {
		logr.Fatal("invalid fixture", zap.String("file", *path), zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	loader := seed.NewLoader(
		repository.NewUnitRepository(db),
		repository.NewRoomRepository(db),
		repository.NewSlotRepository(db),
		settings.Grid,
		logr,
	)
	report, err := loader.Apply(ctx, fixture)
	if err != nil {
		logr.Fatal("seed failed", zap.Error(err))
	}
	logr.Info("seed applied",
		zap.Int("units", report.Units),
		zap.Int("rooms", report.Rooms),
		zap.Int("slots_created", report.SlotsCreated),
		zap.Int("slots_kept", report.SlotsKept),
		zap.Int("slots_skipped", report.SlotsSkipped),
	)
}
