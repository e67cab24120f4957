package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/pkg/config"
	"github.com/noah-isme/schedule-grid-api/pkg/database"
	"github.com/noah-isme/schedule-grid-api/pkg/logger"
)

func main() {
	flag.Usage = func() {
		log.Println("usage: migrate [up|down|status|version]")
	}
	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db.DB, logr)
	if err != nil {
		logr.Fatal("failed to prepare migrations", zap.Error(err))
	}

	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "version":
		var version int64
		version, err = migrator.Version(ctx)
		if err == nil {
			logr.Info("schema version", zap.Int64("version", version))
		}
	default:
		flag.Usage()
		logr.Fatal("unknown command", zap.String("command", command))
	}
	if err != nil {
		logr.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}
