package main

import (
	"context"
	"flag"
	"log"

	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/database"
	applog "github.com/wayhong0928/mayday-concert-map/internal/logger"
	"github.com/wayhong0928/mayday-concert-map/internal/seeder"
	"go.uber.org/zap"
)

func main() {
	dataDir := flag.String("data", "", "Directory holding venues, tours and concerts JSON (defaults to SEEDER_DATA_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.Seeder.DataDir = *dataDir
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Database unavailable", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		logger.Fatal("Schema migration failed", zap.Error(err))
	}

	parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)

	ds, err := parser.LoadDataset(ctx)
	if err != nil {
		logger.Fatal("Dataset unreadable", zap.String("data_dir", cfg.Seeder.DataDir), zap.Error(err))
	}

	// The stored dataset is replaced atomically; a failed import keeps the previous rows.
	if err := seeder.Import(ctx, db, cfg.DB.Type, ds, parser.BatchSize(), logger); err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}

	logger.Info("Import finished",
		zap.Int("venues", len(ds.Venues)),
		zap.Int("tours", len(ds.Tours)),
		zap.Int("concerts", len(ds.Concerts)),
	)
}
