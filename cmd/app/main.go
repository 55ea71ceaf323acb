package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wayhong0928/mayday-concert-map/internal/api"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/database"
	applog "github.com/wayhong0928/mayday-concert-map/internal/logger"
	"github.com/wayhong0928/mayday-concert-map/internal/repository"
	"github.com/wayhong0928/mayday-concert-map/internal/seeder"
	"github.com/wayhong0928/mayday-concert-map/internal/service"
	"github.com/wayhong0928/mayday-concert-map/internal/stats"
	"go.uber.org/zap"
)

const migrationsDir = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Database unavailable", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB, migrationsDir); err != nil {
		logger.Fatal("Schema migration failed", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	// First start against an empty store imports the bundled dataset.
	if empty, err := repository.IsDatabaseEmpty(ctx, db); err != nil {
		logger.Warn("Could not tell whether the store is empty, skipping seed", zap.Error(err))
	} else if empty {
		if err := autoSeedDatabase(ctx, db, cfg, logger); err != nil {
			logger.Fatal("Seeding empty store failed", zap.Error(err))
		}
	}

	svc := service.NewService(repos.Venue, repos.Tour, repos.Concert, logger)
	if err := svc.Load(ctx); err != nil {
		logger.Fatal("Catalog load failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(svc, stats.NewCollector(db, cfg.DB), cfg, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Signal received, draining connections")

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		logger.Error("Graceful shutdown incomplete", zap.Error(err))
		return
	}
	logger.Info("Stopped")
}

func autoSeedDatabase(ctx context.Context, db *sqlx.DB, cfg *config.Config, logger *zap.Logger) error {
	parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)

	logger.Info("Store is empty, importing dataset", zap.String("data_dir", cfg.Seeder.DataDir))
	ds, err := parser.LoadDataset(ctx)
	if err != nil {
		return err
	}

	if err := seeder.Import(ctx, db, cfg.DB.Type, ds, parser.BatchSize(), logger); err != nil {
		return fmt.Errorf("failed to import dataset: %w", err)
	}

	logger.Info("Imported dataset",
		zap.Int("venues", len(ds.Venues)),
		zap.Int("tours", len(ds.Tours)),
		zap.Int("concerts", len(ds.Concerts)),
	)
	return nil
}
