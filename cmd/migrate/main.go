package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/database"
	applog "github.com/wayhong0928/mayday-concert-map/internal/logger"
	"go.uber.org/zap"
)

func main() {
	command := flag.String("command", "up", "up, down, steps, force or version")
	steps := flag.Int("n", 1, "Step count for steps (negative rolls back), version for force")
	dir := flag.String("dir", "migrations", "Directory containing the sqlite/ and postgres/ migration sets")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.DB.IsMemory() {
		logger.Info("In-memory database is migrated by the app on startup, skipping")
		return
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Database unavailable", zap.Error(err))
	}

	m, err := database.NewMigrator(db, cfg.DB, *dir)
	if err != nil {
		logger.Fatal("Migrator setup failed", zap.Error(err))
	}
	defer m.Close()

	if err := run(m, *command, *steps, logger); err != nil {
		logger.Fatal("Migration failed", zap.String("command", *command), zap.Error(err))
	}
}

func run(m *migrate.Migrate, command string, n int, logger *zap.Logger) error {
	var err error
	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(n)
	case "force":
		err = m.Force(n)
	case "version":
		v, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			logger.Info("No migrations applied yet")
			return nil
		}
		if verr != nil {
			return verr
		}
		logger.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	default:
		return errors.New("unknown command " + command)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("Migration finished", zap.String("command", command))
	return nil
}
