package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
)

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	driverName := "pgx"
	if cfg.IsMemory() {
		driverName = "sqlite3"
	}

	db, err := sqlx.ConnectContext(ctx, driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// NewMigrator builds a migrator over db for the migrations under migrationsDir/<sqlite|postgres>.
// It reuses db so in-memory SQLite sees the same schema. Closing the migrator closes db.
func NewMigrator(db *sqlx.DB, cfg config.DBConfig, migrationsDir string) (*migrate.Migrate, error) {
	sourceURL := "file://" + filepath.ToSlash(filepath.Join(migrationsDir, dialectDir(cfg)))

	var (
		driver migratedb.Driver
		name   string
		err    error
	)
	if cfg.IsMemory() {
		name = "sqlite3"
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	} else {
		name = "postgres"
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s driver: %w", name, err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, name, driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies all pending migrations. The migrator is not closed so db stays usable.
func Migrate(db *sqlx.DB, cfg config.DBConfig, migrationsDir string) error {
	m, err := NewMigrator(db, cfg, migrationsDir)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func dialectDir(cfg config.DBConfig) string {
	if cfg.IsMemory() {
		return "sqlite"
	}
	return "postgres"
}
