package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

// VenueRepository defines operations for venues
type VenueRepository interface {
	ListVenues(ctx context.Context) (map[string]model.Venue, error)
	GetVenueByID(ctx context.Context, id string) (*model.Venue, error)
	BulkInsertVenues(ctx context.Context, venues []model.Venue) error
}

// TourRepository defines operations for tours. Tours are listed in insertion order.
type TourRepository interface {
	ListTours(ctx context.Context) ([]model.Tour, error)
	GetTourByID(ctx context.Context, id string) (*model.Tour, error)
	BulkInsertTours(ctx context.Context, tours []model.Tour) error
}

// ConcertRepository defines operations for raw concerts. Concerts are listed in insertion order.
type ConcertRepository interface {
	ListConcerts(ctx context.Context) ([]model.ConcertRaw, error)
	GetConcertByID(ctx context.Context, id string) (*model.ConcertRaw, error)
	BulkInsertConcerts(ctx context.Context, concerts []model.ConcertRaw) error
}

// Container holds all repositories
type Container struct {
	Venue   VenueRepository
	Tour    TourRepository
	Concert ConcertRepository
}

// dbtx is implemented by both *sqlx.DB and *sqlx.Tx
type dbtx interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	return newContainer(db, dbType)
}

func newContainer(db dbtx, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			Venue:   &pgVenueRepository{venueReader{db: db}},
			Tour:    &pgTourRepository{tourReader{db: db}},
			Concert: &pgConcertRepository{concertReader{db: db}},
		}
	}

	return &Container{
		Venue:   &sqliteVenueRepository{venueReader{db: db}},
		Tour:    &sqliteTourRepository{tourReader{db: db}},
		Concert: &sqliteConcertRepository{concertReader{db: db}},
	}
}

// ReplaceAll deletes every venue, tour and concert and then calls fn with repositories
// bound to the same transaction. The store changes only if fn succeeds.
func ReplaceAll(ctx context.Context, db *sqlx.DB, dbType config.DBType, fn func(repos *Container) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"concerts", "tours", "venues"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := fn(newContainer(tx, dbType)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// IsDatabaseEmpty reports whether no reference data has been imported yet
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	// Using a safe query that works on both
	query := "SELECT (SELECT COUNT(*) FROM venues) + (SELECT COUNT(*) FROM tours) + (SELECT COUNT(*) FROM concerts)"
	err := db.GetContext(ctx, &count, query)
	if err != nil {
		// Simplify error handling for non-existent tables
		return true, nil
	}
	return count == 0, nil
}

func nextPosition(ctx context.Context, db dbtx, table string) (int, error) {
	var next int
	if err := db.GetContext(ctx, &next, "SELECT COALESCE(MAX(position), -1) + 1 FROM "+table); err != nil {
		return 0, err
	}
	return next, nil
}

func chunks[T any](items []T, size int, fn func(batch []T) error) error {
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		if err := fn(items[i:end]); err != nil {
			return err
		}
	}
	return nil
}
