package seeder

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/repository"
	"go.uber.org/zap"
)

// Import replaces the stored reference data with ds in a single transaction,
// batchSize records per insert. Venues go first, then tours, then concerts in file order.
// Importing the same dataset twice leaves the store unchanged.
func Import(ctx context.Context, db *sqlx.DB, dbType config.DBType, ds *Dataset, batchSize int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	for _, w := range ds.Warnings {
		logger.Warn("Dataset warning", zap.String("kind", string(w.Kind)), zap.String("message", w.Message))
	}

	return repository.ReplaceAll(ctx, db, dbType, func(repos *repository.Container) error {
		logger.Info("Inserting venues...", zap.Int("count", len(ds.Venues)))
		if err := insertBatches(ctx, VenueList(ds.Venues), batchSize, repos.Venue.BulkInsertVenues); err != nil {
			return fmt.Errorf("failed to insert venues: %w", err)
		}

		logger.Info("Inserting tours...", zap.Int("count", len(ds.Tours)))
		if err := insertBatches(ctx, ds.Tours, batchSize, repos.Tour.BulkInsertTours); err != nil {
			return fmt.Errorf("failed to insert tours: %w", err)
		}

		logger.Info("Inserting concerts...", zap.Int("count", len(ds.Concerts)))
		if err := insertBatches(ctx, ds.Concerts, batchSize, repos.Concert.BulkInsertConcerts); err != nil {
			return fmt.Errorf("failed to insert concerts: %w", err)
		}
		return nil
	})
}

func insertBatches[T any](
	ctx context.Context,
	items []T,
	batchSize int,
	insert func(context.Context, []T) error,
) error {
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := insert(ctx, items[start:end]); err != nil {
			return err
		}
	}
	return nil
}
