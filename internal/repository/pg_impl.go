package repository

import (
	"context"

	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

// --- PostgreSQL Implementation ---

// Chunking to avoid parameter limit issues even in PG (max 65535 parameters)
const pgChunkSize = 1000

type pgVenueRepository struct {
	venueReader
}

func (r *pgVenueRepository) BulkInsertVenues(ctx context.Context, venues []model.Venue) error {
	rows, err := venueRows(venues)
	if err != nil {
		return err
	}

	q := `INSERT INTO venues (` + venueColumns + `)
		  VALUES (:id, :name_primary, :name_alternate, :city, :lat, :lon, :aliases)
		  ON CONFLICT (id) DO UPDATE SET
			name_primary = EXCLUDED.name_primary,
			name_alternate = EXCLUDED.name_alternate,
			city = EXCLUDED.city,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			aliases = EXCLUDED.aliases`

	return chunks(rows, pgChunkSize, func(batch []venueRow) error {
		_, err := r.db.NamedExecContext(ctx, q, batch)
		return err
	})
}

type pgTourRepository struct {
	tourReader
}

func (r *pgTourRepository) BulkInsertTours(ctx context.Context, tours []model.Tour) error {
	start, err := nextPosition(ctx, r.db, "tours")
	if err != nil {
		return err
	}
	rows, err := tourRows(tours, start)
	if err != nil {
		return err
	}

	return chunks(rows, pgChunkSize, func(batch []tourRow) error {
		_, err := r.db.NamedExecContext(ctx, insertTourQuery, batch)
		return err
	})
}

type pgConcertRepository struct {
	concertReader
}

func (r *pgConcertRepository) BulkInsertConcerts(ctx context.Context, concerts []model.ConcertRaw) error {
	start, err := nextPosition(ctx, r.db, "concerts")
	if err != nil {
		return err
	}
	rows, err := concertRows(concerts, start)
	if err != nil {
		return err
	}

	return chunks(rows, pgChunkSize, func(batch []concertRow) error {
		_, err := r.db.NamedExecContext(ctx, insertConcertQuery, batch)
		return err
	})
}
