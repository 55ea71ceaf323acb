package repository

import (
	"context"

	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

// SQLite variable limit workaround: 100 rows * 10 params stays well within standard limits
const sqliteChunkSize = 100

type sqliteVenueRepository struct {
	venueReader
}

func (r *sqliteVenueRepository) BulkInsertVenues(ctx context.Context, venues []model.Venue) error {
	rows, err := venueRows(venues)
	if err != nil {
		return err
	}

	q := `INSERT OR REPLACE INTO venues (` + venueColumns + `)
		  VALUES (:id, :name_primary, :name_alternate, :city, :lat, :lon, :aliases)`

	return chunks(rows, sqliteChunkSize, func(batch []venueRow) error {
		_, err := r.db.NamedExecContext(ctx, q, batch)
		return err
	})
}

type sqliteTourRepository struct {
	tourReader
}

func (r *sqliteTourRepository) BulkInsertTours(ctx context.Context, tours []model.Tour) error {
	start, err := nextPosition(ctx, r.db, "tours")
	if err != nil {
		return err
	}
	rows, err := tourRows(tours, start)
	if err != nil {
		return err
	}

	return chunks(rows, sqliteChunkSize, func(batch []tourRow) error {
		_, err := r.db.NamedExecContext(ctx, insertTourQuery, batch)
		return err
	})
}

type sqliteConcertRepository struct {
	concertReader
}

func (r *sqliteConcertRepository) BulkInsertConcerts(ctx context.Context, concerts []model.ConcertRaw) error {
	start, err := nextPosition(ctx, r.db, "concerts")
	if err != nil {
		return err
	}
	rows, err := concertRows(concerts, start)
	if err != nil {
		return err
	}

	return chunks(rows, sqliteChunkSize, func(batch []concertRow) error {
		_, err := r.db.NamedExecContext(ctx, insertConcertQuery, batch)
		return err
	})
}
