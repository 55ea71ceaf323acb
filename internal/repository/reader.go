package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

// Read queries are identical across dialects apart from bind vars, which Rebind handles.

type venueReader struct {
	db dbtx
}

func (r venueReader) ListVenues(ctx context.Context) (map[string]model.Venue, error) {
	var rows []venueRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+venueColumns+" FROM venues ORDER BY id"); err != nil {
		return nil, err
	}

	venues := make(map[string]model.Venue, len(rows))
	for _, row := range rows {
		v, err := row.toModel()
		if err != nil {
			return nil, err
		}
		venues[v.ID] = v
	}
	return venues, nil
}

func (r venueReader) GetVenueByID(ctx context.Context, id string) (*model.Venue, error) {
	var row venueRow
	q := r.db.Rebind("SELECT " + venueColumns + " FROM venues WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	v, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type tourReader struct {
	db dbtx
}

func (r tourReader) ListTours(ctx context.Context) ([]model.Tour, error) {
	var rows []tourRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+tourColumns+" FROM tours ORDER BY position"); err != nil {
		return nil, err
	}

	tours := make([]model.Tour, 0, len(rows))
	for _, row := range rows {
		t, err := row.toModel()
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, nil
}

func (r tourReader) GetTourByID(ctx context.Context, id string) (*model.Tour, error) {
	var row tourRow
	q := r.db.Rebind("SELECT " + tourColumns + " FROM tours WHERE id = ? ORDER BY position LIMIT 1")
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type concertReader struct {
	db dbtx
}

func (r concertReader) ListConcerts(ctx context.Context) ([]model.ConcertRaw, error) {
	var rows []concertRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+concertColumns+" FROM concerts ORDER BY position"); err != nil {
		return nil, err
	}

	concerts := make([]model.ConcertRaw, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		concerts = append(concerts, c)
	}
	return concerts, nil
}

func (r concertReader) GetConcertByID(ctx context.Context, id string) (*model.ConcertRaw, error) {
	var row concertRow
	q := r.db.Rebind("SELECT " + concertColumns + " FROM concerts WHERE id = ? ORDER BY position LIMIT 1")
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &c, nil
}
