package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

// Nested song data is stored as JSON text so both dialects share one schema.

const (
	venueColumns   = "id, name_primary, name_alternate, city, lat, lon, aliases"
	tourColumns    = "id, position, name_primary, name_alternate, period, description, standard_main_set"
	concertColumns = "id, position, tour_ref, venue_ref, venue_name_historical, date, time_info, main_set_modifications, encores, links"
)

const insertTourQuery = `INSERT INTO tours (` + tourColumns + `)
	VALUES (:id, :position, :name_primary, :name_alternate, :period, :description, :standard_main_set)`

const insertConcertQuery = `INSERT INTO concerts (` + concertColumns + `)
	VALUES (:id, :position, :tour_ref, :venue_ref, :venue_name_historical, :date,
		:time_info, :main_set_modifications, :encores, :links)`

type venueRow struct {
	ID            string  `db:"id"`
	NamePrimary   string  `db:"name_primary"`
	NameAlternate string  `db:"name_alternate"`
	City          string  `db:"city"`
	Lat           float64 `db:"lat"`
	Lon           float64 `db:"lon"`
	Aliases       string  `db:"aliases"`
}

type tourRow struct {
	ID              string `db:"id"`
	Position        int    `db:"position"`
	NamePrimary     string `db:"name_primary"`
	NameAlternate   string `db:"name_alternate"`
	Period          string `db:"period"`
	Description     string `db:"description"`
	StandardMainSet string `db:"standard_main_set"`
}

type concertRow struct {
	ID                   string         `db:"id"`
	Position             int            `db:"position"`
	TourRef              string         `db:"tour_ref"`
	VenueRef             string         `db:"venue_ref"`
	VenueNameHistorical  string         `db:"venue_name_historical"`
	Date                 string         `db:"date"`
	TimeInfo             sql.NullString `db:"time_info"`
	MainSetModifications sql.NullString `db:"main_set_modifications"`
	Encores              sql.NullString `db:"encores"`
	Links                sql.NullString `db:"links"`
}

func newVenueRow(v model.Venue) (venueRow, error) {
	aliases := v.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	encoded, err := json.Marshal(aliases)
	if err != nil {
		return venueRow{}, fmt.Errorf("venue %s: failed to encode aliases: %w", v.ID, err)
	}
	return venueRow{
		ID:            v.ID,
		NamePrimary:   v.Name.Primary,
		NameAlternate: v.Name.Alternate,
		City:          v.City,
		Lat:           v.Coordinates.Lat,
		Lon:           v.Coordinates.Lon,
		Aliases:       string(encoded),
	}, nil
}

func (r venueRow) toModel() (model.Venue, error) {
	v := model.Venue{
		ID:          r.ID,
		Name:        model.LocalizedName{Primary: r.NamePrimary, Alternate: r.NameAlternate},
		City:        r.City,
		Coordinates: model.Coordinate{Lat: r.Lat, Lon: r.Lon},
	}
	if err := json.Unmarshal([]byte(r.Aliases), &v.Aliases); err != nil {
		return model.Venue{}, fmt.Errorf("venue %s: failed to decode aliases: %w", r.ID, err)
	}
	return v, nil
}

func newTourRow(t model.Tour, position int) (tourRow, error) {
	songs := t.StandardMainSet
	if songs == nil {
		songs = []model.Song{}
	}
	encoded, err := json.Marshal(songs)
	if err != nil {
		return tourRow{}, fmt.Errorf("tour %s: failed to encode main set: %w", t.ID, err)
	}
	return tourRow{
		ID:              t.ID,
		Position:        position,
		NamePrimary:     t.Name.Primary,
		NameAlternate:   t.Name.Alternate,
		Period:          t.Period,
		Description:     t.Description,
		StandardMainSet: string(encoded),
	}, nil
}

func (r tourRow) toModel() (model.Tour, error) {
	t := model.Tour{
		ID:          r.ID,
		Name:        model.LocalizedName{Primary: r.NamePrimary, Alternate: r.NameAlternate},
		Period:      r.Period,
		Description: r.Description,
	}
	if err := json.Unmarshal([]byte(r.StandardMainSet), &t.StandardMainSet); err != nil {
		return model.Tour{}, fmt.Errorf("tour %s: failed to decode main set: %w", r.ID, err)
	}
	return t, nil
}

func newConcertRow(c model.ConcertRaw, position int) (concertRow, error) {
	row := concertRow{
		ID:                  c.ID,
		Position:            position,
		TourRef:             c.TourRef,
		VenueRef:            c.VenueRef,
		VenueNameHistorical: c.VenueNameHistorical,
		Date:                c.Date,
	}

	var err error
	if c.TimeInfo != nil {
		if row.TimeInfo, err = nullJSON(c.TimeInfo); err != nil {
			return concertRow{}, fmt.Errorf("concert %s: failed to encode time info: %w", c.ID, err)
		}
	}
	if c.MainSetModifications != nil {
		if row.MainSetModifications, err = nullJSON(c.MainSetModifications); err != nil {
			return concertRow{}, fmt.Errorf("concert %s: failed to encode modifications: %w", c.ID, err)
		}
	}
	if len(c.Encores) > 0 {
		if row.Encores, err = nullJSON(c.Encores); err != nil {
			return concertRow{}, fmt.Errorf("concert %s: failed to encode encores: %w", c.ID, err)
		}
	}
	if c.Links != nil {
		if row.Links, err = nullJSON(c.Links); err != nil {
			return concertRow{}, fmt.Errorf("concert %s: failed to encode links: %w", c.ID, err)
		}
	}
	return row, nil
}

func (r concertRow) toModel() (model.ConcertRaw, error) {
	c := model.ConcertRaw{
		ID:                  r.ID,
		TourRef:             r.TourRef,
		VenueRef:            r.VenueRef,
		VenueNameHistorical: r.VenueNameHistorical,
		Date:                r.Date,
	}

	if err := decodeNullJSON(r.TimeInfo, &c.TimeInfo); err != nil {
		return model.ConcertRaw{}, fmt.Errorf("concert %s: failed to decode time info: %w", r.ID, err)
	}
	if err := decodeNullJSON(r.MainSetModifications, &c.MainSetModifications); err != nil {
		return model.ConcertRaw{}, fmt.Errorf("concert %s: failed to decode modifications: %w", r.ID, err)
	}
	if err := decodeNullJSON(r.Encores, &c.Encores); err != nil {
		return model.ConcertRaw{}, fmt.Errorf("concert %s: failed to decode encores: %w", r.ID, err)
	}
	if err := decodeNullJSON(r.Links, &c.Links); err != nil {
		return model.ConcertRaw{}, fmt.Errorf("concert %s: failed to decode links: %w", r.ID, err)
	}
	return c, nil
}

func venueRows(venues []model.Venue) ([]venueRow, error) {
	rows := make([]venueRow, 0, len(venues))
	for _, v := range venues {
		row, err := newVenueRow(v)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func tourRows(tours []model.Tour, start int) ([]tourRow, error) {
	rows := make([]tourRow, 0, len(tours))
	for i, t := range tours {
		row, err := newTourRow(t, start+i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func concertRows(concerts []model.ConcertRaw, start int) ([]concertRow, error) {
	rows := make([]concertRow, 0, len(concerts))
	for i, c := range concerts {
		row, err := newConcertRow(c, start+i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func nullJSON(v any) (sql.NullString, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeNullJSON(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}
