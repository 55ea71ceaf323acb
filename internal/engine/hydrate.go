// Package engine joins concert reference data and reconstructs performed setlists.
// Every function here is pure apart from diagnostic logging.
package engine

import (
	"github.com/wayhong0928/mayday-concert-map/internal/model"
	"go.uber.org/zap"
)

const (
	UnknownCity  = "Unknown"
	UnknownVenue = "Unknown Venue"
)

// Hydrate resolves each concert's venue reference into coordinates, city and a
// display name. A concert whose venue is missing is kept with fallback values.
// The result has the same length and order as concerts.
func Hydrate(concerts []model.ConcertRaw, venues map[string]model.Venue, logger *zap.Logger) []model.Concert {
	if logger == nil {
		logger = zap.NewNop()
	}

	hydrated := make([]model.Concert, 0, len(concerts))
	for _, raw := range concerts {
		hydrated = append(hydrated, hydrateOne(raw, venues, logger))
	}
	return hydrated
}

func hydrateOne(raw model.ConcertRaw, venues map[string]model.Venue, logger *zap.Logger) model.Concert {
	venue, ok := venues[raw.VenueRef]
	if !ok {
		logger.Warn("Venue not found for concert",
			zap.String("concert_id", raw.ID),
			zap.String("venue_ref", raw.VenueRef),
		)
		return model.Concert{
			ConcertRaw:       raw,
			Coordinates:      model.Coordinate{},
			City:             UnknownCity,
			DisplayVenueName: firstNonEmpty(raw.VenueNameHistorical, UnknownVenue),
		}
	}

	return model.Concert{
		ConcertRaw:       raw,
		Coordinates:      venue.Coordinates,
		City:             venue.City,
		DisplayVenueName: firstNonEmpty(raw.VenueNameHistorical, venue.Name.Primary, UnknownVenue),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
