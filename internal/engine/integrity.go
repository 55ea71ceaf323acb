package engine

import (
	"fmt"

	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

// CheckIntegrity validates the cross references between concerts, venues and
// tours, and the modifications of every concert whose tour resolves.
// It reports problems and never alters or rejects data.
func CheckIntegrity(venues map[string]model.Venue, tours []model.Tour, concerts []model.ConcertRaw) []model.IntegrityWarning {
	tourIndex := IndexTours(tours)
	seen := make(map[string]bool, len(concerts))

	var warnings []model.IntegrityWarning
	for _, raw := range concerts {
		if seen[raw.ID] {
			warnings = append(warnings, model.IntegrityWarning{
				Kind:      model.WarningDuplicateConcert,
				ConcertID: raw.ID,
				Message:   fmt.Sprintf("concert id %s appears more than once", raw.ID),
			})
		}
		seen[raw.ID] = true

		if _, ok := venues[raw.VenueRef]; !ok {
			warnings = append(warnings, model.IntegrityWarning{
				Kind:      model.WarningMissingVenue,
				ConcertID: raw.ID,
				VenueID:   raw.VenueRef,
				Message:   fmt.Sprintf("venue %q not found", raw.VenueRef),
			})
		}

		tour, ok := tourIndex[raw.TourRef]
		if !ok {
			warnings = append(warnings, model.IntegrityWarning{
				Kind:      model.WarningMissingTour,
				ConcertID: raw.ID,
				TourID:    raw.TourRef,
				Message:   fmt.Sprintf("tour %q not found", raw.TourRef),
			})
			continue
		}

		_, setlistWarnings := ReconstructWithReport(tour, model.Concert{ConcertRaw: raw})
		warnings = append(warnings, setlistWarnings...)
	}
	return warnings
}

// IndexTours maps tour ids to tours. The first tour wins on duplicate ids.
func IndexTours(tours []model.Tour) map[string]model.Tour {
	index := make(map[string]model.Tour, len(tours))
	for _, t := range tours {
		if _, exists := index[t.ID]; !exists {
			index[t.ID] = t
		}
	}
	return index
}
