package model

// SetlistItem is one performed song of a reconstructed setlist.
// Seq is a ranking key: template seqs for the main set, fractional seqs for
// added songs and 1000+ for encores.
type SetlistItem struct {
	Seq         float64 `json:"seq"`
	Name        string  `json:"name"`
	IsAdded     bool    `json:"is_added,omitempty"`
	IsEncore    bool    `json:"is_encore,omitempty"`
	EncoreLevel int     `json:"encore_level,omitempty"`
	IsMedley    bool    `json:"is_medley,omitempty"`
	IsCover     bool    `json:"is_cover,omitempty"`
	IsRequest   bool    `json:"is_request,omitempty"`
	Note        string  `json:"note,omitempty"`
}

// WarningKind classifies an integrity warning
type WarningKind string

const (
	WarningMissingVenue      WarningKind = "missing_venue"
	WarningVenueIDMismatch   WarningKind = "venue_id_mismatch"
	WarningMissingTour       WarningKind = "missing_tour"
	WarningDuplicateConcert  WarningKind = "duplicate_concert"
	WarningDuplicateSeq      WarningKind = "duplicate_seq"
	WarningDanglingRemoval   WarningKind = "dangling_removal"
	WarningDanglingInsertion WarningKind = "dangling_insertion"
	WarningEncoreOverflow    WarningKind = "encore_overflow"
	WarningInsertOverflow    WarningKind = "insertion_overflow"
)

// IntegrityWarning reports inconsistent reference data. Never fatal.
type IntegrityWarning struct {
	Kind      WarningKind `json:"kind"`
	ConcertID string      `json:"concert_id,omitempty"`
	TourID    string      `json:"tour_id,omitempty"`
	VenueID   string      `json:"venue_id,omitempty"`
	Seq       *float64    `json:"seq,omitempty"`
	Message   string      `json:"message"`
}
