package model

// ConcertListResponse represents the response for the concert list (map markers)
type ConcertListResponse struct {
	Concerts []Concert `json:"concerts"`
	Count    int       `json:"count"`
}

// TourSummary is the tour header shown next to a concert
type TourSummary struct {
	ID     string        `json:"id"`
	Name   LocalizedName `json:"name"`
	Period string        `json:"period"`
}

// ConcertDetailResponse represents detailed information about a concert
type ConcertDetailResponse struct {
	Concert Concert       `json:"concert"`
	Tour    *TourSummary  `json:"tour"`
	Setlist []SetlistItem `json:"setlist"`
}

// SetlistResponse represents a reconstructed setlist
type SetlistResponse struct {
	ConcertID string             `json:"concert_id"`
	TourID    string             `json:"tour_id,omitempty"`
	Items     []SetlistItem      `json:"items"`
	Warnings  []IntegrityWarning `json:"warnings,omitempty"`
}

// TourListResponse represents the response for the tour list
type TourListResponse struct {
	Tours []Tour `json:"tours"`
	Count int    `json:"count"`
}

// VenueListResponse represents the response for the venue list
type VenueListResponse struct {
	Venues []Venue `json:"venues"`
	Count  int     `json:"count"`
}

// IntegrityResponse lists the warnings found while loading reference data
type IntegrityResponse struct {
	Warnings []IntegrityWarning `json:"warnings"`
	Count    int                `json:"count"`
}

// MapConfigResponse carries the marker and viewport settings for the map client
type MapConfigResponse struct {
	TileURL       string     `json:"tile_url"`
	Center        Coordinate `json:"center"`
	Zoom          int        `json:"zoom"`
	IconURL       string     `json:"icon_url"`
	IconRetinaURL string     `json:"icon_retina_url"`
	ShadowURL     string     `json:"shadow_url"`
}
