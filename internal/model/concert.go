package model

// Song is one entry of a tour template, an insertion group or an encore.
// A zero or missing Seq means the song's 1-based list position is used.
type Song struct {
	Seq       *float64 `json:"seq,omitempty"`
	Name      string   `json:"name"`
	IsMedley  bool     `json:"is_medley,omitempty"`
	IsCover   bool     `json:"is_cover,omitempty"`
	IsRequest bool     `json:"is_request,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// Tour is a concert tour with its canonical main set
type Tour struct {
	ID              string        `json:"id"`
	Name            LocalizedName `json:"name"`
	Period          string        `json:"period"`
	Description     string        `json:"description,omitempty"`
	StandardMainSet []Song        `json:"standard_main_set"`
}

// TimeInfo describes when a concert started and ended
type TimeInfo struct {
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Timezone  string `json:"timezone"`
}

// Insertion adds songs to the main set right after the song with AfterSeq
type Insertion struct {
	AfterSeq float64 `json:"after_seq"`
	Songs    []Song  `json:"songs"`
}

// MainSetModifications are the per-concert deltas against the tour template
type MainSetModifications struct {
	RemovedSeq []float64   `json:"removed_seq,omitempty"`
	Added      []Insertion `json:"added,omitempty"`
}

// Encore is one encore segment
type Encore struct {
	Level int    `json:"level"`
	Songs []Song `json:"songs"`
}

// NewsReport links an article about a concert
type NewsReport struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Links holds external media for a concert
type Links struct {
	YoutubePlaylist string       `json:"youtube_playlist,omitempty"`
	NewsReports     []NewsReport `json:"news_reports,omitempty"`
}

// ConcertRaw is a concert as stored in the reference data.
// TourRef and VenueRef are not guaranteed to resolve.
type ConcertRaw struct {
	ID                   string                `json:"id"`
	TourRef              string                `json:"tour_ref"`
	VenueRef             string                `json:"venue_ref"`
	VenueNameHistorical  string                `json:"venue_name_historical,omitempty"`
	Date                 string                `json:"date"`
	TimeInfo             *TimeInfo             `json:"time_info,omitempty"`
	MainSetModifications *MainSetModifications `json:"main_set_modifications,omitempty"`
	Encores              []Encore              `json:"encores,omitempty"`
	Links                *Links                `json:"links,omitempty"`
}

// Concert is a ConcertRaw hydrated with its venue data
type Concert struct {
	ConcertRaw
	Coordinates      Coordinate `json:"coordinates"`
	City             string     `json:"city"`
	DisplayVenueName string     `json:"display_venue_name"`
}
