package model

import (
	"encoding/json"
	"fmt"
)

// LocalizedName holds a display name in the primary (zh) and alternate (en) language
type LocalizedName struct {
	Primary   string `json:"zh"`
	Alternate string `json:"en"`
}

// Coordinate represents geographic coordinates.
// It is encoded as a [lat, lon] pair, the layout map clients expect.
type Coordinate struct {
	Lat float64
	Lon float64
}

// MarshalJSON encodes the coordinate as [lat, lon]
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

// UnmarshalJSON accepts either [lat, lon] or {"lat": .., "lon": ..}
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("coordinates must have 2 elements, got %d", len(pair))
		}
		c.Lat, c.Lon = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid coordinates: %w", err)
	}
	c.Lat, c.Lon = obj.Lat, obj.Lon
	return nil
}

// Venue is a concert venue. Reference data keyed by ID.
type Venue struct {
	ID          string        `json:"id"`
	Name        LocalizedName `json:"name"`
	City        string        `json:"city"`
	Coordinates Coordinate    `json:"coordinates"`
	Aliases     []string      `json:"aliases"`
}
