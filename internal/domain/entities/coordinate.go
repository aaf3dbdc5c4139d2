package entities

import (
	"fmt"
	"math"
)

// Coordinate represents a WGS84 position
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Validate checks latitude is within [-90,90] and longitude within [-180,180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("coordinate out of range: lat=%f lon=%f", c.Latitude, c.Longitude)
	}
	return nil
}

// LonLat returns the [lon, lat] pair used by routing providers.
func (c Coordinate) LonLat() [2]float64 {
	return [2]float64{c.Longitude, c.Latitude}
}

// String formats the coordinate as "lat,lon".
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}
