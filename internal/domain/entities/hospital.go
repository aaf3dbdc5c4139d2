package entities

import (
	"fmt"
	"net/url"
)

const (
	// UnnamedHospital is shown when the POI source has no name tag
	UnnamedHospital = "Unnamed Hospital"

	// AddressNotAvailable is shown when no address tag is present
	AddressNotAvailable = "Address not available"
)

// HospitalCandidate is one hospital returned by a nearby query, annotated with
// its distance from the anchor and the state of its on-demand route lookup.
type HospitalCandidate struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Coords     Coordinate `json:"coords"`
	DistanceKm float64    `json:"distance_km"`
	Address    string     `json:"address"`
	Website    string     `json:"website,omitempty"`
	Route      RouteState `json:"route"`
}

// NearbyResult is the bounded outcome of one discovery run. Err is set when the
// POI query failed; Hospitals is then empty.
type NearbyResult struct {
	Anchor           Coordinate          `json:"anchor"`
	LocationFallback bool                `json:"location_fallback"`
	RadiusMeters     int                 `json:"radius_meters"`
	Hospitals        []HospitalCandidate `json:"hospitals"`
	Err              error               `json:"-"`
}

// DirectionsURL builds a Google Maps driving-directions link between two points.
func DirectionsURL(origin, destination Coordinate) string {
	values := url.Values{}
	values.Set("api", "1")
	values.Set("origin", fmt.Sprintf("%g,%g", origin.Latitude, origin.Longitude))
	values.Set("destination", fmt.Sprintf("%g,%g", destination.Latitude, destination.Longitude))
	values.Set("travelmode", "driving")
	return "https://www.google.com/maps/dir/?" + values.Encode()
}
