package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouteSummary(t *testing.T) {
	summary := NewRouteSummary(5000, 600)
	assert.Equal(t, 5.0, summary.DistanceKm)
	assert.Equal(t, 10, summary.DurationMinutes)

	assert.Equal(t, 2, NewRouteSummary(0, 90).DurationMinutes)
	assert.Equal(t, 1, NewRouteSummary(0, 89).DurationMinutes)
	assert.Equal(t, 0, NewRouteSummary(0, 29).DurationMinutes)
}

func TestRouteState_Label(t *testing.T) {
	assert.Equal(t, "", RouteState{}.Label())
	assert.Equal(t, "Calculating route...", Resolving().Label())
	assert.Equal(t, "~12 min", Resolved(RouteSummary{DurationMinutes: 12}).Label())
	assert.Equal(t, "Route unavailable", Failed().Label())
}

func TestRouteState_JSON(t *testing.T) {
	payload, err := json.Marshal(Resolved(RouteSummary{DistanceKm: 4.2, DurationMinutes: 9}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"resolved","duration_minutes":9,"distance_km":4.2}`, string(payload))

	payload, err = json.Marshal(Resolved(NewRouteSummary(300, 20)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"resolved","duration_minutes":0,"distance_km":0.3}`, string(payload))

	payload, err = json.Marshal(Failed())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"failed"}`, string(payload))
}

func TestCoordinate_Validate(t *testing.T) {
	assert.NoError(t, Coordinate{Latitude: 28.6139, Longitude: 77.2090}.Validate())
	assert.NoError(t, Coordinate{Latitude: -90, Longitude: 180}.Validate())
	assert.Error(t, Coordinate{Latitude: 90.5, Longitude: 0}.Validate())
	assert.Error(t, Coordinate{Latitude: 0, Longitude: -180.01}.Validate())
}

func TestDirectionsURL(t *testing.T) {
	link := DirectionsURL(Coordinate{Latitude: 28.6, Longitude: 77.2}, Coordinate{Latitude: 28.7, Longitude: 77.3})
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=28.7%2C77.3&origin=28.6%2C77.2&travelmode=driving", link)
}
